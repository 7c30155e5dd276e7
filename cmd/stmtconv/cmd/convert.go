package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"golang-statement-converter/cmd/stmtconv/config"
	"golang-statement-converter/internal/converter"
	"golang-statement-converter/internal/exporter"
	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

var (
	inputFile          string
	outputDir          string
	outputFormat       string
	months             []string
	negativeStyle      string
	thousandsSeparator string
	parallel           bool
	maxConcurrency     int
	dryRun             bool
	showProgress       bool
	requirePeriods     bool
	noColor            bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a statement text export into one table per period",
	Long: `Convert reads a text export in which every statement period is a label
line followed by a single line holding all of that period's transactions.
Each period is tokenized into records, checked for lost or out of order
references, and written to its own file in the output directory.

Amounts use ',' as thousands separator and a trailing '-' for debits unless
--thousands-separator or --negative-style say otherwise.

Examples:
  # One CSV per period
  stmtconv convert --input statements.txt --output-dir out

  # Excel workbooks, periods tokenized in parallel
  stmtconv convert -i statements.txt -o out --format xlsx --parallel --max-concurrency 8

  # Check an export without writing anything
  stmtconv convert -i statements.txt --dry-run

  # Debits written as (1,234.56)
  stmtconv convert -i statements.txt -o out --negative-style parentheses`,
	PreRunE: validateConvertFlags,
	RunE:    runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&inputFile, config.KeyInput, "i", "", "statement text export to convert (required)")
	convertCmd.Flags().StringVarP(&outputDir, config.KeyOutputDir, "o", "", "directory for the per-period files (required unless --dry-run)")
	convertCmd.Flags().StringVarP(&outputFormat, config.KeyFormat, "f", "csv", "output format: csv, json, xlsx")
	convertCmd.Flags().StringSliceVar(&months, config.KeyMonths, nil, "month abbreviations that start a transaction date (default all twelve)")
	convertCmd.Flags().StringVar(&negativeStyle, config.KeyNegativeStyle, "trailing", "how debits are written: trailing, leading, parentheses, any")
	convertCmd.Flags().StringVar(&thousandsSeparator, config.KeyThousandsSeparator, ",", "thousands separator stripped from amounts")
	convertCmd.Flags().BoolVar(&parallel, config.KeyParallel, false, "tokenize periods in parallel")
	convertCmd.Flags().IntVar(&maxConcurrency, config.KeyMaxConcurrency, 4, "maximum periods tokenized at once with --parallel")
	convertCmd.Flags().BoolVar(&dryRun, config.KeyDryRun, false, "parse and validate without writing files")
	convertCmd.Flags().BoolVar(&showProgress, config.KeyProgress, false, "show progress while converting")
	convertCmd.Flags().BoolVar(&requirePeriods, config.KeyRequirePeriods, false, "fail when the export contains no statement period")
	convertCmd.Flags().BoolVar(&noColor, config.KeyNoColor, false, "disable colored summary output")

	bindConvertFlags()
}

func bindConvertFlags() {
	for _, key := range []string{
		config.KeyInput, config.KeyOutputDir, config.KeyFormat, config.KeyMonths,
		config.KeyNegativeStyle, config.KeyThousandsSeparator, config.KeyParallel,
		config.KeyMaxConcurrency, config.KeyDryRun, config.KeyProgress, config.KeyRequirePeriods,
		config.KeyNoColor,
	} {
		viper.BindPFlag(key, convertCmd.Flags().Lookup(key))
	}
}

func validateConvertFlags(cmd *cobra.Command, args []string) error {
	input := viper.GetString(config.KeyInput)
	output := viper.GetString(config.KeyOutputDir)

	if input == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, config.KeyInput, "", nil).
			WithSuggestion("pass the export with --input <file>")
	}
	if err := validateFileExists(input); err != nil {
		return err
	}

	if output == "" && !viper.GetBool(config.KeyDryRun) {
		return errors.ConfigurationError(errors.CodeMissingConfig, config.KeyOutputDir, "", nil).
			WithSuggestion("pass --output-dir <dir> or use --dry-run")
	}
	if output != "" {
		if info, err := os.Stat(output); err == nil && !info.IsDir() {
			return errors.FileError(errors.CodeDirectoryError, output, fmt.Errorf("output path is a file"))
		}
	}

	return config.ValidateConfig()
}

func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return errors.FileError(errors.CodeFileNotFound, path, err)
	}
	if os.IsPermission(err) {
		return errors.FileError(errors.CodeFilePermission, path, err)
	}
	if err != nil {
		return errors.FileError(errors.CodeFileCorrupted, path, err)
	}
	if info.IsDir() {
		return errors.FileError(errors.CodeDirectoryError, path, fmt.Errorf("input is a directory, expected a file"))
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.GetGlobalLogger().WithComponent("cli")

	parserConfig, err := config.CreateParserConfig()
	if err != nil {
		return err
	}
	converterConfig, err := config.CreateConverterConfig()
	if err != nil {
		return err
	}
	exportConfig, err := config.CreateExportConfig()
	if err != nil {
		return err
	}

	conv, err := converter.NewConverter(converterConfig, parserConfig, exportConfig)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if viper.GetBool(config.KeyProgress) {
		conv.AddProgressCallback(func(p *converter.Progress) {
			fmt.Fprintf(stderr, "\r[%d/%d] %s (%.1f%% complete)",
				p.PeriodsDone, p.TotalPeriods, p.CurrentStep, p.PercentComplete)
		})
	}

	input := viper.GetString(config.KeyInput)
	output := viper.GetString(config.KeyOutputDir)
	log.WithFields(logger.Fields{
		"input":  input,
		"output": output,
		"format": exportConfig.Format,
	}).Debug("Converting export")

	result, err := conv.Convert(ctx, input, output)
	if viper.GetBool(config.KeyProgress) {
		fmt.Fprintln(stderr)
	}
	if err != nil {
		return err
	}

	useColors := exportConfig.UseColors && !color.NoColor
	if err := exporter.NewSummaryWriter(useColors).WriteSummary(result.Summary, cmd.OutOrStdout()); err != nil {
		return errors.InternalError(errors.CodeUnexpectedError, "write summary", err)
	}

	for _, stats := range result.Stats {
		log.Debug(stats.String())
	}
	return nil
}
