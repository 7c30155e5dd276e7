// Package config turns viper settings (flags, environment, config file) into
// the validated configurations used by the converter packages.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"golang-statement-converter/internal/converter"
	"golang-statement-converter/internal/exporter"
	"golang-statement-converter/internal/parsers"
	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

// Keys shared by flags, environment variables and config files
const (
	KeyInput              = "input"
	KeyOutputDir          = "output-dir"
	KeyFormat             = "format"
	KeyMonths             = "months"
	KeyNegativeStyle      = "negative-style"
	KeyThousandsSeparator = "thousands-separator"
	KeyParallel           = "parallel"
	KeyMaxConcurrency     = "max-concurrency"
	KeyDryRun             = "dry-run"
	KeyProgress           = "progress"
	KeyRequirePeriods     = "require-periods"
	KeyNoColor            = "no-color"
	KeyVerbose            = "verbose"
	KeyLogLevel           = "log-level"
	KeyLogFormat          = "log-format"
	KeyLogFile            = "log-file"
)

// CreateParserConfig builds the tokenizer configuration
func CreateParserConfig() (*parsers.Config, error) {
	config := parsers.DefaultConfig()

	if months := normalizeList(viper.GetStringSlice(KeyMonths)); len(months) > 0 {
		config.Months = months
	}
	if viper.IsSet(KeyThousandsSeparator) {
		config.ThousandsSeparator = viper.GetString(KeyThousandsSeparator)
	}

	raw := viper.GetString(KeyNegativeStyle)
	style, err := parsers.ParseNegativeStyle(raw)
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, KeyNegativeStyle, raw, err)
	}
	config.NegativeStyle = style

	if err := config.Validate(); err != nil {
		value := fmt.Sprintf("months=%s separator=%q", strings.Join(config.Months, ","), config.ThousandsSeparator)
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "parser", value, err)
	}
	return config, nil
}

// CreateConverterConfig builds the run configuration
func CreateConverterConfig() (*converter.Config, error) {
	config := converter.DefaultConfig()

	config.Parallel = viper.GetBool(KeyParallel)
	config.DryRun = viper.GetBool(KeyDryRun)
	config.ProgressReporting = viper.GetBool(KeyProgress)
	config.RequirePeriods = viper.GetBool(KeyRequirePeriods)
	if viper.IsSet(KeyMaxConcurrency) {
		config.MaxConcurrency = viper.GetInt(KeyMaxConcurrency)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, KeyMaxConcurrency, config.MaxConcurrency, err)
	}
	return config, nil
}

// CreateExportConfig builds the exporter configuration for the chosen format
func CreateExportConfig() (*exporter.Config, error) {
	config := exporter.DefaultConfig()

	raw := viper.GetString(KeyFormat)
	format, err := exporter.ParseOutputFormat(raw)
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, KeyFormat, raw, err)
	}
	config.Format = format
	config.UseColors = !viper.GetBool(KeyNoColor)

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, KeyFormat, raw, err)
	}
	return config, nil
}

// CreateLoggerConfig builds the logger configuration. --verbose raises the
// level to debug unless a level was given explicitly.
func CreateLoggerConfig() (*logger.Config, error) {
	config := logger.DefaultConfig()

	if viper.GetBool(KeyVerbose) {
		config.Level = logger.DebugLevel
	}
	if level := viper.GetString(KeyLogLevel); level != "" {
		config.Level = logger.Level(strings.ToLower(level))
	}
	if format := viper.GetString(KeyLogFormat); format != "" {
		config.Format = logger.Format(strings.ToLower(format))
	}
	if file := viper.GetString(KeyLogFile); file != "" {
		config.Output = logger.FileOutput
		config.File = file
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, KeyLogLevel, config.Level, err)
	}
	return config, nil
}

// ValidateConfig checks that all configurations can be built together
func ValidateConfig() error {
	if _, err := CreateParserConfig(); err != nil {
		return err
	}
	if _, err := CreateConverterConfig(); err != nil {
		return err
	}
	if _, err := CreateExportConfig(); err != nil {
		return err
	}
	if _, err := CreateLoggerConfig(); err != nil {
		return err
	}

	input, outputDir := viper.GetString(KeyInput), viper.GetString(KeyOutputDir)
	if input != "" && outputDir != "" && filepath.Clean(input) == filepath.Clean(outputDir) {
		return errors.ConfigurationError(errors.CodeConfigConflict, KeyOutputDir, outputDir, nil).
			WithSuggestion("the output directory must differ from the input file")
	}
	return nil
}

// normalizeList trims entries and drops empty ones; env vars arrive as a
// single comma separated string.
func normalizeList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
