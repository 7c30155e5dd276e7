package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"golang-statement-converter/cmd/stmtconv/config"
	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
	logFile   string
	configErr error
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stmtconv",
	Short: "Bank statement text export converter",
	Long: `stmtconv converts a raw bank-statement text export, holding several
statement periods in one file, into one table per period with the columns
reference, transaction_date, post_date, details and amount.

Examples:
  stmtconv convert --input statements.txt --output-dir out
  stmtconv convert -i statements.txt -o out --format xlsx --parallel
  stmtconv convert -i statements.txt --dry-run
  stmtconv version`,
	Version:           getVersionString(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, config.KeyVerbose, "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, config.KeyLogLevel, "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, config.KeyLogFormat, "", "log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, config.KeyLogFile, "", "write logs to this file instead of stderr")

	bindGlobalFlags()
}

func bindGlobalFlags() {
	for _, key := range []string{config.KeyVerbose, config.KeyLogLevel, config.KeyLogFormat, config.KeyLogFile} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	configErr = nil

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			configErr = errors.ConfigurationError(errors.CodeInvalidConfig, "config", cfgFile, err).
				WithSuggestion("check that the config file exists and is valid yaml, json or toml")
			return
		}
	}

	// STMTCONV_OUTPUT_DIR and friends
	viper.SetEnvPrefix("STMTCONV")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setupLogging installs the global logger before any command runs
func setupLogging(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	logConfig, err := config.CreateLoggerConfig()
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(logConfig)
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, config.KeyLogFile, logConfig.File, err)
	}
	logger.SetGlobalLogger(log)

	if cfgFile != "" {
		log.WithField("config", viper.ConfigFileUsed()).Debug("Using config file")
	}
	return nil
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
