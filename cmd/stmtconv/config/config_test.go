package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"

	"golang-statement-converter/internal/exporter"
	"golang-statement-converter/internal/parsers"
	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

func TestCreateParserConfig(t *testing.T) {
	tests := []struct {
		name         string
		setup        func()
		expectError  bool
		expectMonths int
		expectStyle  parsers.NegativeStyle
		expectSep    string
	}{
		{
			name:         "defaults",
			setup:        func() {},
			expectMonths: 12,
			expectStyle:  parsers.NegativeTrailing,
			expectSep:    ",",
		},
		{
			name: "overrides",
			setup: func() {
				viper.Set(KeyMonths, []string{"Jan", "Feb"})
				viper.Set(KeyNegativeStyle, "Parentheses")
				viper.Set(KeyThousandsSeparator, ".")
			},
			expectMonths: 2,
			expectStyle:  parsers.NegativeParentheses,
			expectSep:    ".",
		},
		{
			name: "comma separated months from env",
			setup: func() {
				viper.Set(KeyMonths, "Jan, Feb ,Mar")
			},
			expectMonths: 3,
			expectStyle:  parsers.NegativeTrailing,
			expectSep:    ",",
		},
		{
			name: "invalid negative style",
			setup: func() {
				viper.Set(KeyNegativeStyle, "suffix")
			},
			expectError: true,
		},
		{
			name: "invalid month",
			setup: func() {
				viper.Set(KeyMonths, []string{"January"})
			},
			expectError: true,
		},
		{
			name: "digit separator",
			setup: func() {
				viper.Set(KeyThousandsSeparator, "0")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			tt.setup()

			config, err := CreateParserConfig()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.HasCategory(err, errors.CategoryConfiguration) {
					t.Errorf("expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(config.Months) != tt.expectMonths {
				t.Errorf("expected %d months, got %v", tt.expectMonths, config.Months)
			}
			if config.NegativeStyle != tt.expectStyle {
				t.Errorf("expected style %s, got %s", tt.expectStyle, config.NegativeStyle)
			}
			if config.ThousandsSeparator != tt.expectSep {
				t.Errorf("expected separator %q, got %q", tt.expectSep, config.ThousandsSeparator)
			}
		})
	}
}

func TestCreateConverterConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	config, err := CreateConverterConfig()
	if err != nil {
		t.Fatalf("failed to create converter config: %v", err)
	}
	if config.Parallel || config.DryRun || config.ProgressReporting || config.RequirePeriods {
		t.Errorf("expected all switches off by default, got %+v", config)
	}
	if config.MaxConcurrency != 4 {
		t.Errorf("expected default concurrency 4, got %d", config.MaxConcurrency)
	}

	viper.Set(KeyParallel, true)
	viper.Set(KeyDryRun, true)
	viper.Set(KeyRequirePeriods, true)
	viper.Set(KeyMaxConcurrency, 8)
	config, err = CreateConverterConfig()
	if err != nil {
		t.Fatalf("failed to create converter config: %v", err)
	}
	if !config.Parallel || !config.DryRun || !config.RequirePeriods || config.MaxConcurrency != 8 {
		t.Errorf("overrides not applied: %+v", config)
	}

	viper.Set(KeyMaxConcurrency, 0)
	if _, err := CreateConverterConfig(); !errors.HasCode(err, errors.CodeInvalidConfig) {
		t.Errorf("expected invalid_config for zero concurrency, got %v", err)
	}
}

func TestCreateExportConfig(t *testing.T) {
	tests := []struct {
		format      string
		noColor     bool
		expected    exporter.OutputFormat
		expectError bool
	}{
		{format: "", expected: exporter.FormatCSV},
		{format: "JSON", expected: exporter.FormatJSON},
		{format: "xlsx", noColor: true, expected: exporter.FormatXLSX},
		{format: "pdf", expectError: true},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			viper.Set(KeyFormat, tt.format)
			viper.Set(KeyNoColor, tt.noColor)

			config, err := CreateExportConfig()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if config.Format != tt.expected {
				t.Errorf("expected format %s, got %s", tt.expected, config.Format)
			}
			if config.UseColors == tt.noColor {
				t.Errorf("expected UseColors %v", !tt.noColor)
			}
		})
	}
}

func TestCreateLoggerConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	config, err := CreateLoggerConfig()
	if err != nil {
		t.Fatalf("failed to create logger config: %v", err)
	}
	if config.Level != logger.WarnLevel {
		t.Errorf("expected warn level by default, got %s", config.Level)
	}

	viper.Set(KeyVerbose, true)
	config, _ = CreateLoggerConfig()
	if config.Level != logger.DebugLevel {
		t.Errorf("expected --verbose to select debug, got %s", config.Level)
	}

	viper.Set(KeyLogLevel, "ERROR")
	viper.Set(KeyLogFormat, "json")
	config, _ = CreateLoggerConfig()
	if config.Level != logger.ErrorLevel {
		t.Errorf("explicit level should win over --verbose, got %s", config.Level)
	}
	if config.Format != logger.JSONFormat {
		t.Errorf("expected json format, got %s", config.Format)
	}

	viper.Set(KeyLogLevel, "trace")
	if _, err := CreateLoggerConfig(); err == nil {
		t.Error("expected error for unsupported level")
	}
}

func TestValidateConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if err := ValidateConfig(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	viper.Set(KeyInput, "data/statements.txt")
	viper.Set(KeyOutputDir, "data/./statements.txt")
	err := ValidateConfig()
	if !errors.HasCode(err, errors.CodeConfigConflict) {
		t.Fatalf("expected config_conflict, got %v", err)
	}
	if !strings.Contains(err.Error(), KeyOutputDir) {
		t.Errorf("error should name the setting: %v", err)
	}
}
