// Package exporter writes statement tables to disk, one file per period.
//
// Supported output formats:
//   - CSV: index column plus the five record columns, the default
//   - JSON: the table as an object with its period label
//   - XLSX: one worksheet per file, amounts stored as numbers
//
// File names are derived from the period label with path-unsafe characters
// replaced, so "JAN/2024" becomes "JAN_2024.csv".
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang-statement-converter/internal/models"
	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

// OutputFormat represents the supported export formats
type OutputFormat string

const (
	FormatCSV  OutputFormat = "csv"
	FormatJSON OutputFormat = "json"
	FormatXLSX OutputFormat = "xlsx"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return true
	default:
		return false
	}
}

// Extension returns the file extension including the dot
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// ParseOutputFormat converts a string into an OutputFormat
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatCSV, nil
	}
	if !f.IsValid() {
		return "", fmt.Errorf("unsupported output format: %s (valid: csv, json, xlsx)", s)
	}
	return f, nil
}

// Config holds configuration options for exporting
type Config struct {
	Format       OutputFormat `json:"format" mapstructure:"format"`
	CSVDelimiter rune         `json:"csv_delimiter" mapstructure:"csv_delimiter"`
	UseColors    bool         `json:"use_colors" mapstructure:"use_colors"`
	Overwrite    bool         `json:"overwrite" mapstructure:"overwrite"`
}

// DefaultConfig returns a default export configuration
func DefaultConfig() *Config {
	return &Config{
		Format:       FormatCSV,
		CSVDelimiter: ',',
		UseColors:    true,
		Overwrite:    true,
	}
}

// Validate validates the export configuration
func (c *Config) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	switch c.CSVDelimiter {
	case '"', '\r', '\n', 0:
		return fmt.Errorf("invalid CSV delimiter: %q", c.CSVDelimiter)
	}

	return nil
}

// Exporter writes statement tables in the configured format
type Exporter struct {
	config *Config
	logger logger.Logger
}

// NewExporter creates a new exporter with the specified configuration
func NewExporter(config *Config) (*Exporter, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"export_config",
			config.Format,
			err,
		).WithSuggestion("Use one of csv, json, xlsx")
	}

	return &Exporter{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("exporter"),
	}, nil
}

// Format returns the configured output format
func (e *Exporter) Format() OutputFormat {
	return e.config.Format
}

// WriteTable writes one table to writer in the configured format
func (e *Exporter) WriteTable(table *models.StatementTable, writer io.Writer) error {
	if table == nil {
		return fmt.Errorf("statement table cannot be nil")
	}

	switch e.config.Format {
	case FormatCSV:
		return writeCSV(table, writer, e.config.CSVDelimiter)
	case FormatJSON:
		return writeJSON(table, writer)
	case FormatXLSX:
		return writeXLSX(table, writer)
	default:
		return errors.ExportError(errors.CodeUnsupportedFormat, string(e.config.Format), nil)
	}
}

// ExportAll writes every table into outputDir, creating it if absent, and
// returns the written paths in table order. Labels that sanitize to the same
// file name get a numeric suffix.
func (e *Exporter) ExportAll(outputDir string, tables []*models.StatementTable) ([]string, error) {
	if err := EnsureDir(outputDir); err != nil {
		return nil, err
	}

	used := make(map[string]bool, len(tables))
	paths := make([]string, 0, len(tables))
	for _, table := range tables {
		name := FileName(table.Period, e.config.Format)
		if used[name] {
			ext := e.config.Format.Extension()
			base := strings.TrimSuffix(name, ext)
			for n := 2; used[name]; n++ {
				name = fmt.Sprintf("%s_%d%s", base, n, ext)
			}
			e.logger.WithFields(logger.Fields{
				"period": table.Period,
				"file":   name,
			}).Warn("Period label collides with another after sanitizing; using suffixed file name")
		}

		used[name] = true

		path := filepath.Join(outputDir, name)
		if err := e.writeFile(path, table); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// ExportTable writes a single table into outputDir and returns its path
func (e *Exporter) ExportTable(outputDir string, table *models.StatementTable) (string, error) {
	paths, err := e.ExportAll(outputDir, []*models.StatementTable{table})
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

func (e *Exporter) writeFile(path string, table *models.StatementTable) error {
	log := e.logger.WithFields(logger.Fields{
		"period": table.Period,
		"output": path,
		"format": e.config.Format,
	})

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !e.config.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		log.WithError(err).Error("Failed to create output file")
		if os.IsPermission(err) {
			return errors.FileError(errors.CodeFilePermission, path, err).WithPeriod(table.Period)
		}
		return errors.ExportError(errors.CodeWriteFailed, path, err).WithPeriod(table.Period)
	}

	if err := e.WriteTable(table, file); err != nil {
		file.Close()
		log.WithError(err).Error("Failed to write period table")
		return errors.WrapIfNeeded(err, errors.CategoryExport, errors.CodeWriteFailed,
			fmt.Sprintf("failed to write %s", path)).WithPeriod(table.Period)
	}

	if err := file.Close(); err != nil {
		return errors.ExportError(errors.CodeWriteFailed, path, err).WithPeriod(table.Period)
	}

	log.WithField("records", table.Len()).Debug("Wrote period table")
	return nil
}

// EnsureDir creates dir and any missing parents
func EnsureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "output_dir", dir, nil)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.FileError(errors.CodeDirectoryError, dir, err)
	}
	return nil
}

// FileName returns the output file name for a period label
func FileName(label string, format OutputFormat) string {
	return SanitizeLabel(label) + format.Extension()
}

// SanitizeLabel replaces every character that is unsafe in a file name
func SanitizeLabel(label string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(label) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "period"
	}
	return name
}
