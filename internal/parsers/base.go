// Package parsers turns raw bank-statement text exports into per-period
// transaction tables.
//
// An export is a sequence of period blocks. Each block is a label line (for
// example "JAN-2024") followed by one body line holding every transaction of
// the period with all line breaks collapsed:
//
//	JAN-2024
//	001 Jan 01 Jan 02 Shop A 10.00 002 Jan 03 Jan 04 Shop B 20.00-
//
// Processing happens in four steps:
//   - SplitPeriods pairs labels with bodies
//   - BoundaryDetector finds where each transaction line starts
//   - LineExtractor decomposes a line into reference, dates, details and amount
//   - ValidateTable checks the decomposition was lossless and contiguous
//
// Tokenizer combines the last three for one period.
package parsers

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

// ReadRawFile reads the whole export as text. A UTF-8 byte-order mark is
// stripped, and a UTF-16 mark switches decoding to UTF-16.
func ReadRawFile(filePath string) (string, error) {
	log := logger.GetGlobalLogger().WithComponent("reader").WithField("file_path", filePath)
	log.Debug("Opening statement export")

	file, err := os.Open(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to open statement export")

		if os.IsNotExist(err) {
			return "", errors.FileError(errors.CodeFileNotFound, filePath, err)
		}
		if os.IsPermission(err) {
			return "", errors.FileError(errors.CodeFilePermission, filePath, err)
		}
		return "", errors.FileError(errors.CodeDirectoryError, filePath, err)
	}
	defer file.Close()

	return decodeRaw(file, filePath, log)
}

// DecodeRaw decodes an export already held in memory
func DecodeRaw(data []byte) (string, error) {
	return decodeRaw(bytes.NewReader(data), "<memory>", logger.GetGlobalLogger().WithComponent("reader"))
}

func decodeRaw(r io.Reader, name string, log logger.Logger) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		log.WithError(err).Error("Failed to decode statement export")
		return "", errors.FileError(errors.CodeFileCorrupted, name, err)
	}

	// The decoder substitutes U+FFFD for invalid sequences.
	if bytes.ContainsRune(data, utf8.RuneError) {
		log.Warn("Export contains invalid UTF-8 sequences; they were replaced")
	}

	log.WithField("bytes", len(data)).Debug("Read statement export")
	return string(data), nil
}

// ParseStats holds statistics about tokenizing one period
type ParseStats struct {
	Period     string
	Boundaries int
	Lines      int
	Records    int
	Preamble   string
}

// NewParseStats creates a new ParseStats instance
func NewParseStats(period string) *ParseStats {
	return &ParseStats{Period: period}
}

// Lossless reports whether every sliced line produced a record
func (ps *ParseStats) Lossless() bool {
	if ps.Boundaries == 0 {
		return ps.Records == 0
	}
	return ps.Records == ps.Boundaries-1
}

// String returns a human-readable summary of parsing statistics
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Period %s: %d boundaries, %d lines, %d records",
		ps.Period, ps.Boundaries, ps.Lines, ps.Records)
}
