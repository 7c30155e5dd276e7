package parsers

import (
	"strings"

	"golang-statement-converter/internal/models"
	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

// Tokenizer turns one raw statement body into a validated StatementTable
type Tokenizer struct {
	config    *Config
	detector  *BoundaryDetector
	extractor *LineExtractor
	logger    logger.Logger
}

// NewTokenizer creates a new Tokenizer with the given configuration
func NewTokenizer(config *Config) (*Tokenizer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	detector, err := NewBoundaryDetector(config)
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "months", config.Months, err)
	}

	log := logger.GetGlobalLogger().WithComponent("tokenizer")
	if !config.HasAllMonths() {
		log.WithField("months", config.Months).
			Warn("Month set is incomplete; lines dated in a missing month merge into the previous line")
	}
	log.WithFields(logger.Fields{
		"pattern":        detector.Pattern(),
		"negative_style": config.NegativeStyle,
	}).Debug("Created tokenizer")

	return &Tokenizer{
		config:    config,
		detector:  detector,
		extractor: NewLineExtractor(config),
		logger:    log,
	}, nil
}

// Tokenize slices body at the detected fenceposts, extracts each line and
// validates the table. Any failure aborts the whole period.
func (t *Tokenizer) Tokenize(label, body string) (*models.StatementTable, error) {
	table, _, err := t.TokenizeWithStats(label, body)
	return table, err
}

// TokenizeWithStats is Tokenize that also reports per-period statistics
func (t *Tokenizer) TokenizeWithStats(label, body string) (*models.StatementTable, *ParseStats, error) {
	log := t.logger.WithField("period", label)
	stats := NewParseStats(label)
	table := models.NewStatementTable(label)

	fenceposts := t.detector.Fenceposts(body)
	stats.Boundaries = len(fenceposts)
	if len(fenceposts) == 0 {
		if strings.TrimSpace(body) != "" {
			log.WithField("raw", errors.TruncateRaw(body)).Warn("No transaction lines found in non-empty body")
		}
		log.Debug("Empty statement period")
		return table, stats, nil
	}

	if preamble := strings.TrimSpace(body[:fenceposts[0]]); preamble != "" {
		stats.Preamble = preamble
		log.WithField("raw", errors.TruncateRaw(preamble)).Warn("Ignoring text before the first transaction line")
	}

	lines := len(fenceposts) - 1
	stats.Lines = lines
	for i := 0; i < lines; i++ {
		segment := body[fenceposts[i]:fenceposts[i+1]]

		record, err := t.extractor.Extract(segment)
		if err != nil {
			log.WithError(err).WithField("line", i+1).Error("Failed to extract transaction line")
			return nil, stats, withPeriod(err, label, segment)
		}
		table.Append(record)
		stats.Records++
	}

	if err := ValidateTable(table, lines); err != nil {
		log.WithError(err).Error("Statement failed validation")
		return nil, stats, withPeriod(err, label, body)
	}

	log.WithFields(logger.Fields{
		"records": table.Len(),
		"total":   models.FormatAmount(table.Total()),
	}).Debug("Tokenized statement period")

	return table, stats, nil
}

// withPeriod attaches the period label and offending raw text to err
func withPeriod(err error, label, raw string) error {
	ce, ok := errors.AsConverterError(err)
	if !ok {
		return errors.Wrap(err, errors.CategoryInternal, errors.CodeUnexpectedError, "tokenize failed").
			WithPeriod(label).
			WithContext("raw", raw)
	}
	ce.WithPeriod(label)
	if ce.Raw() == "" {
		ce.WithContext("raw", raw)
	}
	return ce
}
