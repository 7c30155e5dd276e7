package parsers

import (
	"fmt"
	"strconv"
	"strings"

	"golang-statement-converter/internal/models"
	"golang-statement-converter/pkg/errors"
)

// LineExtractor decomposes one transaction line into its five fields
type LineExtractor struct {
	normalizer *AmountNormalizer
	minTokens  int
}

// NewLineExtractor creates an extractor using the configured amount rules
func NewLineExtractor(config *Config) *LineExtractor {
	if config == nil {
		config = DefaultConfig()
	}
	minTokens := config.MinTokens
	if minTokens < minimumTokens {
		minTokens = minimumTokens
	}
	return &LineExtractor{
		normalizer: NewAmountNormalizer(config),
		minTokens:  minTokens,
	}
}

// Extract splits the segment on whitespace:
//
//	ref  tdate(2)  pdate(2)  details...  amount
func (e *LineExtractor) Extract(segment string) (*models.TransactionRecord, error) {
	tokens := strings.Fields(segment)
	if len(tokens) < e.minTokens {
		return nil, errors.ParseError(errors.CodeTooFewTokens, segment, "line", segment,
			fmt.Errorf("found %d tokens, need at least %d", len(tokens), e.minTokens))
	}
	// Both dates consume tokens 1-4, so the amount needs a sixth.
	if len(tokens) < minimumTokens+1 {
		return nil, errors.ParseError(errors.CodeTooFewTokens, segment, "amount", "",
			fmt.Errorf("no amount token after post date"))
	}

	reference, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, errors.ParseError(errors.CodeInvalidReference, segment, "reference", tokens[0], err)
	}
	if reference <= 0 {
		return nil, errors.ParseError(errors.CodeInvalidReference, segment, "reference", tokens[0],
			fmt.Errorf("reference must be positive"))
	}

	last := len(tokens) - 1
	amount, err := e.normalizer.Normalize(tokens[last])
	if err != nil {
		if ce, ok := errors.AsConverterError(err); ok {
			ce.WithContext("raw", segment)
		}
		return nil, err
	}

	return models.NewTransactionRecord(
		reference,
		tokens[1]+" "+tokens[2],
		tokens[3]+" "+tokens[4],
		strings.Join(tokens[5:last], " "),
		amount,
	), nil
}

// ExtractFields decomposes a transaction line with the default configuration
func ExtractFields(segment string) (*models.TransactionRecord, error) {
	return defaultExtractor.Extract(segment)
}

var defaultExtractor = NewLineExtractor(nil)
