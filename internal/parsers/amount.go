package parsers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"golang-statement-converter/pkg/errors"
)

// AmountNormalizer converts locale-formatted amount tokens into signed decimals
type AmountNormalizer struct {
	separator string
	style     NegativeStyle
}

// NewAmountNormalizer creates a normalizer from the parser configuration
func NewAmountNormalizer(config *Config) *AmountNormalizer {
	if config == nil {
		config = DefaultConfig()
	}
	return &AmountNormalizer{
		separator: config.ThousandsSeparator,
		style:     config.NegativeStyle,
	}
}

// Normalize parses an amount token such as "1,234.56" or "1,234.56-"
func (n *AmountNormalizer) Normalize(token string) (decimal.Decimal, error) {
	text := strings.TrimSpace(token)
	if n.separator != "" {
		text = strings.ReplaceAll(text, n.separator, "")
	}

	negative, digits, err := n.splitSign(text)
	if err != nil {
		return decimal.Zero, errors.ParseError(errors.CodeInvalidAmount, token, "amount", token, err)
	}

	if digits == "" || strings.ContainsAny(digits, "+-") {
		return decimal.Zero, errors.ParseError(errors.CodeInvalidAmount, token, "amount", token,
			fmt.Errorf("no numeric value"))
	}

	amount, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, errors.ParseError(errors.CodeInvalidAmount, token, "amount", token, err)
	}

	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// splitSign strips the negative marker allowed by the configured style
func (n *AmountNormalizer) splitSign(text string) (bool, string, error) {
	trailing := n.style == NegativeTrailing || n.style == NegativeAny
	leading := n.style == NegativeLeading || n.style == NegativeAny
	parens := n.style == NegativeParentheses || n.style == NegativeAny

	switch {
	case strings.HasSuffix(text, "-") && trailing:
		return true, strings.TrimSuffix(text, "-"), nil
	case strings.HasPrefix(text, "-") && leading:
		return true, strings.TrimPrefix(text, "-"), nil
	case strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") && parens:
		return true, text[1 : len(text)-1], nil
	case strings.ContainsAny(text, "-()"):
		return false, "", fmt.Errorf("sign marker not allowed by %s negative style", n.style)
	}
	return false, text, nil
}
