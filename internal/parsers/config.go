package parsers

import (
	"fmt"
	"strings"
	"unicode"
)

// NegativeStyle selects how a negative amount is written in the export
type NegativeStyle string

const (
	// NegativeTrailing is the statement convention "1,234.56-"
	NegativeTrailing NegativeStyle = "trailing"
	// NegativeLeading is "-1,234.56"
	NegativeLeading NegativeStyle = "leading"
	// NegativeParentheses is "(1,234.56)"
	NegativeParentheses NegativeStyle = "parentheses"
	// NegativeAny accepts any of the three forms
	NegativeAny NegativeStyle = "any"
)

// DefaultMonths is the full set of recognized month abbreviations.
var DefaultMonths = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// minimumTokens is the fewest whitespace tokens a transaction line can have:
// reference, two date tokens, two post-date tokens.
const minimumTokens = 5

// Config holds configuration for tokenizing statement bodies
type Config struct {
	Months             []string      `json:"months" mapstructure:"months"`
	ThousandsSeparator string        `json:"thousands_separator" mapstructure:"thousands_separator"`
	NegativeStyle      NegativeStyle `json:"negative_style" mapstructure:"negative_style"`
	MinTokens          int           `json:"min_tokens" mapstructure:"min_tokens"`
}

// DefaultConfig returns the configuration matching the standard export layout
func DefaultConfig() *Config {
	months := make([]string, len(DefaultMonths))
	copy(months, DefaultMonths)

	return &Config{
		Months:             months,
		ThousandsSeparator: ",",
		NegativeStyle:      NegativeTrailing,
		MinTokens:          minimumTokens,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Months) == 0 {
		return fmt.Errorf("month set cannot be empty")
	}

	seen := make(map[string]bool, len(c.Months))
	for _, month := range c.Months {
		if len([]rune(month)) != 3 {
			return fmt.Errorf("month abbreviation %q must be exactly three letters", month)
		}
		for _, r := range month {
			if !unicode.IsLetter(r) {
				return fmt.Errorf("month abbreviation %q must be exactly three letters", month)
			}
		}
		if seen[month] {
			return fmt.Errorf("month abbreviation %q is listed twice", month)
		}
		seen[month] = true
	}

	switch c.NegativeStyle {
	case NegativeTrailing, NegativeLeading, NegativeParentheses, NegativeAny:
	default:
		return fmt.Errorf("invalid negative style: %q (valid: trailing, leading, parentheses, any)", c.NegativeStyle)
	}

	if strings.ContainsAny(c.ThousandsSeparator, "0123456789-()") || strings.TrimSpace(c.ThousandsSeparator) != c.ThousandsSeparator {
		return fmt.Errorf("invalid thousands separator: %q", c.ThousandsSeparator)
	}

	if c.MinTokens < minimumTokens {
		return fmt.Errorf("min tokens must be at least %d, got %d", minimumTokens, c.MinTokens)
	}

	return nil
}

// HasAllMonths reports whether every standard month abbreviation is recognized.
// A partial set merges lines dated in a missing month into the previous line.
func (c *Config) HasAllMonths() bool {
	set := make(map[string]bool, len(c.Months))
	for _, m := range c.Months {
		set[m] = true
	}
	for _, m := range DefaultMonths {
		if !set[m] {
			return false
		}
	}
	return true
}

// ParseNegativeStyle converts a string into a NegativeStyle
func ParseNegativeStyle(s string) (NegativeStyle, error) {
	style := NegativeStyle(strings.ToLower(strings.TrimSpace(s)))
	switch style {
	case NegativeTrailing, NegativeLeading, NegativeParentheses, NegativeAny:
		return style, nil
	case "":
		return NegativeTrailing, nil
	default:
		return "", fmt.Errorf("invalid negative style: %q (valid: trailing, leading, parentheses, any)", s)
	}
}
