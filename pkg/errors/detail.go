package errors

import (
	"fmt"
	"sort"
	"strings"
)

// maxRawLength bounds how much of a raw statement substring is echoed back.
const maxRawLength = 160

// GetDetailedError returns a detailed multi-line error description
func (e *ConverterError) GetDetailedError() string {
	var lines []string

	lines = append(lines, fmt.Sprintf("ERROR: %s", e.Message))

	if period := e.Period(); period != "" {
		lines = append(lines, fmt.Sprintf("  → Period: %s", period))
	}
	if raw := e.Raw(); raw != "" {
		lines = append(lines, fmt.Sprintf("  → Raw text: %s", TruncateRaw(raw)))
	}

	keys := make([]string, 0, len(e.Context))
	for key := range e.Context {
		if key == "period" || key == "raw" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := e.Context[key]
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("  → %s: %v", key, value))
	}

	if e.Cause != nil {
		lines = append(lines, fmt.Sprintf("  → Cause: %v", e.Cause))
	}

	if e.Suggestion != "" {
		lines = append(lines, fmt.Sprintf("  → Suggestion: %s", e.Suggestion))
	}

	return strings.Join(lines, "\n")
}

// TruncateRaw shortens raw statement text for display.
func TruncateRaw(raw string) string {
	raw = strings.TrimSpace(raw)
	runes := []rune(raw)
	if len(runes) <= maxRawLength {
		return raw
	}
	return string(runes[:maxRawLength]) + "…"
}

// SuggestionsForCommonErrors provides suggestions for common conversion issues
func SuggestionsForCommonErrors() string {
	return `Common solutions for conversion errors:

• Missing body: every period label line must be followed by its statement line
• Too few fields: a transaction needs "001 Jan 01 Jan 02 <details> <amount>"
• Invalid amount: use 1,234.56 and a trailing '-' for debits (see --negative-style)
• Non-contiguous references: a month abbreviation may be missing from --months
• Encoding issues: save the export as UTF-8 text

For more help, use the --help flag.`
}
