package parsers

import (
	"regexp"
	"strings"
)

// BoundaryDetector finds the start of each transaction line inside a
// whitespace-collapsed statement body. A line starts with a three digit
// reference followed by whitespace and a month abbreviation. Unicode spaces
// such as NBSP count as whitespace, matching strings.Fields in the extractor.
type BoundaryDetector struct {
	pattern *regexp.Regexp
}

// NewBoundaryDetector builds the anchor pattern from the configured month set
func NewBoundaryDetector(config *Config) (*BoundaryDetector, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	months := make([]string, len(config.Months))
	for i, m := range config.Months {
		months[i] = regexp.QuoteMeta(m)
	}

	pattern, err := regexp.Compile(`\d{3}[\s\p{Zs}]+(?:` + strings.Join(months, "|") + `)`)
	if err != nil {
		return nil, err
	}

	return &BoundaryDetector{pattern: pattern}, nil
}

// Detect returns the ascending start offsets of every non-overlapping anchor
func (d *BoundaryDetector) Detect(text string) []int {
	matches := d.pattern.FindAllStringIndex(text, -1)
	starts := make([]int, len(matches))
	for i, m := range matches {
		starts[i] = m[0]
	}
	return starts
}

// Fenceposts returns the line starts followed by the end-of-text offset, so
// N lines are delimited by N+1 fenceposts. Text without any anchor has no
// fenceposts.
func (d *BoundaryDetector) Fenceposts(text string) []int {
	starts := d.Detect(text)
	if len(starts) == 0 {
		return starts
	}
	return append(starts, len(text))
}

// Pattern returns the anchor expression, mainly for diagnostics
func (d *BoundaryDetector) Pattern() string {
	return d.pattern.String()
}
