package parsers

import (
	"strings"

	"golang-statement-converter/internal/models"
	"golang-statement-converter/pkg/errors"
)

// SplitPeriods pairs every non-blank label line with the line that follows
// it. Blank lines between blocks are skipped; the body line is kept verbatim
// apart from a trailing carriage return.
func SplitPeriods(text string) (*models.Statements, error) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	statements := models.NewStatements()
	cursor := 0
	for cursor < len(lines) {
		label := lines[cursor]
		if strings.TrimSpace(label) == "" {
			cursor++
			continue
		}

		if cursor+1 >= len(lines) {
			return nil, errors.FormatError(errors.CodeMissingBody, label, label).
				WithContext("line", cursor+1)
		}

		if !statements.Add(label, lines[cursor+1]) {
			return nil, errors.FormatError(errors.CodeDuplicatePeriod, label, label).
				WithContext("line", cursor+1)
		}
		cursor += 2
	}

	return statements, nil
}

// SplitPeriodsStrict is SplitPeriods that also rejects input without any period
func SplitPeriodsStrict(text string) (*models.Statements, error) {
	statements, err := SplitPeriods(text)
	if err != nil {
		return nil, err
	}
	if statements.Len() == 0 {
		return nil, errors.FormatError(errors.CodeEmptyInput, "", errors.TruncateRaw(text))
	}
	return statements, nil
}
