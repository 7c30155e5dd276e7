package parsers

import (
	"fmt"
	"strconv"
	"strings"

	"golang-statement-converter/internal/models"
	"golang-statement-converter/pkg/errors"
)

// maxListedReferences bounds how many references an error message spells out
const maxListedReferences = 20

// ValidateTable checks that no line was dropped or duplicated and that the
// references run 1..N in row order. lineCount is the number of transaction
// lines the tokenizer sliced out of the body.
func ValidateTable(table *models.StatementTable, lineCount int) error {
	if table.Len() != lineCount {
		return errors.ValidationError(errors.CodeCountMismatch,
			fmt.Sprintf("expected %d records, got %d", lineCount, table.Len())).
			WithPeriod(table.Period).
			WithContext("expected_count", lineCount).
			WithContext("actual_count", table.Len())
	}

	refs := table.References()
	for i, ref := range refs {
		if ref == i+1 {
			continue
		}
		expected := make([]int, len(refs))
		for j := range expected {
			expected[j] = j + 1
		}
		return errors.ValidationError(errors.CodeNonContiguous,
			fmt.Sprintf("expected [%s], got [%s]", formatReferences(expected), formatReferences(refs))).
			WithPeriod(table.Period).
			WithContext("first_mismatch_row", i).
			WithContext("expected_reference", i+1).
			WithContext("actual_reference", ref)
	}

	return nil
}

func formatReferences(refs []int) string {
	var b strings.Builder
	for i, r := range refs {
		if i == maxListedReferences {
			fmt.Fprintf(&b, " ... (%d more)", len(refs)-i)
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(r))
	}
	return b.String()
}
