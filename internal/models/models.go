package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Columns is the fixed export schema of a statement table, in order.
var Columns = []string{"reference", "transaction_date", "post_date", "details", "amount"}

// TransactionRecord represents one decomposed transaction line
type TransactionRecord struct {
	Reference       int             `json:"reference" csv:"reference"`
	TransactionDate string          `json:"transaction_date" csv:"transaction_date"`
	PostDate        string          `json:"post_date" csv:"post_date"`
	Details         string          `json:"details" csv:"details"`
	Amount          decimal.Decimal `json:"amount" csv:"amount"`
}

// NewTransactionRecord creates a new TransactionRecord instance
func NewTransactionRecord(reference int, transactionDate, postDate, details string, amount decimal.Decimal) *TransactionRecord {
	return &TransactionRecord{
		Reference:       reference,
		TransactionDate: transactionDate,
		PostDate:        postDate,
		Details:         details,
		Amount:          amount,
	}
}

// Validate performs basic validation on the TransactionRecord
func (r *TransactionRecord) Validate() error {
	if r.Reference <= 0 {
		return fmt.Errorf("reference must be positive, got %d", r.Reference)
	}

	if strings.TrimSpace(r.TransactionDate) == "" {
		return fmt.Errorf("transaction date cannot be empty")
	}

	if strings.TrimSpace(r.PostDate) == "" {
		return fmt.Errorf("post date cannot be empty")
	}

	return nil
}

// AmountFloat returns the amount as a float64
func (r *TransactionRecord) AmountFloat() float64 {
	f, _ := r.Amount.Float64()
	return f
}

// IsDebit returns true if the record moves money out of the account
func (r *TransactionRecord) IsDebit() bool {
	return r.Amount.IsNegative()
}

// Values returns the record as export cells in Columns order.
func (r *TransactionRecord) Values() []string {
	return []string{
		fmt.Sprintf("%d", r.Reference),
		r.TransactionDate,
		r.PostDate,
		r.Details,
		FormatAmount(r.Amount),
	}
}

// String returns a string representation of the TransactionRecord
func (r *TransactionRecord) String() string {
	return fmt.Sprintf("TransactionRecord{Ref: %d, Date: %s, Posted: %s, Details: %q, Amount: %s}",
		r.Reference, r.TransactionDate, r.PostDate, r.Details, FormatAmount(r.Amount))
}

// MarshalJSON implements custom JSON marshaling for TransactionRecord
func (r *TransactionRecord) MarshalJSON() ([]byte, error) {
	type Alias TransactionRecord
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		*Alias
	}{
		Amount: FormatAmount(r.Amount),
		Alias:  (*Alias)(r),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for TransactionRecord
func (r *TransactionRecord) UnmarshalJSON(data []byte) error {
	type Alias TransactionRecord
	aux := &struct {
		Amount string `json:"amount"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}
	r.Amount = amount

	return nil
}

// Equals compares two TransactionRecord instances for equality
func (r *TransactionRecord) Equals(other *TransactionRecord) bool {
	if other == nil {
		return false
	}

	return r.Reference == other.Reference &&
		r.TransactionDate == other.TransactionDate &&
		r.PostDate == other.PostDate &&
		r.Details == other.Details &&
		r.Amount.Equal(other.Amount)
}

// FormatAmount renders an amount with at least two decimal places. Digits
// beyond the second are kept so that exported text parses back to the same value.
func FormatAmount(amount decimal.Decimal) string {
	places := int32(2)
	if exp := -amount.Exponent(); exp > places {
		places = exp
	}
	return amount.StringFixed(places)
}

// StatementTable is the ordered set of records for one statement period
type StatementTable struct {
	Period  string               `json:"period"`
	Records []*TransactionRecord `json:"records"`
}

// NewStatementTable creates an empty table for the period
func NewStatementTable(period string) *StatementTable {
	return &StatementTable{
		Period:  period,
		Records: make([]*TransactionRecord, 0),
	}
}

// Append adds a record at the end of the table
func (t *StatementTable) Append(record *TransactionRecord) {
	t.Records = append(t.Records, record)
}

// Len returns the number of records
func (t *StatementTable) Len() int {
	return len(t.Records)
}

// References returns the reference column in row order
func (t *StatementTable) References() []int {
	refs := make([]int, len(t.Records))
	for i, r := range t.Records {
		refs[i] = r.Reference
	}
	return refs
}

// Total returns the sum of all amounts
func (t *StatementTable) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.Records {
		total = total.Add(r.Amount)
	}
	return total
}

// Debits returns the sum of negative amounts
func (t *StatementTable) Debits() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.Records {
		if r.IsDebit() {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// Credits returns the sum of positive amounts
func (t *StatementTable) Credits() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.Records {
		if r.Amount.IsPositive() {
			total = total.Add(r.Amount)
		}
	}
	return total
}
