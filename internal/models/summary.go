package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSummary describes the outcome for one converted period
type PeriodSummary struct {
	Period  string          `json:"period"`
	Records int             `json:"records"`
	Output  string          `json:"output,omitempty"`
	Total   decimal.Decimal `json:"total"`
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
}

// NewPeriodSummary summarizes a tokenized table. output is empty on a dry run.
func NewPeriodSummary(table *StatementTable, output string) PeriodSummary {
	return PeriodSummary{
		Period:  table.Period,
		Records: table.Len(),
		Output:  output,
		Total:   table.Total(),
		Debits:  table.Debits(),
		Credits: table.Credits(),
	}
}

// RunSummary describes one conversion run
type RunSummary struct {
	RunID     string          `json:"run_id"`
	Input     string          `json:"input"`
	OutputDir string          `json:"output_dir"`
	Format    string          `json:"format"`
	DryRun    bool            `json:"dry_run"`
	Periods   []PeriodSummary `json:"periods"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
}

// TotalRecords returns the number of records across all periods
func (s *RunSummary) TotalRecords() int {
	total := 0
	for _, p := range s.Periods {
		total += p.Records
	}
	return total
}

// NetAmount returns the sum of every period total
func (s *RunSummary) NetAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Periods {
		total = total.Add(p.Total)
	}
	return total
}
