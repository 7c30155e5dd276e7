package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"golang-statement-converter/internal/models"
)

// SummaryWriter prints a run summary for the console
type SummaryWriter struct {
	useColors bool
}

// NewSummaryWriter creates a summary writer; colours are forced on or off
// regardless of whether the destination is a terminal.
func NewSummaryWriter(useColors bool) *SummaryWriter {
	return &SummaryWriter{useColors: useColors}
}

func (sw *SummaryWriter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if sw.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// WriteSummary prints one line per period followed by run totals
func (sw *SummaryWriter) WriteSummary(summary *models.RunSummary, writer io.Writer) error {
	if summary == nil {
		return fmt.Errorf("run summary cannot be nil")
	}

	title := sw.paint(color.Bold)
	label := sw.paint(color.FgCyan)
	debit := sw.paint(color.FgRed)
	credit := sw.paint(color.FgGreen)
	muted := sw.paint(color.FgHiBlack)

	heading := "CONVERSION SUMMARY"
	if summary.DryRun {
		heading += " (dry run)"
	}
	title.Fprintf(writer, "%s\n", heading)
	muted.Fprintf(writer, "Run:    %s\n", summary.RunID)
	fmt.Fprintf(writer, "Input:  %s\n", summary.Input)
	if !summary.DryRun {
		fmt.Fprintf(writer, "Output: %s (%s)\n", summary.OutputDir, summary.Format)
	}
	fmt.Fprintln(writer)

	width := len("Period")
	for _, p := range summary.Periods {
		if len(p.Period) > width {
			width = len(p.Period)
		}
	}

	title.Fprintf(writer, "%-*s %8s %14s %14s %14s\n", width, "Period", "Records", "Credits", "Debits", "Net")
	for _, p := range summary.Periods {
		label.Fprintf(writer, "%-*s", width, p.Period)
		fmt.Fprintf(writer, " %8d ", p.Records)
		credit.Fprintf(writer, "%14s", models.FormatAmount(p.Credits))
		fmt.Fprint(writer, " ")
		debit.Fprintf(writer, "%14s", models.FormatAmount(p.Debits))
		fmt.Fprint(writer, " ")
		sw.amountColor(p.Total, credit, debit).Fprintf(writer, "%14s", models.FormatAmount(p.Total))
		fmt.Fprintln(writer)
		if p.Output != "" {
			muted.Fprintf(writer, "%s -> %s\n", strings.Repeat(" ", width), p.Output)
		}
	}

	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "Periods: %d  Records: %d  Net: ", len(summary.Periods), summary.TotalRecords())
	net := summary.NetAmount()
	sw.amountColor(net, credit, debit).Fprintf(writer, "%s\n", models.FormatAmount(net))
	muted.Fprintf(writer, "Duration: %v\n", summary.Duration)

	return nil
}

func (sw *SummaryWriter) amountColor(amount decimal.Decimal, positive, negative *color.Color) *color.Color {
	if amount.IsNegative() {
		return negative
	}
	return positive
}
