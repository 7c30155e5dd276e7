package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Fault injected into a generated export
type Fault string

const (
	FaultNone           Fault = "none"
	FaultMissingBody    Fault = "missing-body"
	FaultDuplicateLabel Fault = "duplicate-label"
	FaultBadAmount      Fault = "bad-amount"
	FaultReferenceGap   Fault = "reference-gap"
	FaultTooFewFields   Fault = "too-few-fields"
)

var faults = []Fault{FaultNone, FaultMissingBody, FaultDuplicateLabel, FaultBadAmount, FaultReferenceGap, FaultTooFewFields}

// ExportGenerator writes synthetic statement text exports
type ExportGenerator struct {
	Periods       int
	PerPeriod     int
	Start         time.Time
	MinAmount     decimal.Decimal
	MaxAmount     decimal.Decimal
	DebitRatio    float64
	NegativeStyle string
	Fault         Fault
	Seed          int64

	rng *rand.Rand
}

func main() {
	var (
		output     = flag.String("output", "generated_export.txt", "Output text file path")
		periods    = flag.Int("periods", 12, "Number of statement periods")
		perPeriod  = flag.Int("per-period", 40, "Transactions per period")
		startMonth = flag.String("start", "2024-01", "First period (YYYY-MM)")
		minAmount  = flag.Float64("min-amount", 0.50, "Minimum transaction amount")
		maxAmount  = flag.Float64("max-amount", 25000.00, "Maximum transaction amount")
		debitRatio = flag.Float64("debit-ratio", 0.6, "Share of debits (0.0-1.0)")
		negative   = flag.String("negative-style", "trailing", "Debit notation: trailing, leading, parentheses")
		fault      = flag.String("fault", string(FaultNone), "Fault to inject: "+faultNames())
		scenarios  = flag.String("scenarios", "", "Write one export per fault into this directory instead")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible generation")
	)
	flag.Parse()

	start, err := time.Parse("2006-01", *startMonth)
	if err != nil {
		log.Fatalf("Invalid start month: %v", err)
	}

	generator := &ExportGenerator{
		Periods:       *periods,
		PerPeriod:     *perPeriod,
		Start:         start,
		MinAmount:     decimal.NewFromFloat(*minAmount),
		MaxAmount:     decimal.NewFromFloat(*maxAmount),
		DebitRatio:    *debitRatio,
		NegativeStyle: *negative,
		Fault:         Fault(*fault),
		Seed:          *seed,
	}

	if *scenarios != "" {
		if err := generator.WriteScenarios(*scenarios); err != nil {
			log.Fatalf("Failed to write scenarios: %v", err)
		}
		fmt.Printf("Generated %d scenario exports in %s\n", len(faults), *scenarios)
		fmt.Printf("Seed used: %d\n", *seed)
		return
	}

	if err := generator.WriteFile(*output); err != nil {
		log.Fatalf("Failed to write export: %v", err)
	}

	fmt.Printf("Generated %d periods x %d transactions in %s\n", *periods, *perPeriod, *output)
	fmt.Printf("Fault: %s\n", *fault)
	fmt.Printf("Seed used: %d\n", *seed)
}

func faultNames() string {
	names := make([]string, len(faults))
	for i, f := range faults {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// WriteScenarios writes one export per fault, named after the fault
func (g *ExportGenerator) WriteScenarios(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, fault := range faults {
		g.Fault = fault
		if err := g.WriteFile(filepath.Join(dir, string(fault)+".txt")); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile generates the export and writes it to path
func (g *ExportGenerator) WriteFile(path string) error {
	text, err := g.Generate()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}

// Generate builds the whole export text
func (g *ExportGenerator) Generate() (string, error) {
	switch g.Fault {
	case FaultNone, FaultMissingBody, FaultDuplicateLabel, FaultBadAmount, FaultReferenceGap, FaultTooFewFields:
	default:
		return "", fmt.Errorf("unsupported fault: %s", g.Fault)
	}
	if g.Periods <= 0 || g.PerPeriod < 0 {
		return "", fmt.Errorf("periods must be positive and per-period non-negative")
	}

	g.rng = rand.New(rand.NewSource(g.Seed))

	var b strings.Builder
	for p := 0; p < g.Periods; p++ {
		period := g.Start.AddDate(0, p, 0)
		label := strings.ToUpper(period.Format("Jan 2006"))
		if g.Fault == FaultDuplicateLabel && p == g.Periods-1 && p > 0 {
			label = strings.ToUpper(g.Start.Format("Jan 2006"))
		}

		b.WriteString(label)
		if g.Fault == FaultMissingBody && p == g.Periods-1 {
			// a trailing newline would read as an empty body
			break
		}
		b.WriteString("\n")
		b.WriteString(g.body(period, p == 0))
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// body renders one period's transactions on a single line. Faults land in
// the first period so every scenario fails in a predictable place.
func (g *ExportGenerator) body(period time.Time, first bool) string {
	lines := make([]string, 0, g.PerPeriod)
	ref := 1
	for i := 0; i < g.PerPeriod; i++ {
		if first && g.Fault == FaultReferenceGap && i == g.PerPeriod/2 {
			ref++
		}

		txDate := period.AddDate(0, 0, g.rng.Intn(28))
		postDate := txDate.AddDate(0, 0, 1+g.rng.Intn(2))
		amount := g.amount()

		amountText := formatAmount(amount, g.NegativeStyle)
		if first && g.Fault == FaultBadAmount && i == 0 {
			amountText = "12.3.4"
		}

		line := fmt.Sprintf("%03d %s %s %s %s",
			ref, dateToken(txDate), dateToken(postDate), g.details(amount), amountText)
		if first && g.Fault == FaultTooFewFields && i == 0 {
			line = fmt.Sprintf("%03d %s %s", ref, dateToken(txDate), amountText)
		}

		lines = append(lines, line)
		ref++
	}
	return strings.Join(lines, " ")
}

func (g *ExportGenerator) amount() decimal.Decimal {
	amountRange := g.MaxAmount.Sub(g.MinAmount)
	amount := decimal.NewFromFloat(g.rng.Float64()).Mul(amountRange).Add(g.MinAmount).Round(2)
	if g.rng.Float64() < g.DebitRatio {
		amount = amount.Neg()
	}
	return amount
}

func (g *ExportGenerator) details(amount decimal.Decimal) string {
	if amount.IsPositive() {
		credits := []string{
			"Deposit", "Transfer In", "Salary ACME Ltd", "Interest", "Refund Online Store", "Dividend",
		}
		return credits[g.rng.Intn(len(credits))]
	}
	debits := []string{
		"Card Purchase Grocer", "ATM Withdrawal", "Debit Order Insurance", "Online Payment",
		"Service Fee", "Card Purchase Fuel 24/7", "Transfer Out",
	}
	return debits[g.rng.Intn(len(debits))]
}

// dateToken renders "Mon DD" as the statement prints it
func dateToken(t time.Time) string {
	return fmt.Sprintf("%s %02d", months[t.Month()-1], t.Day())
}

// formatAmount renders 1234.5 as 1,234.50 with the debit notation applied
func formatAmount(amount decimal.Decimal, style string) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}
	text := grouped.String() + "." + frac

	if !amount.IsNegative() {
		return text
	}
	switch style {
	case "leading":
		return "-" + text
	case "parentheses":
		return "(" + text + ")"
	default:
		return text + "-"
	}
}
