package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang-statement-converter/internal/converter"
	"golang-statement-converter/internal/models"
	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

// expectedCodes maps generated scenario names to the error they must raise
var expectedCodes = map[string]errors.ErrorCode{
	"missing-body":    errors.CodeMissingBody,
	"duplicate-label": errors.CodeDuplicatePeriod,
	"bad-amount":      errors.CodeInvalidAmount,
	"reference-gap":   errors.CodeNonContiguous,
	"too-few-fields":  errors.CodeTooFewTokens,
}

// ExportValidator runs every export in a directory through the converter
type ExportValidator struct {
	DataDir string
	Verbose bool
}

// ValidationResult is the outcome for one export file
type ValidationResult struct {
	File     string
	Expected errors.ErrorCode
	Actual   errors.ErrorCode
	Periods  int
	Records  int
	Duration time.Duration
	Problem  string
}

// Passed reports whether the export behaved as expected
func (r ValidationResult) Passed() bool {
	return r.Problem == "" && r.Expected == r.Actual
}

func main() {
	var (
		dataDir = flag.String("data-dir", "../generated", "Directory containing .txt exports")
		verbose = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	quiet, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: logger.TextFormat, Output: logger.StderrOutput})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	logger.SetGlobalLogger(quiet)

	validator := &ExportValidator{DataDir: *dataDir, Verbose: *verbose}

	fmt.Println("Statement Export Validator")
	fmt.Println("==========================")
	fmt.Printf("Data directory: %s\n\n", *dataDir)

	results, err := validator.ValidateAll(context.Background())
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	failed := 0
	for _, r := range results {
		status := "PASS"
		if !r.Passed() {
			status = "FAIL"
			failed++
		}
		fmt.Printf("[%s] %-24s periods=%-4d records=%-6d %v\n", status, r.File, r.Periods, r.Records, r.Duration.Round(time.Microsecond))
		if !r.Passed() || validator.Verbose {
			fmt.Printf("       expected=%q actual=%q %s\n", r.Expected, r.Actual, r.Problem)
		}
	}

	fmt.Printf("\n%d exports, %d failed\n", len(results), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// ValidateAll validates every .txt export in the data directory
func (ev *ExportValidator) ValidateAll(ctx context.Context) ([]ValidationResult, error) {
	paths, err := filepath.Glob(filepath.Join(ev.DataDir, "*.txt"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .txt exports found in %s", ev.DataDir)
	}
	sort.Strings(paths)

	results := make([]ValidationResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, ev.Validate(ctx, path))
	}
	return results, nil
}

// Validate converts one export sequentially and in parallel and checks
// that both agree with each other and with the expected outcome.
func (ev *ExportValidator) Validate(ctx context.Context, path string) ValidationResult {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result := ValidationResult{File: filepath.Base(path), Expected: expectedCodes[name]}

	start := time.Now()
	sequential, seqErr := convert(ctx, path, false)
	result.Duration = time.Since(start)
	parallel, parErr := convert(ctx, path, true)

	result.Actual = errorCode(seqErr)
	if errorCode(parErr) != result.Actual {
		result.Problem = fmt.Sprintf("parallel run failed with %q", errorCode(parErr))
		return result
	}
	if seqErr != nil {
		return result
	}

	result.Periods = len(sequential.Summary.Periods)
	result.Records = sequential.Summary.TotalRecords()
	if !sameTables(sequential.Tables, parallel.Tables) {
		result.Problem = "parallel tables differ from sequential tables"
	}
	return result
}

func convert(ctx context.Context, path string, parallel bool) (*converter.Result, error) {
	config := converter.DefaultConfig()
	config.DryRun = true
	config.Parallel = parallel

	conv, err := converter.NewConverter(config, nil, nil)
	if err != nil {
		return nil, err
	}
	return conv.Convert(ctx, path, "")
}

func errorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	if convErr, ok := errors.AsConverterError(err); ok {
		return convErr.Code
	}
	return errors.CodeUnexpectedError
}

func sameTables(a, b []*models.StatementTable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Period != b[i].Period || a[i].Len() != b[i].Len() {
			return false
		}
		for j := range a[i].Records {
			if !a[i].Records[j].Equals(b[i].Records[j]) {
				return false
			}
		}
	}
	return true
}
