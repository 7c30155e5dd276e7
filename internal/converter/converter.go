// Package converter runs the whole statement conversion: read the export,
// split it into periods, tokenize each period and write one file per period.
//
// Example usage:
//
//	conv, err := converter.NewConverter(converter.DefaultConfig(), nil, nil)
//	conv.AddProgressCallback(func(p *converter.Progress) {
//		fmt.Printf("%s: %d/%d periods\n", p.CurrentStep, p.PeriodsDone, p.TotalPeriods)
//	})
//	result, err := conv.Convert(ctx, "statements.txt", "out")
package converter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"golang-statement-converter/internal/exporter"
	"golang-statement-converter/internal/models"
	"golang-statement-converter/internal/parsers"
	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

// Config holds configuration options for a conversion run
type Config struct {
	Parallel          bool `json:"parallel" mapstructure:"parallel"`
	MaxConcurrency    int  `json:"max_concurrency" mapstructure:"max_concurrency"`
	ProgressReporting bool `json:"progress_reporting" mapstructure:"progress_reporting"`
	DryRun            bool `json:"dry_run" mapstructure:"dry_run"`
	// RequirePeriods rejects an export without any period instead of
	// converting it to nothing.
	RequirePeriods bool `json:"require_periods" mapstructure:"require_periods"`
}

// DefaultConfig returns a default configuration: sequential, no progress logs
func DefaultConfig() *Config {
	return &Config{
		Parallel:          false,
		MaxConcurrency:    4,
		ProgressReporting: false,
		DryRun:            false,
		RequirePeriods:    false,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive, got %d", c.MaxConcurrency)
	}
	return nil
}

// Result contains the tables and summary of one conversion run
type Result struct {
	Summary *models.RunSummary
	Tables  []*models.StatementTable
	Stats   []*parsers.ParseStats
}

// Converter orchestrates reading, tokenizing and exporting
type Converter struct {
	config    *Config
	tokenizer *parsers.Tokenizer
	exporter  *exporter.Exporter
	logger    logger.Logger

	progressCallbacks []ProgressCallback
	currentProgress   *Progress
	progressMutex     sync.RWMutex
}

// NewConverter creates a converter. Nil parser or export configs fall back
// to their defaults.
func NewConverter(config *Config, parserConfig *parsers.Config, exportConfig *exporter.Config) (*Converter, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "max_concurrency", config.MaxConcurrency, err)
	}

	tokenizer, err := parsers.NewTokenizer(parserConfig)
	if err != nil {
		return nil, err
	}

	exp, err := exporter.NewExporter(exportConfig)
	if err != nil {
		return nil, err
	}

	log := logger.GetGlobalLogger().WithComponent("converter")
	log.WithFields(logger.Fields{
		"parallel":        config.Parallel,
		"max_concurrency": config.MaxConcurrency,
		"format":          exp.Format(),
		"dry_run":         config.DryRun,
	}).Debug("Created converter")

	return &Converter{
		config:          config,
		tokenizer:       tokenizer,
		exporter:        exp,
		logger:          log,
		currentProgress: &Progress{},
	}, nil
}

// Parse reads the export and splits it into periods
func (c *Converter) Parse(ctx context.Context, inputPath string) (*models.Statements, error) {
	if err := checkContext(ctx, "parse"); err != nil {
		return nil, err
	}

	text, err := parsers.ReadRawFile(inputPath)
	if err != nil {
		return nil, err
	}

	split := parsers.SplitPeriods
	if c.config.RequirePeriods {
		split = parsers.SplitPeriodsStrict
	}
	statements, err := split(text)
	if err != nil {
		c.logger.WithError(err).WithField("input", inputPath).Error("Failed to split export into periods")
		return nil, err
	}
	if statements.Len() == 0 {
		c.logger.WithField("input", inputPath).Warn("Export contains no statement periods")
	}

	c.logger.WithFields(logger.Fields{
		"input":   inputPath,
		"periods": statements.Len(),
	}).Info("Split export into periods")

	return statements, nil
}

// Tokenize converts every period into a table. Tables come back in period
// order; when several periods fail, the error of the earliest one is returned.
func (c *Converter) Tokenize(ctx context.Context, statements *models.Statements) ([]*models.StatementTable, error) {
	tables, _, err := c.tokenizeAll(ctx, statements)
	return tables, err
}

func (c *Converter) tokenizeAll(ctx context.Context, statements *models.Statements) ([]*models.StatementTable, []*parsers.ParseStats, error) {
	periods := statements.Periods()
	tables := make([]*models.StatementTable, len(periods))
	stats := make([]*parsers.ParseStats, len(periods))
	errs := make([]error, len(periods))

	var tracker *logger.ProgressTracker
	if c.config.ProgressReporting {
		tracker = logger.NewProgressTracker(logger.ProgressConfig{
			Operation: "tokenize",
			Total:     int64(len(periods)),
			Logger:    c.logger,
		})
	}

	var done int
	var doneMutex sync.Mutex
	finish := func(label string) {
		doneMutex.Lock()
		done++
		n := done
		doneMutex.Unlock()
		if tracker != nil {
			tracker.Increment()
		}
		c.updateProgress(fmt.Sprintf("Tokenized %s", label), n)
	}

	tokenizeOne := func(i int) {
		if err := checkContext(ctx, "tokenize"); err != nil {
			errs[i] = err
			return
		}
		p := periods[i]
		tables[i], stats[i], errs[i] = c.tokenizer.TokenizeWithStats(p.Label, p.Body)
		finish(p.Label)
	}

	if c.config.Parallel && len(periods) > 1 {
		semaphore := make(chan struct{}, c.config.MaxConcurrency)
		var wg sync.WaitGroup
		for i := range periods {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				tokenizeOne(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range periods {
			tokenizeOne(i)
			if errs[i] != nil {
				break
			}
		}
	}

	for _, err := range errs {
		if err != nil {
			if tracker != nil {
				tracker.CompleteWithError(err)
			}
			return nil, nil, err
		}
	}

	if tracker != nil {
		tracker.Complete()
	}
	return tables, stats, nil
}

// Convert runs the full pipeline and writes one file per period into
// outputDir, creating it if needed. On a dry run nothing is written.
func (c *Converter) Convert(ctx context.Context, inputPath, outputDir string) (*Result, error) {
	startTime := time.Now()
	runID := uuid.New().String()
	log := c.logger.WithFields(logger.Fields{
		"run_id": runID,
		"input":  inputPath,
		"output": outputDir,
	})
	log.Info("Starting conversion")

	c.initializeProgress()

	statements, err := c.Parse(ctx, inputPath)
	if err != nil {
		log.WithError(err).Error("Conversion failed while parsing")
		return nil, err
	}
	c.setTotal(statements.Len())
	c.updateProgress("Split periods", 0)

	tables, stats, err := c.tokenizeAll(ctx, statements)
	if err != nil {
		log.WithError(err).Error("Conversion failed while tokenizing")
		return nil, err
	}

	summary := &models.RunSummary{
		RunID:     runID,
		Input:     inputPath,
		OutputDir: outputDir,
		Format:    string(c.exporter.Format()),
		DryRun:    c.config.DryRun,
		StartedAt: startTime,
	}

	var paths []string
	if c.config.DryRun {
		// nothing written, so every period reports an empty output path
		paths = make([]string, len(tables))
	} else {
		if err := checkContext(ctx, "export"); err != nil {
			return nil, err
		}
		c.updateProgress("Exporting tables", len(tables))

		paths, err = c.exporter.ExportAll(outputDir, tables)
		if err != nil {
			log.WithError(err).Error("Conversion failed while exporting")
			return nil, err
		}
	}

	for i, table := range tables {
		summary.Periods = append(summary.Periods, models.NewPeriodSummary(table, paths[i]))
	}
	summary.Duration = time.Since(startTime)
	c.updateProgress("Completed", len(tables))

	log.WithFields(logger.Fields{
		"periods":  len(tables),
		"records":  summary.TotalRecords(),
		"duration": summary.Duration.String(),
		"dry_run":  c.config.DryRun,
	}).Info("Conversion completed")

	return &Result{Summary: summary, Tables: tables, Stats: stats}, nil
}

func checkContext(ctx context.Context, operation string) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return errors.InternalError(errors.CodeCancelled, operation, ctx.Err())
	default:
		return nil
	}
}
