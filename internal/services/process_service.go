package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"ucvar/internal/amqp"
	"ucvar/internal/engine"
	"ucvar/internal/log"
	"ucvar/internal/storage"
	"ucvar/internal/workbook"
)

const publishAttempts = 3

// RunSummary is what a completed run hands back to the caller.
type RunSummary struct {
	RunID        string
	Sheet        string
	OutputPath   string
	BudgetLines  int
	MonthsSeen   int
	MonthsStored int
	Diagnostics  []engine.Diagnostic
}

// ProcessService drives one workbook through the engine and fans the
// result out: JSON artifact on disk, run row in SQLite, completion message
// on AMQP. Repository and publisher are optional; a run that produced its
// artifact never fails because a side channel is down.
type ProcessService struct {
	reader     workbook.GridReader
	repository *storage.RunRepository
	publisher  *amqp.Client
	logger     *log.Logger

	source    string
	runsDir   string
	engineCfg engine.Config
}

func NewProcessService(
	reader workbook.GridReader,
	repository *storage.RunRepository,
	publisher *amqp.Client,
	logger *log.Logger,
	source, runsDir string,
	engineCfg engine.Config,
) *ProcessService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ProcessService{
		reader:     reader,
		repository: repository,
		publisher:  publisher,
		logger:     logger.WithComponent(log.ComponentApp),
		source:     source,
		runsDir:    runsDir,
		engineCfg:  engineCfg,
	}
}

// ProcessSheet runs the full pipeline for one sheet.
func (s *ProcessService) ProcessSheet(ctx context.Context, sheet string) (*RunSummary, error) {
	runID := uuid.NewString()
	started := time.Now()
	logger := s.logger.With(log.NewFields().WithRun(runID, s.source, sheet).Args()...)

	grid, err := s.reader.ReadGrid(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}
	logger.Info("Workbook grid loaded",
		log.FieldOperation, log.OpRead,
		log.FieldRows, grid.Rows(),
		log.FieldCols, grid.Cols())

	res, err := engine.Process(ctx, grid, s.engineCfg)
	if err != nil {
		return nil, fmt.Errorf("process sheet %q: %w", sheet, err)
	}

	for _, d := range res.Diagnostics {
		logger.Warn("Processing diagnostic", "kind", d.Kind, "detail", d.String())
	}
	if res.MonthsSeen > 0 {
		logger.Info("Sparse storage summary",
			log.FieldOperation, log.OpAggregate,
			log.FieldMonthsSeen, res.MonthsSeen,
			log.FieldMonthsStored, res.MonthsStored)
	}

	outputPath := filepath.Join(s.runsDir, runID, "uc_processed.json")
	if err := engine.WriteFile(res.Dataset, outputPath); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}

	summary := &RunSummary{
		RunID:        runID,
		Sheet:        sheet,
		OutputPath:   outputPath,
		BudgetLines:  len(res.Dataset.BudgetLines),
		MonthsSeen:   res.MonthsSeen,
		MonthsStored: res.MonthsStored,
		Diagnostics:  res.Diagnostics,
	}

	s.persistRun(ctx, logger, summary, res)
	s.publishRun(ctx, logger, summary, res)

	fields := log.NewFields().WithDataset(summary.BudgetLines, summary.MonthsSeen, summary.MonthsStored)
	fields[log.FieldDiagnostics] = len(summary.Diagnostics)
	fields[log.FieldOutputPath] = outputPath
	fields[log.FieldDuration] = time.Since(started).Milliseconds()
	logger.Info("Run completed", fields.Args()...)
	return summary, nil
}

func (s *ProcessService) persistRun(ctx context.Context, logger *log.Logger, summary *RunSummary, res *engine.Result) {
	if s.repository == nil {
		return
	}

	dataset, err := engine.Marshal(res.Dataset)
	if err != nil {
		logger.Error("Failed to marshal dataset for persistence",
			log.NewFields().WithOperation(log.OpPersist).WithError(err).Args()...)
		return
	}

	run := storage.Run{
		ID:            summary.RunID,
		Source:        s.source,
		Sheet:         summary.Sheet,
		BudgetLines:   summary.BudgetLines,
		MonthsSeen:    summary.MonthsSeen,
		MonthsStored:  summary.MonthsStored,
		Diagnostics:   len(summary.Diagnostics),
		TotalPlanned:  res.Dataset.GrandTotals.TotalPlanned,
		TotalSpent:    res.Dataset.GrandTotals.TotalSpent,
		TotalVariance: res.Dataset.GrandTotals.TotalVariance,
		OutputPath:    summary.OutputPath,
		Dataset:       dataset,
		CreatedAt:     time.Now(),
	}
	if err := s.repository.SaveRun(ctx, run); err != nil {
		// The artifact is already on disk; losing the index row is
		// recoverable.
		logger.Error("Failed to persist run",
			log.NewFields().WithOperation(log.OpPersist).WithError(err).Args()...)
	}
}

func (s *ProcessService) publishRun(ctx context.Context, logger *log.Logger, summary *RunSummary, res *engine.Result) {
	if s.publisher == nil {
		return
	}

	msg := amqp.NewRunCompletedMessage(summary.RunID, s.source, summary.Sheet)
	msg.BudgetLines = summary.BudgetLines
	msg.MonthsStored = summary.MonthsStored
	msg.Diagnostics = len(summary.Diagnostics)
	msg.TotalPlanned = res.Dataset.GrandTotals.TotalPlanned
	msg.TotalSpent = res.Dataset.GrandTotals.TotalSpent
	msg.TotalVariance = res.Dataset.GrandTotals.TotalVariance
	msg.OutputPath = summary.OutputPath

	if err := s.publisher.PublishWithRetry(ctx, msg, publishAttempts); err != nil {
		logger.Error("Failed to publish run completed message",
			log.NewFields().WithOperation(log.OpPublish).WithError(err).Args()...)
	}
}

// ListRuns returns the most recent persisted runs.
func (s *ProcessService) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	if s.repository == nil {
		return nil, fmt.Errorf("no runs database configured")
	}
	return s.repository.ListRuns(ctx, limit)
}

// Close closes the repository and AMQP connections.
func (s *ProcessService) Close() error {
	var errs []error

	if s.repository != nil {
		if err := s.repository.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close process service: %v", errs)
	}
	return nil
}
