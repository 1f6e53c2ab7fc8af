package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ucvar/internal/amqp"
	"ucvar/internal/backend"
	"ucvar/internal/cli"
	"ucvar/internal/config"
	"ucvar/internal/log"
	"ucvar/internal/services"
)

func main() {
	var (
		filePath = flag.String("file", "", "path to the xlsx or csv workbook")
		sheet    = flag.String("sheet", "", "sheet name (default: first sheet)")
		runsDir  = flag.String("runs-dir", "", "override for the runs output directory")
		listRuns = flag.Bool("list-runs", false, "list recent runs and exit")
		limit    = flag.Int("limit", 20, "number of runs to list")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)
	if *runsDir != "" {
		cfg.RunsDir = *runsDir
	}

	if *listRuns {
		runList(logger, cfg, *limit)
		return
	}

	ctx, _ := cli.GracefulShutdown(logger, 10*time.Second, nil)
	if err := runProcess(ctx, logger, cfg, *filePath, *sheet); err != nil {
		logger.Error("Run failed", log.FieldError, err)
		os.Exit(1)
	}
}

func runProcess(ctx context.Context, logger *log.Logger, cfg *config.Config, filePath, sheet string) error {
	sourceType := backend.SourceType(cfg.WorkbookSource)
	if sourceType != backend.SheetsSource && filePath == "" {
		return fmt.Errorf("-file is required for the %s source", cfg.WorkbookSource)
	}

	factory := backend.NewFactory(logger.Logger.With(log.FieldComponent, log.ComponentBackend))
	result, err := factory.CreateSource(ctx, backend.Config{
		Type:                  sourceType,
		FilePath:              filePath,
		GoogleSpreadsheetID:   cfg.GoogleSpreadsheetID,
		GoogleSheetName:       cfg.GoogleSheetName,
		GoogleCredentialsFile: cfg.GoogleCredentialsFile,
		GoogleCredentialsJSON: cfg.GoogleCredentialsJSON,
	})
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	repo := cli.InitRunRepository(logger, cfg.SQLiteDBPath)

	var publisher *amqp.Client
	if cfg.AMQPURL != "" {
		publisher, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Notifications are best effort; the run itself proceeds.
			logger.Warn("AMQP unavailable, continuing without notifications", log.FieldError, err)
		}
	}

	svc := services.NewProcessService(result.Source, repo, publisher,
		logger, cfg.WorkbookSource, cfg.RunsDir, cfg.Engine())
	defer svc.Close()

	summary, err := svc.ProcessSheet(ctx, sheet)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d budget lines, %d/%d months stored\n",
		summary.RunID, summary.BudgetLines, summary.MonthsStored, summary.MonthsSeen)
	fmt.Printf("dataset written to %s\n", summary.OutputPath)
	if n := len(summary.Diagnostics); n > 0 {
		fmt.Printf("%d diagnostics (see log)\n", n)
	}
	return nil
}

func runList(logger *log.Logger, cfg *config.Config, limit int) {
	repo := cli.InitRunRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	runs, err := repo.ListRuns(context.Background(), limit)
	if err != nil {
		logger.Error("Failed to list runs", log.FieldError, err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return
	}

	for _, run := range runs {
		fmt.Printf("%s  %-6s  %-20s  lines=%-3d months=%d/%d  variance=%.2f  %s\n",
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.Source, run.Sheet, run.BudgetLines,
			run.MonthsStored, run.MonthsSeen,
			run.TotalVariance, run.ID)
	}
}
