package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ucvar/internal/log"
	"ucvar/internal/workbook/excel"
	gsheet "ucvar/internal/workbook/google"
	"ucvar/internal/workbook/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*SourceResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid source type: %s", config.Type)
	}

	switch config.Type {
	case XLSXSource:
		return f.createXLSXSource(config)
	case CSVSource:
		return f.createCSVSource(config)
	case SheetsSource:
		return f.createSheetsSource(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

func (f *DefaultFactory) createXLSXSource(config Config) (*SourceResult, error) {
	if config.FilePath == "" {
		return nil, errors.New("xlsx source requires a file path")
	}
	wb, err := excel.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("initialize xlsx source: %w", err)
	}
	f.logger.Info("Initialized xlsx source", log.FieldFile, config.FilePath)
	return &SourceResult{Source: wb, Cleanup: wb.Close}, nil
}

func (f *DefaultFactory) createCSVSource(config Config) (*SourceResult, error) {
	if config.FilePath == "" {
		return nil, errors.New("csv source requires a file path")
	}
	store, err := memory.NewFromCSV(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("initialize csv source: %w", err)
	}
	f.logger.Info("Initialized csv source", log.FieldFile, config.FilePath)
	return &SourceResult{Source: store}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context, config Config) (*SourceResult, error) {
	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		DefaultSheet:    config.GoogleSheetName,
		CredentialsJSON: config.GoogleCredentialsJSON,
		CredentialsFile: config.GoogleCredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize sheets source: %w", err)
	}
	f.logger.Info("Initialized Google Sheets source",
		"spreadsheet_id", config.GoogleSpreadsheetID,
		log.FieldSheet, config.GoogleSheetName)
	return &SourceResult{Source: client}, nil
}
