package backend

import (
	"context"

	"ucvar/internal/workbook"
)

// Source is a unified workbook source: it reads grids and enumerates
// sheets.
type Source interface {
	workbook.GridReader
	workbook.SheetLister
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// SourceResult contains the source instance and optional cleanup function
type SourceResult struct {
	Source  Source
	Cleanup CleanupFunc
}

// Factory creates workbook sources based on configuration
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}

// Config holds configuration for source creation
type Config struct {
	Type SourceType

	// xlsx and csv sources
	FilePath string

	// Google Sheets source
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
}

// SourceType represents the kind of workbook source
type SourceType string

const (
	XLSXSource   SourceType = "xlsx"
	SheetsSource SourceType = "sheets"
	CSVSource    SourceType = "csv"
)

func (t SourceType) IsValid() bool {
	switch t {
	case XLSXSource, SheetsSource, CSVSource:
		return true
	}
	return false
}
