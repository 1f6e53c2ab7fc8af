package workbook

import (
	"context"

	"ucvar/internal/core"
)

// Ports for inbound workbook adapters.
type (
	// GridReader loads one sheet as a raw cell grid. An empty sheet name
	// selects the adapter's default sheet.
	GridReader interface {
		ReadGrid(ctx context.Context, sheet string) (core.Grid, error)
	}

	// SheetLister enumerates the sheets available in the workbook.
	SheetLister interface {
		ListSheets(ctx context.Context) ([]string, error)
	}
)
