package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ucvar/internal/core"
)

// Workbook reads sheets from an xlsx file via excelize.
type Workbook struct {
	f    *excelize.File
	path string
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{f: f, path: path}, nil
}

// ReadGrid returns the sheet's cells as formatted strings. Excelize already
// trims trailing empty cells per row, so rows come back ragged.
func (w *Workbook) ReadGrid(ctx context.Context, sheet string) (core.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sheet == "" {
		sheet = w.f.GetSheetName(0)
	}
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return core.Grid(rows), nil
}

func (w *Workbook) ListSheets(_ context.Context) ([]string, error) {
	return w.f.GetSheetList(), nil
}

func (w *Workbook) Path() string {
	return w.path
}

func (w *Workbook) Close() error {
	return w.f.Close()
}
