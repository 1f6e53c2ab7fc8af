// Package engine implements the adaptive schema-detection and
// variance-aggregation core: it locates semantically-meaningful columns in a
// free-form budget utilization sheet, normalizes month headers to canonical
// YYYY-MM keys, folds data rows into budget lines, and derives plan-vs-actual
// variance figures at line, month, cumulative, and grand-total level.
//
// Processing is a single pass over one in-memory grid. The only fatal
// failure is schema resolution; every cell-level anomaly degrades to a
// diagnostic so one malformed row never discards a valid workbook.
package engine

import (
	"context"

	"ucvar/internal/core"
)

// Result is the outcome of one workbook run.
type Result struct {
	Dataset     *core.VarianceDataset
	Schema      *Schema
	Diagnostics []Diagnostic

	// MonthsSeen and MonthsStored quantify the sparse-storage saving.
	MonthsSeen   int
	MonthsStored int
}

// Process runs the full pipeline over one sheet grid: clean, detect schema,
// aggregate rows, derive variances, render the sparse dataset. The grid is
// never mutated. Returns *SchemaResolutionError when required columns are
// missing; all other anomalies are reported in Result.Diagnostics.
func Process(ctx context.Context, grid core.Grid, cfg Config) (*Result, error) {
	grid = CleanGrid(grid)

	schema, diags, err := DetectSchema(grid, cfg)
	if err != nil {
		return nil, err
	}

	acc, err := aggregateRows(ctx, grid, schema, cfg)
	if err != nil {
		return nil, err
	}
	diags = append(diags, acc.diags...)

	ds := renderDataset(deriveDataset(acc, schema), cfg)

	return &Result{
		Dataset:      ds,
		Schema:       schema,
		Diagnostics:  diags,
		MonthsSeen:   len(schema.Months),
		MonthsStored: len(ds.MonthlyData),
	}, nil
}
