package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"ucvar/internal/core"
)

type (
	monthAccum struct {
		planned decimal.Decimal
		claims  decimal.Decimal
		d365    decimal.Decimal
	}

	lineAccum struct {
		budgetHead string
		vendorRole string
		costHeads  []string
		costSeen   map[string]struct{}
		months     map[string]*monthAccum
	}

	// accumSet folds data rows into budget lines. Sums stay exact decimals;
	// rounding is deferred to serialization.
	accumSet struct {
		order []string
		lines map[string]*lineAccum
		diags []Diagnostic
	}
)

func newAccumSet() *accumSet {
	return &accumSet{lines: map[string]*lineAccum{}}
}

// totalRowMarkers identify subtotal/summary rows that must not become
// budget lines of their own.
var totalRowMarkers = []string{"total", "subtotal", "grand"}

// aggregateRows folds every data row from the detected start row to the end
// of the grid. Blank separator rows and total rows are skipped; multiple
// rows sharing one (budget head, vendor/role) identity accumulate into the
// same line. Unparsable monetary cells count as zero with a diagnostic.
//
// With cfg.Workers > 1 the rows are partitioned across goroutines and the
// partial accumulators merged in partition order, so the result is
// identical to the sequential fold.
func aggregateRows(ctx context.Context, grid core.Grid, schema *Schema, cfg Config) (*accumSet, error) {
	rows := dataRows(grid, schema)

	workers := cfg.Workers
	if workers <= 1 || len(rows) < workers*2 {
		acc := newAccumSet()
		for _, r := range rows {
			acc.foldRow(grid, schema, r)
		}
		return acc, nil
	}

	parts := make([]*accumSet, workers)
	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	chunk := (len(rows) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(rows) {
			hi = len(rows)
		}
		if lo >= hi {
			break
		}
		w, lo, hi := w, lo, hi
		g.Go(func() error {
			part := newAccumSet()
			for _, r := range rows[lo:hi] {
				part.foldRow(grid, schema, r)
			}
			mu.Lock()
			parts[w] = part
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	acc := newAccumSet()
	for _, part := range parts {
		if part != nil {
			acc.merge(part)
		}
	}
	return acc, nil
}

// dataRows lists the row indices carrying aggregatable data, in order.
func dataRows(grid core.Grid, schema *Schema) []int {
	var rows []int
	for r := schema.DataStartRow; r < grid.Rows(); r++ {
		head := grid.Cell(r, schema.BudgetHeadCol)
		if head == "" {
			continue
		}
		if containsAny(strings.ToLower(head), totalRowMarkers) {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}

func (a *accumSet) foldRow(grid core.Grid, schema *Schema, row int) {
	budgetHead := grid.Cell(row, schema.BudgetHeadCol)
	vendorRole := ""
	if schema.VendorRoleCol >= 0 {
		vendorRole = grid.Cell(row, schema.VendorRoleCol)
	}

	line := a.line(budgetHead, vendorRole)

	if schema.CostHeadCol >= 0 {
		if ch := grid.Cell(row, schema.CostHeadCol); ch != "" {
			if _, seen := line.costSeen[ch]; !seen {
				line.costSeen[ch] = struct{}{}
				line.costHeads = append(line.costHeads, ch)
			}
		}
	}

	for key, mc := range schema.Months {
		planned := a.cellAmount(grid, row, mc.Plan)
		claims := a.cellAmount(grid, row, mc.Claims)
		d365 := a.cellAmount(grid, row, mc.D365)
		if planned.IsZero() && claims.IsZero() && d365.IsZero() {
			continue
		}
		m := line.months[key]
		if m == nil {
			m = &monthAccum{}
			line.months[key] = m
		}
		m.planned = m.planned.Add(planned)
		m.claims = m.claims.Add(claims)
		m.d365 = m.d365.Add(d365)
	}
}

func (a *accumSet) line(budgetHead, vendorRole string) *lineAccum {
	key := core.LineKey(budgetHead, vendorRole)
	line, ok := a.lines[key]
	if !ok {
		line = &lineAccum{
			budgetHead: strings.TrimSpace(budgetHead),
			vendorRole: strings.TrimSpace(vendorRole),
			costSeen:   map[string]struct{}{},
			months:     map[string]*monthAccum{},
		}
		a.lines[key] = line
		a.order = append(a.order, key)
	}
	return line
}

// cellAmount reads a monetary cell. An unbound column (-1) and an empty
// cell are zero; a malformed cell is zero with a diagnostic.
func (a *accumSet) cellAmount(grid core.Grid, row, col int) decimal.Decimal {
	if col < 0 {
		return decimal.Zero
	}
	v, err := core.ParseAmount(grid.Cell(row, col))
	if err != nil {
		a.diags = append(a.diags, Diagnostic{
			Kind:   DiagMalformedCellValue,
			Row:    row,
			Col:    col,
			Value:  grid.Cell(row, col),
			Detail: "unparsable monetary value treated as zero",
		})
		return decimal.Zero
	}
	return v
}

// merge folds another accumulator into this one. Merging partition
// accumulators in partition order preserves first-seen ordering of lines
// and cost heads.
func (a *accumSet) merge(b *accumSet) {
	for _, key := range b.order {
		src := b.lines[key]
		dst := a.line(src.budgetHead, src.vendorRole)
		for _, ch := range src.costHeads {
			if _, seen := dst.costSeen[ch]; !seen {
				dst.costSeen[ch] = struct{}{}
				dst.costHeads = append(dst.costHeads, ch)
			}
		}
		for mk, m := range src.months {
			d := dst.months[mk]
			if d == nil {
				d = &monthAccum{}
				dst.months[mk] = d
			}
			d.planned = d.planned.Add(m.planned)
			d.claims = d.claims.Add(m.claims)
			d.d365 = d.d365.Add(m.d365)
		}
	}
	a.diags = append(a.diags, b.diags...)
}
