package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"ucvar/internal/core"
)

// renderDataset applies the output policy to the exact aggregates: every
// base figure is rounded exactly once (fixed places, half-up), derived
// figures are computed from the rounded bases, and months where planned and
// spent both round to zero are omitted when sparse storage is on.
func renderDataset(ex *exactDataset, cfg Config) *core.VarianceDataset {
	places := cfg.DecimalPlaces

	ds := &core.VarianceDataset{
		BudgetLines:    make(map[string]*core.BudgetLine, len(ex.lines)),
		MonthlyData:    map[string]core.MonthFigures{},
		CumulativeData: map[string]core.CumulativeFigures{},
		Metadata: core.ProcessingMetadata{
			SparseStorage:   cfg.SparseStorage,
			DecimalPlaces:   int(places),
			DateFormat:      "YYYY-MM (normalized)",
			MonthsProcessed: len(ex.monthKeys),
		},
	}

	globalMonths := map[string]*monthAccum{}
	var grandPlanned, grandSpent decimal.Decimal

	for _, key := range ex.order {
		src := ex.lines[key]
		line := &core.BudgetLine{
			BudgetHead:         src.budgetHead,
			VendorRoleCategory: src.vendorRole,
			CostHeads:          src.costHeads,
			MonthlyData:        map[string]core.MonthFigures{},
		}
		if line.CostHeads == nil {
			line.CostHeads = []string{}
		}

		for _, mk := range ex.monthKeys {
			m, seen := src.months[mk]
			if !seen && cfg.SparseStorage {
				continue
			}
			planned := m.planned.Round(places)
			claims := m.claims.Round(places)
			d365 := m.d365.Round(places)
			spent := claims.Add(d365)

			if cfg.SparseStorage && planned.IsZero() && spent.IsZero() {
				continue
			}

			line.MonthlyData[mk] = core.MonthFigures{
				Planned:    planned.InexactFloat64(),
				Claims:     claims.InexactFloat64(),
				D365:       d365.InexactFloat64(),
				TotalSpent: spent.InexactFloat64(),
				Variance:   planned.Sub(spent).InexactFloat64(),
			}

			g := globalMonths[mk]
			if g == nil {
				g = &monthAccum{}
				globalMonths[mk] = g
			}
			g.planned = g.planned.Add(planned)
			g.claims = g.claims.Add(claims)
			g.d365 = g.d365.Add(d365)
		}

		totalPlanned := src.totalPlanned.Round(places)
		totalSpent := src.totalSpent.Round(places)
		line.TotalPlanned = totalPlanned.InexactFloat64()
		line.TotalSpent = totalSpent.InexactFloat64()
		line.TotalVariance = totalPlanned.Sub(totalSpent).InexactFloat64()

		grandPlanned = grandPlanned.Add(totalPlanned)
		grandSpent = grandSpent.Add(totalSpent)

		ds.BudgetLines[key] = line
	}

	var cumPlanned, cumSpent decimal.Decimal
	for _, mk := range ex.monthKeys {
		g := globalMonths[mk]
		if g == nil {
			if cfg.SparseStorage {
				continue
			}
			g = &monthAccum{}
		}
		spent := g.claims.Add(g.d365)
		if cfg.SparseStorage && g.planned.IsZero() && spent.IsZero() {
			continue
		}
		ds.MonthlyData[mk] = core.MonthFigures{
			Planned:    g.planned.InexactFloat64(),
			Claims:     g.claims.InexactFloat64(),
			D365:       g.d365.InexactFloat64(),
			TotalSpent: spent.InexactFloat64(),
			Variance:   g.planned.Sub(spent).InexactFloat64(),
		}

		cumPlanned = cumPlanned.Add(g.planned)
		cumSpent = cumSpent.Add(spent)
		ds.CumulativeData[mk] = core.CumulativeFigures{
			CumulativePlanned:  cumPlanned.InexactFloat64(),
			CumulativeSpent:    cumSpent.InexactFloat64(),
			CumulativeVariance: cumPlanned.Sub(cumSpent).InexactFloat64(),
		}
	}

	ds.GrandTotals = core.GrandTotals{
		TotalPlanned:  grandPlanned.InexactFloat64(),
		TotalSpent:    grandSpent.InexactFloat64(),
		TotalVariance: grandPlanned.Sub(grandSpent).InexactFloat64(),
	}
	return ds
}

// Marshal renders the dataset as the canonical indented JSON artifact.
func Marshal(ds *core.VarianceDataset) ([]byte, error) {
	return json.MarshalIndent(ds, "", "  ")
}

// WriteFile writes the dataset to path, creating parent directories.
func WriteFile(ds *core.VarianceDataset, path string) error {
	data, err := Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}
