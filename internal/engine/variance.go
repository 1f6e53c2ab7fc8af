package engine

import (
	"github.com/shopspring/decimal"
)

type (
	exactMonth struct {
		planned decimal.Decimal
		claims  decimal.Decimal
		d365    decimal.Decimal
	}

	exactLine struct {
		budgetHead   string
		vendorRole   string
		costHeads    []string
		months       map[string]exactMonth
		totalPlanned decimal.Decimal
		totalSpent   decimal.Decimal
	}

	// exactDataset carries every aggregate at full precision. Rendering
	// applies the rounding rule exactly once per figure.
	exactDataset struct {
		order     []string
		lines     map[string]*exactLine
		monthKeys []string // all detected months, calendar order
	}
)

// deriveDataset computes the derived figures from the raw accumulators:
// per-line totals from each line's own months, with spent = claims + d365.
// Global monthly, cumulative, and grand totals are derived at render time
// from the same bases so the published identities hold exactly.
func deriveDataset(acc *accumSet, schema *Schema) *exactDataset {
	ex := &exactDataset{
		lines:     make(map[string]*exactLine, len(acc.lines)),
		monthKeys: schema.MonthKeys(),
	}

	for _, key := range acc.order {
		src := acc.lines[key]
		line := &exactLine{
			budgetHead: src.budgetHead,
			vendorRole: src.vendorRole,
			costHeads:  src.costHeads,
			months:     make(map[string]exactMonth, len(src.months)),
		}
		for mk, m := range src.months {
			line.months[mk] = exactMonth{planned: m.planned, claims: m.claims, d365: m.d365}
			line.totalPlanned = line.totalPlanned.Add(m.planned)
			line.totalSpent = line.totalSpent.Add(m.claims).Add(m.d365)
		}
		ex.lines[key] = line
		ex.order = append(ex.order, key)
	}
	return ex
}
