package engine

import (
	"strings"

	"ucvar/internal/core"
)

// buildMonthMap finds every month-bearing header cell, canonicalizes its
// month key, and binds the plan/claims/d365 sub-columns for that month by
// keyword. Differently-spelled headers for the same month ("Apr-25",
// "April 2025") merge into a single entry; the raw spellings are retained.
//
// The scan stops at the first header row that yields any months, so a lower
// band of repeated labels cannot rebind columns. A month group with no
// claims or d365 column is complete: the absent columns read as zero.
func buildMonthMap(grid core.Grid, cfg Config) (map[string]MonthColumns, []Diagnostic) {
	months := map[string]MonthColumns{}
	var diags []Diagnostic

	for _, row := range cfg.headerSearchRows() {
		if row >= grid.Rows() {
			continue
		}
		for col := 0; col < grid.Cols(); col++ {
			cell := grid.Cell(row, col)
			if cell == "" || !monthTokenPattern.MatchString(cell) {
				continue
			}

			key, err := core.NormalizeMonthStripped(cell, cfg.D365Keywords)
			if err != nil {
				diags = append(diags, Diagnostic{
					Kind:   DiagUnrecognizedDateFormat,
					Row:    row,
					Col:    col,
					Value:  cell,
					Detail: "month-like header could not be normalized; column excluded",
				})
				continue
			}

			mc, ok := months[key]
			if !ok {
				mc = MonthColumns{Plan: -1, Claims: -1, D365: -1}
			}
			mc.RawHeaders = append(mc.RawHeaders, cell)

			role, target := classifyMonthCell(cell, cfg)
			if target != nil {
				if prev := *fieldFor(&mc, *target); prev >= 0 && prev != col {
					diags = append(diags, Diagnostic{
						Kind:   DiagAmbiguousColumnMatch,
						Row:    row,
						Col:    col,
						Value:  cell,
						Detail: "duplicate " + role + " column for month " + key + "; earliest-indexed column wins",
					})
				} else {
					*fieldFor(&mc, *target) = col
				}
			}
			months[key] = mc
		}
		if len(months) > 0 {
			break
		}
	}
	return months, diags
}

type monthField int

const (
	fieldPlan monthField = iota
	fieldClaims
	fieldD365
)

// classifyMonthCell decides which sub-role a month header carries. Plan
// keywords take precedence over claims, claims over d365, so a header
// naming both binds deterministically.
func classifyMonthCell(cell string, cfg Config) (string, *monthField) {
	lower := strings.ToLower(cell)
	switch {
	case containsAny(lower, cfg.PlanKeywords):
		f := fieldPlan
		return "plan", &f
	case containsAny(lower, cfg.ClaimsKeywords):
		f := fieldClaims
		return "claims", &f
	case containsAny(lower, cfg.D365Keywords):
		f := fieldD365
		return "d365", &f
	}
	return "", nil
}

func fieldFor(mc *MonthColumns, f monthField) *int {
	switch f {
	case fieldClaims:
		return &mc.Claims
	case fieldD365:
		return &mc.D365
	default:
		return &mc.Plan
	}
}
