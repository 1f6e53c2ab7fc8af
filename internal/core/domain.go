package core

import (
	"errors"
	"strings"
)

var (
	// ErrUnrecognizedDateFormat is returned when a month token matches none of
	// the supported date shapes. Callers treat it as a per-column warning.
	ErrUnrecognizedDateFormat = errors.New("unrecognized date format")

	// ErrMalformedAmount is returned for cells that cannot be read as a
	// monetary value. Aggregation treats these as zero.
	ErrMalformedAmount = errors.New("malformed monetary value")
)

type (
	// Grid is one workbook sheet as a row-major matrix of raw cell text.
	// Empty string means an empty cell. Grids are read-only once loaded.
	Grid [][]string

	// MonthFigures holds the plan-vs-actual figures for one budget line and
	// one month, rounded for output.
	MonthFigures struct {
		Planned    float64 `json:"planned"`
		Claims     float64 `json:"claims"`
		D365       float64 `json:"d365"`
		TotalSpent float64 `json:"total_spent"`
		Variance   float64 `json:"variance"`
	}

	// BudgetLine is one aggregated line item, identified by budget head and
	// vendor/role category. Months with no planned and no spent amounts are
	// omitted from MonthlyData; readers must treat an absent month as all-zero.
	BudgetLine struct {
		BudgetHead         string                  `json:"budget_head"`
		VendorRoleCategory string                  `json:"vendor_role_category"`
		CostHeads          []string                `json:"cost_heads"`
		TotalPlanned       float64                 `json:"total_planned"`
		TotalSpent         float64                 `json:"total_spent"`
		TotalVariance      float64                 `json:"total_variance"`
		MonthlyData        map[string]MonthFigures `json:"monthly_data"`
	}

	// CumulativeFigures are running sums across all months up to and
	// including the keyed month, in calendar order.
	CumulativeFigures struct {
		CumulativePlanned  float64 `json:"cumulative_planned"`
		CumulativeSpent    float64 `json:"cumulative_spent"`
		CumulativeVariance float64 `json:"cumulative_variance"`
	}

	GrandTotals struct {
		TotalPlanned  float64 `json:"total_planned"`
		TotalSpent    float64 `json:"total_spent"`
		TotalVariance float64 `json:"total_variance"`
	}

	// ProcessingMetadata records the settings a dataset was produced under.
	ProcessingMetadata struct {
		SparseStorage   bool   `json:"sparse_storage"`
		DecimalPlaces   int    `json:"decimal_places"`
		DateFormat      string `json:"date_format"`
		MonthsProcessed int    `json:"months_processed"`
	}

	// VarianceDataset is the complete output of one workbook run.
	VarianceDataset struct {
		BudgetLines    map[string]*BudgetLine       `json:"budget_lines"`
		MonthlyData    map[string]MonthFigures      `json:"monthly_data"`
		CumulativeData map[string]CumulativeFigures `json:"cumulative_data"`
		GrandTotals    GrandTotals                  `json:"grand_totals"`
		Metadata       ProcessingMetadata           `json:"processing_metadata"`
	}
)

// Cell returns the trimmed text at (row, col), or "" when the coordinate is
// outside the grid. Rows may be ragged; short rows read as empty cells.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int { return len(g) }

// Cols returns the widest row length, since loaders may produce ragged rows.
func (g Grid) Cols() int {
	max := 0
	for _, r := range g {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// LineKey builds the budget-line identity key. When no vendor/role category
// is available the key is the bare budget head.
func LineKey(budgetHead, vendorRole string) string {
	budgetHead = strings.TrimSpace(budgetHead)
	vendorRole = strings.TrimSpace(vendorRole)
	if vendorRole == "" {
		return budgetHead
	}
	return budgetHead + " - " + vendorRole
}
