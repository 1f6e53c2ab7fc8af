package engine

import (
	"regexp"
	"sort"
	"strings"

	"ucvar/internal/core"
)

// monthTokenPattern decides whether a header cell is month-bearing. Cells
// that carry a month token belong to the month column groups and are never
// candidates for identity roles.
var monthTokenPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\b`)

// headerLabelRows are identity-cell values that mark a header row rather
// than data (serial-number style labels).
var headerLabelRows = map[string]bool{"s.no": true, "sr.no": true, "#": true, "sl.no": true}

type (
	// MonthColumns binds one canonical month to its sub-role columns.
	// An index of -1 means the sub-column is absent; its values read as zero.
	MonthColumns struct {
		Plan       int
		Claims     int
		D365       int
		RawHeaders []string
	}

	// Schema is the resolved column layout of one workbook sheet.
	Schema struct {
		BudgetHeadCol int
		VendorRoleCol int
		CostHeadCol   int
		PlanTotalCol  int
		DataStartRow  int
		Months        map[string]MonthColumns
	}
)

// MonthKeys returns the detected months in calendar order. The canonical
// YYYY-MM form makes the lexical sort chronological.
func (s *Schema) MonthKeys() []string {
	keys := make([]string, 0, len(s.Months))
	for k := range s.Months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DetectSchema scans the header rows and resolves every column role. It
// returns a fatal *SchemaResolutionError when a required role (budget head,
// an identity-forming vendor/role or cost head, or at least one month plan
// column) cannot be bound. All other anomalies are reported as diagnostics.
func DetectSchema(grid core.Grid, cfg Config) (*Schema, []Diagnostic, error) {
	var diags []Diagnostic

	schema := &Schema{
		BudgetHeadCol: -1,
		VendorRoleCol: -1,
		CostHeadCol:   -1,
		PlanTotalCol:  -1,
	}

	claimed := map[int]Role{}
	for role, col := range resolveIdentityColumns(grid, cfg, &diags) {
		claimed[col] = role
		switch role {
		case RoleBudgetHead:
			schema.BudgetHeadCol = col
		case RoleVendorRole:
			schema.VendorRoleCol = col
		case RoleCostHead:
			schema.CostHeadCol = col
		}
	}

	schema.PlanTotalCol = findPlanTotalColumn(grid, cfg, claimed)

	months, monthDiags := buildMonthMap(grid, cfg)
	diags = append(diags, monthDiags...)
	schema.Months = months

	if missing := missingRoles(schema); len(missing) > 0 {
		return nil, diags, &SchemaResolutionError{Missing: missing}
	}

	schema.DataStartRow = findDataStartRow(grid, cfg, schema)
	return schema, diags, nil
}

// resolveIdentityColumns assigns each header column to at most one
// identity-forming role. A column matching several keyword sets goes to the
// role with the longest matched keyword (most specific wins), ties broken by
// the configured priority order. When several columns end up on one role the
// earliest-indexed column is bound and the rest surface as ambiguous-match
// diagnostics.
func resolveIdentityColumns(grid core.Grid, cfg Config, diags *[]Diagnostic) map[Role]int {
	priority := cfg.identityPriority()

	type match struct {
		role  Role
		kwLen int
		row   int
	}
	best := map[int]match{}

	for _, row := range cfg.headerSearchRows() {
		if row >= grid.Rows() {
			continue
		}
		for col := 0; col < grid.Cols(); col++ {
			cell := strings.ToLower(grid.Cell(row, col))
			if cell == "" || monthTokenPattern.MatchString(cell) {
				continue
			}
			for rank, role := range priority {
				kwLen := longestKeyword(cell, cfg.keywordsFor(role))
				if kwLen == 0 {
					continue
				}
				cur, seen := best[col]
				if !seen || kwLen > cur.kwLen || (kwLen == cur.kwLen && rank < rankOf(priority, cur.role)) {
					best[col] = match{role: role, kwLen: kwLen, row: row}
				}
			}
		}
	}

	bound := map[Role]int{}
	for col := 0; col < grid.Cols(); col++ {
		m, ok := best[col]
		if !ok {
			continue
		}
		if _, taken := bound[m.role]; !taken {
			bound[m.role] = col
			continue
		}
		*diags = append(*diags, Diagnostic{
			Kind:   DiagAmbiguousColumnMatch,
			Row:    m.row,
			Col:    col,
			Value:  grid.Cell(m.row, col),
			Detail: "column also matches role " + string(m.role) + "; earliest-indexed column wins",
		})
	}
	return bound
}

// longestKeyword returns the length of the longest keyword contained in the
// cell text, or 0 when none match.
func longestKeyword(cell string, keywords []string) int {
	best := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || !strings.Contains(cell, kw) {
			continue
		}
		if len(kw) > best {
			best = len(kw)
		}
	}
	return best
}

func rankOf(priority []Role, role Role) int {
	for i, r := range priority {
		if r == role {
			return i
		}
	}
	return len(priority)
}

// findPlanTotalColumn locates the plan-total column by the configured
// phrase list. It is informational only; derived totals never read it.
func findPlanTotalColumn(grid core.Grid, cfg Config, claimed map[int]Role) int {
	for _, row := range cfg.headerSearchRows() {
		if row >= grid.Rows() {
			continue
		}
		for col := 0; col < grid.Cols(); col++ {
			if _, taken := claimed[col]; taken {
				continue
			}
			cell := strings.ToLower(grid.Cell(row, col))
			if cell == "" || monthTokenPattern.MatchString(cell) {
				continue
			}
			if longestKeyword(cell, cfg.keywordsFor(RolePlanTotal)) > 0 {
				return col
			}
		}
	}
	return -1
}

func missingRoles(s *Schema) []Role {
	var missing []Role
	if s.BudgetHeadCol < 0 {
		missing = append(missing, RoleBudgetHead)
	}
	if s.VendorRoleCol < 0 && s.CostHeadCol < 0 {
		missing = append(missing, RoleCostHead)
	}
	hasPlan := false
	for _, mc := range s.Months {
		if mc.Plan >= 0 {
			hasPlan = true
			break
		}
	}
	if !hasPlan {
		missing = append(missing, RoleMonthPlan)
	}
	return missing
}

// findDataStartRow walks down from the top of the grid for the first row
// whose identity cell reads as data. Header-shaped cells (serial-number
// labels, role keywords, non-numeric plan values) only disqualify a row
// inside the header search band; past the band a budget head is taken at
// face value, so real heads that happen to contain a keyword still count.
func findDataStartRow(grid core.Grid, cfg Config, schema *Schema) int {
	planCol := -1
	for _, key := range schema.MonthKeys() {
		if mc := schema.Months[key]; mc.Plan >= 0 {
			planCol = mc.Plan
			break
		}
	}

	lastHeaderRow := 0
	for _, r := range cfg.headerSearchRows() {
		if r > lastHeaderRow {
			lastHeaderRow = r
		}
	}

	for r := 0; r < grid.Rows(); r++ {
		id := grid.Cell(r, schema.BudgetHeadCol)
		if id == "" {
			continue
		}
		if r <= lastHeaderRow {
			lower := strings.ToLower(id)
			if headerLabelRows[lower] || containsAny(lower, cfg.BudgetHeadKeywords) {
				continue
			}
			if planCol >= 0 {
				if v := grid.Cell(r, planCol); v != "" {
					if _, err := core.ParseAmount(v); err != nil {
						continue
					}
				}
			}
		}
		return r
	}
	return lastHeaderRow + 1
}
