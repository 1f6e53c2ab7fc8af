package engine

import (
	"errors"
	"testing"

	"ucvar/internal/core"
)

func TestDetectSchema(t *testing.T) {
	grid := core.Grid{
		{"S.No", "Budget Head", "Vendor/Role", "Cost Head", "Plan Apr-25", "Claims Apr-25", "D365 Apr-25", "Plan May-25", "Claims May-25", "Plan Total"},
		{"1", "Salary", "Project Manager", "Trainer 1", "0", "", "", "60000", "10000", "60000"},
	}

	schema, _, err := DetectSchema(grid, DefaultConfig())
	if err != nil {
		t.Fatalf("DetectSchema: %v", err)
	}

	if schema.BudgetHeadCol != 1 {
		t.Errorf("BudgetHeadCol = %d, want 1", schema.BudgetHeadCol)
	}
	if schema.VendorRoleCol != 2 {
		t.Errorf("VendorRoleCol = %d, want 2", schema.VendorRoleCol)
	}
	if schema.CostHeadCol != 3 {
		t.Errorf("CostHeadCol = %d, want 3", schema.CostHeadCol)
	}
	if schema.PlanTotalCol != 9 {
		t.Errorf("PlanTotalCol = %d, want 9", schema.PlanTotalCol)
	}
	if schema.DataStartRow != 1 {
		t.Errorf("DataStartRow = %d, want 1", schema.DataStartRow)
	}

	apr, ok := schema.Months["2025-04"]
	if !ok {
		t.Fatalf("month 2025-04 not detected; months = %v", schema.MonthKeys())
	}
	if apr.Plan != 4 || apr.Claims != 5 || apr.D365 != 6 {
		t.Errorf("2025-04 columns = {%d %d %d}, want {4 5 6}", apr.Plan, apr.Claims, apr.D365)
	}
	may, ok := schema.Months["2025-05"]
	if !ok {
		t.Fatalf("month 2025-05 not detected")
	}
	if may.Plan != 7 || may.Claims != 8 || may.D365 != -1 {
		t.Errorf("2025-05 columns = {%d %d %d}, want {7 8 -1}", may.Plan, may.Claims, may.D365)
	}
}

func TestDetectSchemaHeaderInAnyOfFirstRows(t *testing.T) {
	// Identity headers split across the first three rows must still bind.
	grid := core.Grid{
		{"Quarterly Utilization Certificate", "", "", ""},
		{"", "Budget", "", "Cost Head"},
		{"", "", "Plan Apr-25", ""},
		{"", "Salary", "50000", "Trainer 1"},
	}

	schema, _, err := DetectSchema(grid, DefaultConfig())
	if err != nil {
		t.Fatalf("DetectSchema: %v", err)
	}
	if schema.BudgetHeadCol != 1 {
		t.Errorf("BudgetHeadCol = %d, want 1", schema.BudgetHeadCol)
	}
	if schema.CostHeadCol != 3 {
		t.Errorf("CostHeadCol = %d, want 3", schema.CostHeadCol)
	}
	if mc := schema.Months["2025-04"]; mc.Plan != 2 {
		t.Errorf("2025-04 plan col = %d, want 2", mc.Plan)
	}
	if schema.DataStartRow != 3 {
		t.Errorf("DataStartRow = %d, want 3", schema.DataStartRow)
	}
}

func TestDetectSchemaMissingRoles(t *testing.T) {
	grid := core.Grid{
		{"Description", "Notes", "Amount"},
		{"something", "else", "100"},
	}

	_, _, err := DetectSchema(grid, DefaultConfig())
	var sre *SchemaResolutionError
	if !errors.As(err, &sre) {
		t.Fatalf("expected *SchemaResolutionError, got %v", err)
	}
	want := map[Role]bool{RoleBudgetHead: true, RoleCostHead: true, RoleMonthPlan: true}
	for _, r := range sre.Missing {
		if !want[r] {
			t.Errorf("unexpected missing role %q", r)
		}
		delete(want, r)
	}
	for r := range want {
		t.Errorf("role %q not reported as missing", r)
	}
}

func TestDetectSchemaAmbiguousColumns(t *testing.T) {
	// Two columns match budget-head keywords; the earliest must win and the
	// duplicate must surface as a diagnostic, not an error.
	grid := core.Grid{
		{"Budget Head", "Budget Head Code", "Cost Head", "Plan Apr-25"},
		{"Salary", "BH-01", "Trainer 1", "100"},
	}

	schema, diags, err := DetectSchema(grid, DefaultConfig())
	if err != nil {
		t.Fatalf("DetectSchema: %v", err)
	}
	if schema.BudgetHeadCol != 0 {
		t.Errorf("BudgetHeadCol = %d, want 0 (earliest match wins)", schema.BudgetHeadCol)
	}
	found := false
	for _, d := range diags {
		if d.Kind == DiagAmbiguousColumnMatch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an %s diagnostic, got %v", DiagAmbiguousColumnMatch, diags)
	}
}

func TestDetectSchemaPriorityCostHeadOverBudgetHead(t *testing.T) {
	// "Cost Head" contains the bare "head" keyword too; the more specific
	// cost-head binding must not be stolen by the budget-head role.
	grid := core.Grid{
		{"Budget", "Cost Head", "Plan Apr-25"},
		{"Salary", "Trainer 1", "100"},
	}

	schema, _, err := DetectSchema(grid, DefaultConfig())
	if err != nil {
		t.Fatalf("DetectSchema: %v", err)
	}
	if schema.BudgetHeadCol != 0 {
		t.Errorf("BudgetHeadCol = %d, want 0", schema.BudgetHeadCol)
	}
	if schema.CostHeadCol != 1 {
		t.Errorf("CostHeadCol = %d, want 1", schema.CostHeadCol)
	}
}

func TestDetectSchemaPlanTotalColumn(t *testing.T) {
	// A bare "Total" column could be a spend rollup; only a phrase that
	// names a plan binds as the plan-total column.
	grid := core.Grid{
		{"Budget Head", "Cost Head", "Plan Apr-25", "Total", "Total Plan"},
		{"Salary", "Trainer 1", "100", "100", "100"},
	}

	schema, _, err := DetectSchema(grid, DefaultConfig())
	if err != nil {
		t.Fatalf("DetectSchema: %v", err)
	}
	if schema.PlanTotalCol != 4 {
		t.Errorf("PlanTotalCol = %d, want 4 (bare Total skipped)", schema.PlanTotalCol)
	}
}

func TestCleanGrid(t *testing.T) {
	grid := core.Grid{
		{"", "", ""},
		{"Budget Head", "", "Plan Apr-25"},
		{"", "", ""},
		{"Salary", "", "100"},
	}
	cleaned := CleanGrid(grid)
	if cleaned.Rows() != 2 {
		t.Fatalf("rows = %d, want 2", cleaned.Rows())
	}
	if cleaned.Cols() != 2 {
		t.Fatalf("cols = %d, want 2 (empty column dropped)", cleaned.Cols())
	}
	if cleaned.Cell(1, 1) != "100" {
		t.Errorf("cell(1,1) = %q, want 100", cleaned.Cell(1, 1))
	}
}
