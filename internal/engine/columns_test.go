package engine

import (
	"testing"

	"ucvar/internal/core"
)

func TestBuildMonthMapMergesDuplicateSpellings(t *testing.T) {
	// "Apr-25" and "April 2025" are the same month and must share one entry.
	grid := core.Grid{
		{"Plan Apr-25", "Claims April 2025", "D365 Apr-25"},
	}

	months, diags := buildMonthMap(grid, DefaultConfig())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(months) != 1 {
		t.Fatalf("got %d month entries, want 1 (duplicates merged): %v", len(months), months)
	}
	mc, ok := months["2025-04"]
	if !ok {
		t.Fatalf("expected key 2025-04, got %v", months)
	}
	if mc.Plan != 0 || mc.Claims != 1 || mc.D365 != 2 {
		t.Errorf("columns = {%d %d %d}, want {0 1 2}", mc.Plan, mc.Claims, mc.D365)
	}
	if len(mc.RawHeaders) != 3 {
		t.Errorf("raw headers = %v, want all three spellings retained", mc.RawHeaders)
	}
}

func TestBuildMonthMapPlanOnlyMonth(t *testing.T) {
	grid := core.Grid{
		{"Plan Jun-25"},
	}
	months, _ := buildMonthMap(grid, DefaultConfig())
	mc, ok := months["2025-06"]
	if !ok {
		t.Fatalf("expected 2025-06, got %v", months)
	}
	if mc.Plan != 0 {
		t.Errorf("plan col = %d, want 0", mc.Plan)
	}
	if mc.Claims != -1 || mc.D365 != -1 {
		t.Errorf("claims/d365 = %d/%d, want -1/-1 (present-but-zero)", mc.Claims, mc.D365)
	}
}

func TestBuildMonthMapUnrecognizedDate(t *testing.T) {
	// Month-like text that cannot be normalized is excluded with a warning,
	// never a failure.
	grid := core.Grid{
		{"Plan Apr-25", "Planned for March sometime"},
	}
	months, diags := buildMonthMap(grid, DefaultConfig())
	if _, ok := months["2025-04"]; !ok {
		t.Fatalf("valid month lost: %v", months)
	}
	found := false
	for _, d := range diags {
		if d.Kind == DiagUnrecognizedDateFormat && d.Col == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s diagnostic for col 1, got %v", DiagUnrecognizedDateFormat, diags)
	}
}

func TestBuildMonthMapDuplicateRoleColumn(t *testing.T) {
	grid := core.Grid{
		{"Plan Apr-25", "Planned Apr-25"},
	}
	months, diags := buildMonthMap(grid, DefaultConfig())
	mc := months["2025-04"]
	if mc.Plan != 0 {
		t.Errorf("plan col = %d, want 0 (earliest wins)", mc.Plan)
	}
	found := false
	for _, d := range diags {
		if d.Kind == DiagAmbiguousColumnMatch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s diagnostic, got %v", DiagAmbiguousColumnMatch, diags)
	}
}

func TestBuildMonthMapStopsAfterFirstHeaderBand(t *testing.T) {
	// A second row of month labels must not rebind the columns.
	grid := core.Grid{
		{"Plan Apr-25", "Claims Apr-25"},
		{"Plan Apr-25 (revised)", ""},
	}
	months, _ := buildMonthMap(grid, DefaultConfig())
	mc := months["2025-04"]
	if mc.Plan != 0 || mc.Claims != 1 {
		t.Errorf("columns = {%d %d}, want {0 1}", mc.Plan, mc.Claims)
	}
	if len(mc.RawHeaders) != 2 {
		t.Errorf("raw headers = %v, want only first band", mc.RawHeaders)
	}
}
