package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ucvar/internal/core"
)

func TestStoreDefaultSheet(t *testing.T) {
	s := New()
	s.Put("UC FY25", core.Grid{{"Budget Head"}, {"Salary"}})
	s.Put("Notes", core.Grid{{"irrelevant"}})

	grid, err := s.ReadGrid(context.Background(), "")
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if grid.Cell(1, 0) != "Salary" {
		t.Errorf("default sheet read = %q, want first stored sheet", grid.Cell(1, 0))
	}

	if _, err := s.ReadGrid(context.Background(), "missing"); err == nil {
		t.Errorf("expected error for unknown sheet")
	}
}

func TestNewFromCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uc_fy25.csv")
	data := "Budget Head,Cost Head,Plan Apr-25\nSalary,Trainer 1,60000\nTravel,\"Field, visits\",5000\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFromCSV(path)
	if err != nil {
		t.Fatalf("NewFromCSV: %v", err)
	}

	grid, err := s.ReadGrid(context.Background(), "uc_fy25")
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if grid.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", grid.Rows())
	}
	if got := grid.Cell(2, 1); got != "Field, visits" {
		t.Errorf("quoted cell = %q, want comma preserved", got)
	}

	sheets, err := s.ListSheets(context.Background())
	if err != nil || len(sheets) != 1 || sheets[0] != "uc_fy25" {
		t.Errorf("ListSheets = %v, %v; want [uc_fy25]", sheets, err)
	}
}

func TestNewFromCSVRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragged.csv")
	if err := os.WriteFile(path, []byte("a,b,c\nd\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFromCSV(path)
	if err != nil {
		t.Fatalf("NewFromCSV: %v", err)
	}
	grid, err := s.ReadGrid(context.Background(), "")
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	// Short rows read as empty cells past their end.
	if got := grid.Cell(1, 2); got != "" {
		t.Errorf("cell past row end = %q, want empty", got)
	}
}
