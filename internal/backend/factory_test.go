package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSourceTypeIsValid(t *testing.T) {
	tests := []struct {
		t     SourceType
		valid bool
	}{
		{XLSXSource, true},
		{SheetsSource, true},
		{CSVSource, true},
		{SourceType("memory"), false},
		{SourceType(""), false},
	}
	for _, tt := range tests {
		if got := tt.t.IsValid(); got != tt.valid {
			t.Errorf("IsValid(%q) = %v, want %v", tt.t, got, tt.valid)
		}
	}
}

func TestCreateSourceErrors(t *testing.T) {
	factory := NewFactory(nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
	}{
		{"invalid type", Config{Type: "pdf"}},
		{"xlsx without path", Config{Type: XLSXSource}},
		{"csv without path", Config{Type: CSVSource}},
		{"sheets without spreadsheet id", Config{Type: SheetsSource}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := factory.CreateSource(ctx, tt.config); err == nil {
				t.Errorf("CreateSource(%+v) expected error", tt.config)
			}
		})
	}
}

func TestCreateCSVSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uc.csv")
	if err := os.WriteFile(path, []byte("Budget Head,Plan Apr-25\nSalary,60000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateSource(context.Background(), Config{
		Type:     CSVSource,
		FilePath: path,
	})
	if err != nil {
		t.Fatalf("CreateSource: %v", err)
	}

	grid, err := res.Source.ReadGrid(context.Background(), "")
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if grid.Cell(1, 0) != "Salary" {
		t.Errorf("cell = %q, want Salary", grid.Cell(1, 0))
	}
}
