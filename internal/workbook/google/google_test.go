package google

import (
	"context"
	"testing"
)

func TestValuesToGrid(t *testing.T) {
	values := [][]interface{}{
		{"Budget Head", "Plan Apr-25"},
		{"Salary", 60000},
		{"Travel", 5000.5},
	}
	grid := valuesToGrid(values)
	if grid.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", grid.Rows())
	}
	if got := grid.Cell(1, 1); got != "60000" {
		t.Errorf("int cell = %q, want 60000", got)
	}
	if got := grid.Cell(2, 1); got != "5000.5" {
		t.Errorf("float cell = %q, want 5000.5", got)
	}
}

func TestNewRejectsMissingConfig(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"missing spreadsheet id", Options{CredentialsJSON: "{}"}},
		{"missing credentials", Options{SpreadsheetID: "abc123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.opts); err == nil {
				t.Errorf("New() expected error for %s", tt.name)
			}
		})
	}
}

func TestResolveCredentialsPrecedence(t *testing.T) {
	creds, err := resolveCredentials(Options{
		CredentialsJSON: `{"type":"service_account"}`,
		CredentialsFile: "/nonexistent/creds.json",
	})
	if err != nil {
		t.Fatalf("resolveCredentials: %v", err)
	}
	if string(creds) != `{"type":"service_account"}` {
		t.Errorf("inline JSON must win over the file path")
	}
}
