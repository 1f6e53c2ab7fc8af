package log

import (
	"errors"
	"testing"
)

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithComponent(ComponentAMQP).
		WithOperation(OpPublish).
		WithRun("run-1", "xlsx", "UC FY25").
		WithDataset(4, 7, 5).
		WithError(errors.New("broker down"))

	want := map[string]any{
		FieldComponent:    ComponentAMQP,
		FieldOperation:    OpPublish,
		FieldRunID:        "run-1",
		FieldSource:       "xlsx",
		FieldSheet:        "UC FY25",
		FieldBudgetLines:  4,
		FieldMonthsSeen:   7,
		FieldMonthsStored: 5,
		FieldError:        "broker down",
	}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %d entries", fields, len(want))
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %v, want %v", k, fields[k], v)
		}
	}
}

func TestLogFieldsArgs(t *testing.T) {
	fields := NewFields().WithRun("run-2", "csv", "Sheet1")
	args := fields.Args()

	if len(args) != len(fields)*2 {
		t.Fatalf("Args() length = %d, want %d", len(args), len(fields)*2)
	}
	seen := map[string]any{}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			t.Fatalf("arg key %v is not a string", args[i])
		}
		seen[key] = args[i+1]
	}
	if seen[FieldRunID] != "run-2" || seen[FieldSource] != "csv" || seen[FieldSheet] != "Sheet1" {
		t.Errorf("Args() round trip = %v", seen)
	}
}

func TestLogFieldsWithNilError(t *testing.T) {
	fields := NewFields().WithError(nil)
	if _, ok := fields[FieldError]; ok {
		t.Errorf("nil error must not add a field, got %v", fields)
	}
}
