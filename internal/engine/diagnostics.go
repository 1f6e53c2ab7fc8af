package engine

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a recoverable anomaly found while processing.
type DiagnosticKind string

const (
	DiagUnrecognizedDateFormat DiagnosticKind = "unrecognized_date_format"
	DiagMalformedCellValue     DiagnosticKind = "malformed_cell_value"
	DiagAmbiguousColumnMatch   DiagnosticKind = "ambiguous_column_match"
)

// Diagnostic records one recoverable anomaly. Diagnostics are collected and
// returned to the caller as a list; they never interrupt a run.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Row    int            `json:"row"`
	Col    int            `json:"col"`
	Value  string         `json:"value,omitempty"`
	Detail string         `json:"detail"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at (%d,%d): %s", d.Kind, d.Row, d.Col, d.Detail)
}

// SchemaResolutionError is the only fatal processing error: one or more
// required column roles could not be resolved from the header rows.
type SchemaResolutionError struct {
	Missing []Role
}

func (e *SchemaResolutionError) Error() string {
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = string(r)
	}
	return "schema resolution failed: missing required columns: " + strings.Join(names, ", ")
}
