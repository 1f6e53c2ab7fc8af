package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldOperation    = "operation"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
	FieldRunID        = "run_id"
	FieldSource       = "source"
	FieldFile         = "file"
	FieldSheet        = "sheet"
	FieldRows         = "rows"
	FieldCols         = "cols"
	FieldBudgetLines  = "budget_lines"
	FieldMonthsSeen   = "months_seen"
	FieldMonthsStored = "months_stored"
	FieldDiagnostics  = "diagnostics"
	FieldOutputPath   = "output_path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentAMQP    = "amqp"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpRead      = "read"
	OpAggregate = "aggregate"
	OpPersist   = "persist"
	OpPublish   = "publish"
	OpShutdown  = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithRun adds run identification fields
func (f LogFields) WithRun(runID, source, sheet string) LogFields {
	f[FieldRunID] = runID
	f[FieldSource] = source
	f[FieldSheet] = sheet
	return f
}

// WithDataset adds dataset summary fields
func (f LogFields) WithDataset(budgetLines, monthsSeen, monthsStored int) LogFields {
	f[FieldBudgetLines] = budgetLines
	f[FieldMonthsSeen] = monthsSeen
	f[FieldMonthsStored] = monthsStored
	return f
}

// Args flattens the fields into alternating key/value slog arguments
func (f LogFields) Args() []any {
	args := make([]any, 0, len(f)*2)
	for k, v := range f {
		args = append(args, k, v)
	}
	return args
}
