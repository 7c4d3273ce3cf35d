package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldSource    = "source"
	FieldRequestID = "request_id"
	FieldReportID  = "report_id"
	FieldItems     = "items"
	FieldMonths    = "months"
	FieldPeriods   = "periods"
	FieldAverage   = "average"
	FieldDuration  = "duration_ms"
	FieldQueue     = "queue"
	FieldExchange  = "exchange"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentStats  = "stats"
	ComponentWorker = "worker"
)

// Operations defines standard operation names
const (
	OpCompute  = "compute"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSource adds the dataset source field
func (f LogFields) WithSource(source string) LogFields {
	f[FieldSource] = source
	return f
}

// WithReport adds the summary of a computed report
func (f LogFields) WithReport(items, months, periods int, average int64) LogFields {
	f[FieldItems] = items
	f[FieldMonths] = months
	f[FieldPeriods] = periods
	f[FieldAverage] = average
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
