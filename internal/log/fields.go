package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldKey         = "key"
	FieldExpenseID   = "expense_id"
	FieldExpenseName = "expense_name"
	FieldAmount      = "amount"
	FieldRate        = "dollar_rate"
	FieldTaskID      = "task_id"
	FieldPriority    = "priority"
	FieldMonth       = "month"
	FieldSummaryID   = "summary_id"
	FieldCount       = "count"
	FieldStale       = "stale"
	FieldURL         = "url"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldTheme       = "theme"
	FieldBackend     = "backend"
	FieldPath        = "path"
	FieldCommand     = "command"
	FieldInvocation  = "invocation_id"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentRates    = "rates"
	ComponentTheme    = "theme"
	ComponentBackend  = "backend"
	ComponentCommands = "commands"
)

// Operations defines standard operation names
const (
	OpLoad        = "load"
	OpAddExpense  = "add_expense"
	OpDelExpense  = "delete_expense"
	OpAddTodo     = "add_todo"
	OpToggleTodo  = "toggle_todo"
	OpDelTodo     = "delete_todo"
	OpSetSalary   = "set_salary"
	OpCloseMonth  = "close_month"
	OpFetchRate   = "fetch_rate"
	OpToggleTheme = "toggle_theme"
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

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id, name, amount, rate string) LogFields {
	f[FieldExpenseID] = id
	f[FieldExpenseName] = name
	f[FieldAmount] = amount
	f[FieldRate] = rate
	return f
}

// WithTask adds task-related fields
func (f LogFields) WithTask(id, priority string) LogFields {
	f[FieldTaskID] = id
	f[FieldPriority] = priority
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
