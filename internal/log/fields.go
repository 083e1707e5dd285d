package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserID      = "user_id"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldAmountCents = "amount_cents"
	FieldTxType      = "transaction_type"
	FieldCategoryID  = "category_id"
	FieldMonths      = "months"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentAuth     = "auth"
	ComponentLedger   = "ledger"
	ComponentBudget   = "budget"
	ComponentPlanned  = "planned"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentExport   = "export"
	ComponentSecurity = "security"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpProject  = "project"
	OpMarkPaid = "mark_paid"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
