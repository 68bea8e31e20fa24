package logger

// Log level string values.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log format string values.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Attribute keys.
const (
	AttrInvocationID = "invocation_id"
	AttrService      = "service"
	AttrVersion      = "version"
)

// ServiceName is attached to every record.
const ServiceName = "dicehook"
