package respdecode

import (
	"github.com/raniellyferreira/respdecode/protocol"
)

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// Logger interface for custom logging implementations
type Logger interface {
	// Debug logs a debug message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info message with optional fields
	Info(msg string, fields ...Field)

	// Error logs an error message with optional fields
	Error(msg string, fields ...Field)
}

// MetricsCollector interface for metrics collection
type MetricsCollector interface {
	// RecordDecoded records a decoded top-level value and the bytes it used
	RecordDecoded(valueType protocol.ValueType, bytes int)

	// RecordError records a failed decode by error kind
	RecordError(kind string)
}
