package logger

import "time"

// Field keys shared by the client, the CLI and the instrumenting middleware.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldRemaining = "rate_limit_remaining"
)

// Fields builds a field map from alternating key-value pairs. Pairs with a
// non-string key are dropped.
//
//	log.Info("uploaded", logger.Fields("media_id", id, "bytes", n))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// MergeWithDuration sets the duration field on fields, allocating the map
// when it is nil.
func MergeWithDuration(fields map[string]any, d time.Duration) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
