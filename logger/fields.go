package logger

import (
	"time"

	"github.com/kbukum/gorx/errors"
)

// Field keys shared by every gorx log line.
const (
	FieldComponent      = "component"
	FieldTraceID        = "trace_id"
	FieldSpanID         = "span_id"
	FieldStream         = "stream"
	FieldSubscriptionID = "subscription_id"
	FieldOutcome        = "outcome"
	FieldValues         = "values"
	FieldAttempt        = "attempt"
	FieldError          = "error"
	FieldErrorCode      = "error_code"
	FieldDuration       = "duration_ms"
)

// Fields builds a field map from alternating key-value pairs. Non-string
// keys and a trailing key without a value are skipped.
//
//	log.Info("retrying", logger.Fields(logger.FieldAttempt, 2))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// SubscriptionFields identifies one subscription to a named stream.
func SubscriptionFields(stream, subscriptionID string) map[string]interface{} {
	return map[string]interface{}{
		FieldStream:         stream,
		FieldSubscriptionID: subscriptionID,
	}
}

// OutcomeFields describes how a subscription ended: its outcome, how many
// values it delivered and how long it lasted. A non-nil err adds the error
// text and its code, "unknown" for errors that carry none.
func OutcomeFields(outcome string, values int64, d time.Duration, err error) map[string]interface{} {
	m := map[string]interface{}{
		FieldOutcome:  outcome,
		FieldValues:   values,
		FieldDuration: d.Milliseconds(),
	}
	if err != nil {
		m[FieldError] = err.Error()
		m[FieldErrorCode] = ErrorCode(err)
	}
	return m
}

// ErrorCode returns the AppError code carried by err, or "unknown".
func ErrorCode(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "unknown"
}
