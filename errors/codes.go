package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Subscription errors
const (
	// ErrCodeFactoryFailed indicates a source factory panicked.
	ErrCodeFactoryFailed ErrorCode = "FACTORY_FAILED"
	// ErrCodeNormalization indicates a value could not be turned into a producer.
	ErrCodeNormalization ErrorCode = "NORMALIZATION_FAILED"
	// ErrCodeCancelled indicates work was abandoned because every subscriber left.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates a configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Internal errors
const (
	// ErrCodeInternal indicates a panic or other unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeFactoryFailed: true,
	ErrCodeCancelled:     false,
	ErrCodeNormalization: false,
	ErrCodeInvalidConfig: false,
	ErrCodeInternal:      false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
