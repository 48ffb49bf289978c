// Package errors provides the structured error type used across gorx.
//
// Every error raised by the engine itself (as opposed to errors emitted by
// user producers, which are forwarded verbatim) is an *AppError carrying a
// machine-readable code, a retryable flag and optional details. Use
// HasCode to branch on the failure kind:
//
//	if errors.HasCode(err, errors.ErrCodeNormalization) {
//	    // the factory returned something that is not a producer input
//	}
package errors
