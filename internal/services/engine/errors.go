// File: internal/services/engine/errors.go
package engine

import (
	"context"
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig      ErrorType = "CONFIG"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeUnavailable ErrorType = "UNAVAILABLE"
	ErrTypeTimeout     ErrorType = "TIMEOUT"
)

// EngineError carries the answer-engine failure taxonomy. UNAVAILABLE and
// TIMEOUT are both recoverable: the caller may resubmit the same question.
type EngineError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("engine %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

func NewConfigError(msg string) *EngineError {
	return &EngineError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewValidationError(operation, msg string) *EngineError {
	return &EngineError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewUnavailableError(operation, msg string, cause error) *EngineError {
	return &EngineError{Type: ErrTypeUnavailable, Operation: operation, Message: msg, Cause: cause}
}

func NewTimeoutError(operation string, cause error) *EngineError {
	return &EngineError{Type: ErrTypeTimeout, Operation: operation, Message: "engine call timed out", Cause: cause}
}

// WrapCallError classifies a failed engine call: deadline expiry becomes
// TIMEOUT, everything else UNAVAILABLE.
func WrapCallError(operation string, err error) *EngineError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(operation, err)
	}
	return NewUnavailableError(operation, "engine call failed", err)
}

// IsRecoverable reports whether the user may simply resubmit.
func IsRecoverable(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Type == ErrTypeUnavailable || ee.Type == ErrTypeTimeout
	}
	return false
}
