// File: internal/services/retrieval/errors.go
package retrieval

import "fmt"

const (
	ErrTypeConfig     = "config"
	ErrTypeConnection = "connection"
	ErrTypeOperation  = "operation"
	ErrTypeTimeout    = "timeout"
	ErrTypeRetry      = "retry"
)

// RetrievalError represents a case-law index failure.
type RetrievalError struct {
	Type    string
	Message string
	Err     error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("retrieval %s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("retrieval %s error: %s", e.Type, e.Message)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

func NewConfigError(message string) *RetrievalError {
	return &RetrievalError{Type: ErrTypeConfig, Message: message}
}

func NewConnectionError(message string, err error) *RetrievalError {
	return &RetrievalError{Type: ErrTypeConnection, Message: message, Err: err}
}

func NewOperationError(message string, err error) *RetrievalError {
	return &RetrievalError{Type: ErrTypeOperation, Message: message, Err: err}
}

func NewTimeoutError(message string, err error) *RetrievalError {
	return &RetrievalError{Type: ErrTypeTimeout, Message: message, Err: err}
}

func NewRetryError(message string, err error) *RetrievalError {
	return &RetrievalError{Type: ErrTypeRetry, Message: message, Err: err}
}
