// File: internal/services/store/errors.go
package store

import "fmt"

type ErrorType string

const (
	ErrTypeNotFound           ErrorType = "NOT_FOUND"
	ErrTypeStorageUnavailable ErrorType = "STORAGE_UNAVAILABLE"
	ErrTypeConsistency        ErrorType = "CONSISTENCY"
	ErrTypeInvalidInput       ErrorType = "INVALID_INPUT"
)

// StoreError classifies conversation storage failures by type.
type StoreError struct {
	Type           ErrorType
	Operation      string
	Message        string
	ConversationID uint
	UserID         uint
	Cause          error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("store %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// IsType reports whether err is a StoreError of the given type.
func IsType(err error, t ErrorType) bool {
	se, ok := err.(*StoreError)
	return ok && se.Type == t
}

func NewNotFoundError(operation string, userID, conversationID uint) *StoreError {
	return &StoreError{
		Type:           ErrTypeNotFound,
		Operation:      operation,
		Message:        "conversation not found or not owned by caller",
		UserID:         userID,
		ConversationID: conversationID,
	}
}

func NewStorageError(operation, msg string, cause error) *StoreError {
	return &StoreError{Type: ErrTypeStorageUnavailable, Operation: operation, Message: msg, Cause: cause}
}

func NewConsistencyError(operation string, conversationID uint, cause error) *StoreError {
	return &StoreError{
		Type:           ErrTypeConsistency,
		Operation:      operation,
		Message:        "cascade delete partially applied",
		ConversationID: conversationID,
		Cause:          cause,
	}
}

func NewInvalidInputError(operation, msg string) *StoreError {
	return &StoreError{Type: ErrTypeInvalidInput, Operation: operation, Message: msg}
}
