// File: internal/services/session/errors.go
package session

import "errors"

var (
	// ErrEmptyQuestion rejects blank input before anything is persisted.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrAskInFlight rejects a second submission while a conversation is
	// awaiting an answer. The submission is a no-op, never queued.
	ErrAskInFlight = errors.New("an answer is already being generated for this conversation")

	// ErrSuperseded marks an engine result that resolved after its request
	// was discarded; the result is dropped, nothing is appended.
	ErrSuperseded = errors.New("answer superseded; result discarded")
)
