// File: internal/services/engine/interface.go
package engine

import (
	"context"

	"github.com/lexisg/go-lexi/internal/domain"
)

// Answer is the engine's response to one legal question: a complete answer
// plus zero or more citations into the source documents.
type Answer struct {
	Text      string
	Citations []domain.Citation
}

// Provider is the answer-engine boundary. Implementations may be slow and
// may fail; callers own the pending state and must treat failures as
// recoverable. The conversation history is passed for follow-up coherence;
// how it is used is the engine's concern.
type Provider interface {
	Ask(ctx context.Context, question string, history []domain.Message) (*Answer, error)
	HealthCheck(ctx context.Context) error
}

// Logger interface used across the engine.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
