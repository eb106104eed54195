// File: internal/services/engine/stub.go
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/lexisg/go-lexi/internal/domain"
)

// StubProvider is a deterministic engine behind the real contract, for
// local development without API keys and for exercising callers in tests.
// Nothing outside this type may depend on its canned content.
type StubProvider struct {
	Answer  Answer
	Latency time.Duration
	Err     error
}

func NewStubProvider() *StubProvider {
	return &StubProvider{
		Answer: Answer{
			Text: "No answer engine is configured. Set the engine API keys to receive researched answers.",
		},
	}
}

func (s *StubProvider) Ask(ctx context.Context, question string, history []domain.Message) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, NewValidationError("ask", "question cannot be empty")
	}

	if s.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, WrapCallError("ask", ctx.Err())
		case <-time.After(s.Latency):
		}
	}

	if s.Err != nil {
		return nil, s.Err
	}

	answer := s.Answer
	citations := make([]domain.Citation, len(s.Answer.Citations))
	copy(citations, s.Answer.Citations)
	answer.Citations = citations
	return &answer, nil
}

func (s *StubProvider) HealthCheck(ctx context.Context) error {
	return nil
}
