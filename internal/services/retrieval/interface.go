// File: internal/services/retrieval/interface.go
package retrieval

import (
	"context"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// Provider handles similarity search against the case-law index.
type Provider interface {
	QuerySimilar(ctx context.Context, embedding []float32, topK int) ([]*pinecone.ScoredVector, error)
	HealthCheck(ctx context.Context) error
}

// Logger interface for retrieval operations.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
