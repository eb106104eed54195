// File: internal/services/engine/config.go
package engine

import (
	"fmt"
	"time"
)

type Config struct {
	// Embedding configuration
	EmbeddingKey     string
	EmbeddingBaseURL string
	EmbeddingModel   string

	// LLM configuration
	LLMKey     string
	LLMBaseURL string
	ChatModel  string

	// Retrieval configuration
	RetrievalTopK   int
	MaxCitations    int
	DocumentBaseURL string // fallback link prefix when a chunk carries no link

	// Performance configuration. Every engine call runs under this
	// deadline; expiry surfaces as an ErrTypeTimeout.
	Timeout        time.Duration
	HistoryTurns   int // prior turns forwarded for follow-up coherence
	Temperature    float32
	MaxAnswerChars int
}

func (c *Config) Validate() error {
	if c.ChatModel == "" {
		return fmt.Errorf("chat_model is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.RetrievalTopK <= 0 || c.RetrievalTopK > 20 {
		return fmt.Errorf("retrieval_top_k must be between 1 and 20")
	}
	if c.MaxCitations <= 0 {
		return fmt.Errorf("max_citations must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive and finite")
	}
	if c.HistoryTurns < 0 {
		return fmt.Errorf("history_turns cannot be negative")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "gpt-4o-mini",
		RetrievalTopK:  8,
		MaxCitations:   10,
		Timeout:        60 * time.Second,
		HistoryTurns:   6,
		Temperature:    0.1, // low for legal accuracy
		MaxAnswerChars: 20000,
	}
}
