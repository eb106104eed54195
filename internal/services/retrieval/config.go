// File: internal/services/retrieval/config.go
package retrieval

import (
	"errors"
	"time"
)

type Config struct {
	// Connection settings
	APIKey    string // Pinecone API key
	IndexHost string // Pinecone index host
	Namespace string // Namespace holding the case-law chunks

	// Operation settings
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("pinecone API key is required")
	}
	if c.IndexHost == "" {
		return errors.New("pinecone index host is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	return nil
}
