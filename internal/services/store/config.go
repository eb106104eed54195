// File: internal/services/store/config.go
package store

import (
	"fmt"
	"time"
)

type Config struct {
	// Cascade delete behavior
	DeleteMaxRetries int
	DeleteRetryDelay time.Duration

	// Title derivation
	TitleMaxLength int

	// Growth limits
	MaxConversationsPerUser    int
	MaxMessagesPerConversation int
}

func (c *Config) Validate() error {
	if c.DeleteMaxRetries < 1 {
		return fmt.Errorf("delete_max_retries must be at least 1")
	}
	if c.DeleteRetryDelay < 0 {
		return fmt.Errorf("delete_retry_delay cannot be negative")
	}
	if c.TitleMaxLength <= 0 {
		return fmt.Errorf("title_max_length must be positive")
	}
	if c.MaxConversationsPerUser <= 0 {
		return fmt.Errorf("max_conversations_per_user must be positive")
	}
	if c.MaxMessagesPerConversation <= 0 {
		return fmt.Errorf("max_messages_per_conversation must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		DeleteMaxRetries: 3,
		DeleteRetryDelay: 200 * time.Millisecond,
		TitleMaxLength:   80,

		MaxConversationsPerUser:    500,
		MaxMessagesPerConversation: 2000,
	}
}
