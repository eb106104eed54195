// File: internal/domain/message.go
package domain

import "time"

const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
)

// Message represents a single turn within a conversation. A message is
// created once, when a turn completes, and never mutated afterwards.
type Message struct {
	ID             uint       `json:"id" gorm:"primarykey"`
	ConversationID uint       `json:"conversation_id" gorm:"not null;index"`
	MessageType    string     `json:"role" gorm:"not null"` // "user" or "assistant"
	Content        string     `json:"content" gorm:"not null"`
	Citations      []Citation `json:"citations,omitempty" gorm:"foreignKey:MessageID"`
	CreatedAt      time.Time  `json:"timestamp"`
}

// IsAssistant reports whether this turn was produced by the answer engine.
func (m *Message) IsAssistant() bool {
	return m.MessageType == MessageTypeAssistant
}
