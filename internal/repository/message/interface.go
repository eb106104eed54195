// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/lexisg/go-lexi/internal/domain"
)

// MessageRepository handles message and citation data operations. Citations
// are persisted with their owning message and never independently.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error)
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
	CountByConversationIDAndType(ctx context.Context, conversationID uint, messageType string) (int64, error)
	DeleteByConversationID(ctx context.Context, conversationID uint) error
}
