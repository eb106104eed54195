// File: internal/repository/conversation/interface.go
package conversation

import (
	"context"

	"github.com/lexisg/go-lexi/internal/domain"
)

// ConversationRepository handles conversation data operations.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error)
	Delete(ctx context.Context, conversationID, userID uint) error
	TouchUpdatedAt(ctx context.Context, conversationID uint) error
	UpdateTitle(ctx context.Context, conversationID uint, title string, custom bool) error
	ExistsByIDAndUserID(ctx context.Context, conversationID, userID uint) (bool, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}
