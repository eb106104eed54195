// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lexisg/go-lexi/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create persists a message together with its citations in one transaction.
// Citation positions are assigned from slice order so retrieval preserves
// the order the engine produced them in.
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	for i := range message.Citations {
		message.Citations[i].Position = i
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(message).Error
	})
	if err != nil {
		log.Printf("[MessageRepository] Database error during message creation for conversation ID %d: %v", message.ConversationID, err)
		return nil, errors.New("database error creating message")
	}

	log.Printf("[MessageRepository] Message created with ID: %d for conversation: %d", message.ID, message.ConversationID)
	return message, nil
}

// FindByConversationID returns all messages in append order with citations
// preloaded in their stored position order.
func (r *gormMessageRepository) FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Preload("Citations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for conversation ID %d: %v", conversationID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

func (r *gormMessageRepository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	if conversationID == 0 {
		return 0, errors.New("invalid conversation ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for conversation ID %d: %v", conversationID, err)
		return 0, errors.New("database error counting messages")
	}

	return count, nil
}

func (r *gormMessageRepository) CountByConversationIDAndType(ctx context.Context, conversationID uint, messageType string) (int64, error) {
	if conversationID == 0 {
		return 0, errors.New("invalid conversation ID")
	}
	if err := r.validateMessageType(messageType); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id = ? AND message_type = ?", conversationID, messageType).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting %s messages for conversation ID %d: %v", messageType, conversationID, err)
		return 0, errors.New("database error counting messages by type")
	}

	return count, nil
}

// DeleteByConversationID removes every message owned by the conversation
// together with its citations, in one transaction. Deleting an already-empty
// conversation is a success, which keeps the cascade retryable.
func (r *gormMessageRepository) DeleteByConversationID(ctx context.Context, conversationID uint) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		messageIDs := tx.Model(&domain.Message{}).
			Select("id").
			Where("conversation_id = ?", conversationID)

		if err := tx.Where("message_id IN (?)", messageIDs).Delete(&domain.Citation{}).Error; err != nil {
			return err
		}
		return tx.Where("conversation_id = ?", conversationID).Delete(&domain.Message{}).Error
	})

	if err != nil {
		log.Printf("[MessageRepository] Database error deleting messages for conversation ID %d: %v", conversationID, err)
		return errors.New("database error deleting messages by conversation ID")
	}

	log.Printf("[MessageRepository] Deleted messages for conversation %d", conversationID)
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ConversationID == 0 {
		return errors.New("conversation ID is required")
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	if len(message.Content) > 20000 {
		return errors.New("message content too long (max 20000 characters)")
	}
	if err := r.validateMessageType(message.MessageType); err != nil {
		return fmt.Errorf("message type validation: %w", err)
	}
	if message.MessageType != domain.MessageTypeAssistant && len(message.Citations) > 0 {
		return errors.New("only assistant messages may carry citations")
	}
	for i := range message.Citations {
		if err := message.Citations[i].Validate(); err != nil {
			return fmt.Errorf("citation %d validation: %w", i, err)
		}
	}
	return nil
}

func (r *gormMessageRepository) validateMessageType(messageType string) error {
	switch messageType {
	case domain.MessageTypeUser, domain.MessageTypeAssistant:
		return nil
	}
	return errors.New("invalid message type")
}
