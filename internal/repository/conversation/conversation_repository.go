// File: internal/repository/conversation/conversation_repository.go
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lexisg/go-lexi/internal/domain"
	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")
var ErrUnauthorizedAccess = errors.New("unauthorized access to conversation")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

// Create persists a new conversation after validating its input.
func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if err := r.validateConversationInput(conv); err != nil {
		log.Printf("[ConversationRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(conv).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error during creation for user ID %d: %v", conv.UserID, err)
		return nil, errors.New("database error creating conversation")
	}

	log.Printf("[ConversationRepository] Conversation created with ID: %d for user: %d", conv.ID, conv.UserID)
	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	if id == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	return r.handleFindError(err, &conv, "FindByID")
}

// FindByUserID returns the owner's conversations, most recently active first.
func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&convs).Error

	if err != nil {
		log.Printf("[ConversationRepository] Database error finding conversations for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}

	return convs, nil
}

// Delete removes the conversation record. Zero rows affected means the
// record is already gone or not owned by the caller.
func (r *gormConversationRepository) Delete(ctx context.Context, conversationID, userID uint) error {
	if conversationID == 0 || userID == 0 {
		return errors.New("invalid conversation ID or user ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", conversationID, userID).
		Delete(&domain.Conversation{})

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error deleting conversation ID %d for user ID %d: %v", conversationID, userID, result.Error)
		return errors.New("database error deleting conversation")
	}

	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}

	log.Printf("[ConversationRepository] Conversation deleted: ID %d for user %d", conversationID, userID)
	return nil
}

func (r *gormConversationRepository) TouchUpdatedAt(ctx context.Context, conversationID uint) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}

	// Written as a Go time so it serializes the same way Create does;
	// sqlite compares the stored strings lexically when ordering.
	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Update("updated_at", time.Now())

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error updating timestamp for conversation ID %d: %v", conversationID, result.Error)
		return errors.New("database error updating conversation timestamp")
	}

	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// UpdateTitle sets the conversation title. A custom title records the user
// rename so later auto-derivation never overwrites it.
func (r *gormConversationRepository) UpdateTitle(ctx context.Context, conversationID uint, title string, custom bool) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}
	if err := r.validateTitle(title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{"title": title, "title_custom": custom})

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error updating title for conversation ID %d: %v", conversationID, result.Error)
		return errors.New("database error updating conversation title")
	}

	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// ExistsByIDAndUserID checks ownership without exposing record data.
func (r *gormConversationRepository) ExistsByIDAndUserID(ctx context.Context, conversationID, userID uint) (bool, error) {
	if conversationID == 0 || userID == 0 {
		return false, errors.New("invalid conversation ID or user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Conversation{}).
		Where("id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error checking ownership for conversation ID %d, user ID %d: %v", conversationID, userID, err)
		return false, errors.New("database error checking conversation ownership")
	}

	return count > 0, nil
}

func (r *gormConversationRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Conversation{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error counting conversations for user ID %d: %v", userID, err)
		return 0, errors.New("database error counting user conversations")
	}

	return count, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormConversationRepository) validateConversationInput(conv *domain.Conversation) error {
	if conv == nil {
		return errors.New("conversation cannot be nil")
	}
	if conv.UserID == 0 {
		return errors.New("user ID is required")
	}
	if err := r.validateTitle(conv.Title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}
	return nil
}

func (r *gormConversationRepository) validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title cannot be empty")
	}
	if len(title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	return nil
}

// handleFindError maps record-not-found to the package sentinel and keeps
// raw database errors out of responses.
func (r *gormConversationRepository) handleFindError(err error, conv *domain.Conversation, operation string) (*domain.Conversation, error) {
	if err == nil {
		return conv, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}

	log.Printf("[ConversationRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
