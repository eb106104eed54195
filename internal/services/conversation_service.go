// File: internal/services/conversation_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lexisg/go-lexi/internal/domain"
	"github.com/lexisg/go-lexi/internal/repository/conversation"
	"github.com/lexisg/go-lexi/internal/repository/message"
	"github.com/lexisg/go-lexi/internal/services/store"
)

// ConversationService owns the conversation/message lifecycle: creation,
// message append with title derivation, listing, rename and cascade delete.
type ConversationService struct {
	config   *store.Config
	convRepo conversation.ConversationRepository
	msgRepo  message.MessageRepository
	logger   Logger
}

func NewConversationService(
	convRepo conversation.ConversationRepository,
	msgRepo message.MessageRepository,
	logger Logger,
) (*ConversationService, error) {
	if convRepo == nil {
		return nil, store.NewInvalidInputError("constructor", "conversation repository is required")
	}
	if msgRepo == nil {
		return nil, store.NewInvalidInputError("constructor", "message repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	config := store.DefaultConfig()
	if err := config.Validate(); err != nil {
		return nil, store.NewInvalidInputError("config", err.Error())
	}

	return &ConversationService{
		config:   config,
		convRepo: convRepo,
		msgRepo:  msgRepo,
		logger:   logger,
	}, nil
}

// CreateConversation creates an empty conversation with a placeholder title.
func (s *ConversationService) CreateConversation(ctx context.Context, userID uint) (*domain.Conversation, error) {
	if userID == 0 {
		return nil, store.NewInvalidInputError("create_conversation", "user ID is required")
	}

	count, err := s.convRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, store.NewStorageError("create_conversation", "could not count conversations", err)
	}
	if count >= int64(s.config.MaxConversationsPerUser) {
		return nil, store.NewInvalidInputError("create_conversation", "conversation limit reached")
	}

	conv := &domain.Conversation{UserID: userID, Title: domain.PlaceholderTitle}
	created, err := s.convRepo.Create(ctx, conv)
	if err != nil {
		return nil, store.NewStorageError("create_conversation", "could not create conversation", err)
	}

	s.logger.Info("conversation created", "conversation_id", created.ID, "user_id", userID)
	return created, nil
}

// AppendMessage appends one turn to a conversation the caller owns. The
// first user message also derives the conversation title, unless the user
// has renamed it. Ownership failures surface as NOT_FOUND with no partial
// writes.
func (s *ConversationService) AppendMessage(ctx context.Context, userID, conversationID uint, msg *domain.Message) (*domain.Conversation, error) {
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, store.NewInvalidInputError("append_message", "message content cannot be empty")
	}

	conv, err := s.findOwned(ctx, userID, conversationID, "append_message")
	if err != nil {
		return nil, err
	}

	count, err := s.msgRepo.CountByConversationID(ctx, conversationID)
	if err != nil {
		return nil, store.NewStorageError("append_message", "could not count messages", err)
	}
	if count >= int64(s.config.MaxMessagesPerConversation) {
		return nil, store.NewInvalidInputError("append_message", "conversation message limit reached")
	}

	msg.ConversationID = conversationID
	if _, err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, store.NewStorageError("append_message", "could not save message", err)
	}

	if msg.MessageType == domain.MessageTypeUser && !conv.TitleCustom && conv.Title == domain.PlaceholderTitle {
		// Only the conversation's first question names it.
		if n, countErr := s.msgRepo.CountByConversationIDAndType(ctx, conversationID, domain.MessageTypeUser); countErr == nil && n == 1 {
			title := domain.DeriveTitle(msg.Content)
			if err := s.convRepo.UpdateTitle(ctx, conversationID, title, false); err != nil {
				// Title derivation is cosmetic; the appended message stands.
				s.logger.Warn("title derivation failed", "conversation_id", conversationID, "error", err)
			} else {
				conv.Title = title
			}
		}
	}

	if err := s.convRepo.TouchUpdatedAt(ctx, conversationID); err != nil {
		s.logger.Warn("updated_at touch failed", "conversation_id", conversationID, "error", err)
	} else if fresh, err := s.convRepo.FindByID(ctx, conversationID); err == nil {
		// Callers return this conversation; hand back the timestamp the
		// touch actually stored.
		conv.UpdatedAt = fresh.UpdatedAt
	}

	return conv, nil
}

// GetMessages returns the full turn sequence of an owned conversation in
// append order, citations included.
func (s *ConversationService) GetMessages(ctx context.Context, userID, conversationID uint) ([]domain.Message, error) {
	if err := s.assertOwned(ctx, userID, conversationID, "get_messages"); err != nil {
		return nil, err
	}

	messages, err := s.msgRepo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, store.NewStorageError("get_messages", "could not fetch messages", err)
	}
	return messages, nil
}

// ListConversations returns the caller's conversations as summaries ordered
// by updated_at descending. No conversations is an empty list, not an error.
func (s *ConversationService) ListConversations(ctx context.Context, userID uint) ([]domain.ConversationSummary, error) {
	if userID == 0 {
		return nil, store.NewInvalidInputError("list_conversations", "user ID is required")
	}

	convs, err := s.convRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, store.NewStorageError("list_conversations", "could not fetch conversations", err)
	}

	summaries := make([]domain.ConversationSummary, 0, len(convs))
	for i := range convs {
		summaries = append(summaries, convs[i].Summary())
	}
	return summaries, nil
}

// RenameConversation sets a user-chosen title. A rename is authoritative:
// later auto-derivation never overwrites it.
func (s *ConversationService) RenameConversation(ctx context.Context, userID, conversationID uint, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return store.NewInvalidInputError("rename_conversation", "title cannot be empty")
	}
	if len([]rune(title)) > s.config.TitleMaxLength {
		title = string([]rune(title)[:s.config.TitleMaxLength])
	}

	if err := s.assertOwned(ctx, userID, conversationID, "rename_conversation"); err != nil {
		return err
	}

	if err := s.convRepo.UpdateTitle(ctx, conversationID, title, true); err != nil {
		return store.NewStorageError("rename_conversation", "could not rename conversation", err)
	}
	return nil
}

// DeleteConversation removes a conversation and everything it owns. The
// cascade runs in two phases, messages first, and is retried as a whole so
// callers never observe an orphaned half-deleted state: a conversation
// record already gone on a retry counts as success.
func (s *ConversationService) DeleteConversation(ctx context.Context, userID, conversationID uint) error {
	if err := s.assertOwned(ctx, userID, conversationID, "delete_conversation"); err != nil {
		return err
	}

	retryCfg := &store.RetryConfig{
		MaxAttempts: s.config.DeleteMaxRetries,
		Delay:       s.config.DeleteRetryDelay,
	}

	err := store.RetryWithBackoff(ctx, retryCfg, func(ctx context.Context) error {
		return s.cascadeDelete(ctx, userID, conversationID)
	})
	if err != nil {
		s.logger.Error("cascade delete exhausted retries", "conversation_id", conversationID, "error", err)
		return store.NewConsistencyError("delete_conversation", conversationID, err)
	}

	s.logger.Info("conversation deleted", "conversation_id", conversationID, "user_id", userID)
	return nil
}

// cascadeDelete is one idempotent attempt of the two-phase delete.
func (s *ConversationService) cascadeDelete(ctx context.Context, userID, conversationID uint) error {
	if err := s.msgRepo.DeleteByConversationID(ctx, conversationID); err != nil {
		return store.NewStorageError("cascade_delete", "could not delete messages", err)
	}

	err := s.convRepo.Delete(ctx, conversationID, userID)
	if err != nil && !errors.Is(err, conversation.ErrConversationNotFound) {
		return store.NewStorageError("cascade_delete", "could not delete conversation record", err)
	}
	return nil
}

// assertOwned is the ownership check for paths that never read the record.
func (s *ConversationService) assertOwned(ctx context.Context, userID, conversationID uint, operation string) error {
	if userID == 0 || conversationID == 0 {
		return store.NewInvalidInputError(operation, "user ID and conversation ID are required")
	}

	owned, err := s.convRepo.ExistsByIDAndUserID(ctx, conversationID, userID)
	if err != nil {
		return store.NewStorageError(operation, "could not check conversation ownership", err)
	}
	if !owned {
		return store.NewNotFoundError(operation, userID, conversationID)
	}
	return nil
}

func (s *ConversationService) findOwned(ctx context.Context, userID, conversationID uint, operation string) (*domain.Conversation, error) {
	if userID == 0 || conversationID == 0 {
		return nil, store.NewInvalidInputError(operation, "user ID and conversation ID are required")
	}

	conv, err := s.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, store.NewNotFoundError(operation, userID, conversationID)
		}
		return nil, store.NewStorageError(operation, "could not load conversation", err)
	}
	if conv.UserID != userID {
		return nil, store.NewNotFoundError(operation, userID, conversationID)
	}
	return conv, nil
}
