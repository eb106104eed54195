// File: internal/services/directory/directory.go
package directory

import (
	"context"
	"errors"
	"sync"

	"github.com/lexisg/go-lexi/internal/domain"
)

var ErrNoActiveConversation = errors.New("no active conversation")
var ErrUnknownConversation = errors.New("conversation not in directory")

// Store is the slice of the conversation service the directory needs.
type Store interface {
	ListConversations(ctx context.Context, userID uint) ([]domain.ConversationSummary, error)
	DeleteConversation(ctx context.Context, userID, conversationID uint) error
}

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Directory is a per-user cached index of conversations with selection
// state. The cache is replaced wholesale on every refresh; the list is
// small and refreshed on every mutating action, so incremental merging
// buys nothing.
type Directory struct {
	mu       sync.Mutex
	store    Store
	logger   Logger
	userID   uint
	cached   []domain.ConversationSummary
	activeID uint // 0 means no active conversation
}

func NewDirectory(store Store, userID uint, logger Logger) *Directory {
	return &Directory{store: store, userID: userID, logger: logger}
}

// Refresh re-fetches the conversation list from the store and replaces the
// cached list wholesale.
func (d *Directory) Refresh(ctx context.Context) error {
	summaries, err := d.store.ListConversations(ctx, d.userID)
	if err != nil {
		d.logger.Error("directory refresh failed", "user_id", d.userID, "error", err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached = summaries

	// Drop a selection that no longer exists in the store.
	if d.activeID != 0 && d.lookupLocked(d.activeID) == nil {
		d.activeID = 0
	}
	return nil
}

// List returns the cached summaries in store order (updated_at descending).
func (d *Directory) List() []domain.ConversationSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.ConversationSummary, len(d.cached))
	copy(out, d.cached)
	return out
}

// Select marks a cached conversation as active. Messages are not fetched
// here; the controller loads them lazily.
func (d *Directory) Select(conversationID uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lookupLocked(conversationID) == nil {
		return ErrUnknownConversation
	}
	d.activeID = conversationID
	return nil
}

// Active returns the selected conversation summary.
func (d *Directory) Active() (domain.ConversationSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.activeID == 0 {
		return domain.ConversationSummary{}, ErrNoActiveConversation
	}
	if s := d.lookupLocked(d.activeID); s != nil {
		return *s, nil
	}
	return domain.ConversationSummary{}, ErrNoActiveConversation
}

// Deselect clears the active conversation.
func (d *Directory) Deselect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activeID = 0
}

// Remove deletes the conversation through the store's cascade and drops it
// from the cache. Removing the active conversation transitions to the
// no-active state so no dangling reference to a deleted id survives.
func (d *Directory) Remove(ctx context.Context, conversationID uint) error {
	if err := d.store.DeleteConversation(ctx, d.userID, conversationID); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	filtered := d.cached[:0]
	for _, s := range d.cached {
		if s.ID != conversationID {
			filtered = append(filtered, s)
		}
	}
	d.cached = filtered

	if d.activeID == conversationID {
		d.activeID = 0
	}
	return nil
}

func (d *Directory) lookupLocked(conversationID uint) *domain.ConversationSummary {
	for i := range d.cached {
		if d.cached[i].ID == conversationID {
			return &d.cached[i]
		}
	}
	return nil
}
