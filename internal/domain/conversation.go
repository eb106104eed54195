// File: internal/domain/conversation.go
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// PlaceholderTitle is the title a conversation carries until the first
// user message arrives.
const PlaceholderTitle = "New Conversation"

// MaxTitleLength bounds derived and user-supplied titles, in runes.
const MaxTitleLength = 80

// Conversation represents a single research thread owned by one user.
type Conversation struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      uint      `json:"-" gorm:"not null;index"` // owner, set at creation, immutable
	Title       string    `json:"title" gorm:"not null"`
	TitleCustom bool      `json:"-"` // set on user rename; blocks later auto-derivation
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConversationSummary is the projection exposed for list rendering. It is
// always derived from the stored conversation, never independently owned.
type ConversationSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary projects the conversation for the directory listing.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// DeriveTitle builds a conversation title from the first user question,
// collapsing whitespace and truncating to MaxTitleLength runes.
func DeriveTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	if title == "" {
		return PlaceholderTitle
	}
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:MaxTitleLength])) + "..."
}
