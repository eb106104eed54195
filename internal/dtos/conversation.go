// File: internal/dtos/conversation.go
package dtos

import (
	"time"

	"github.com/lexisg/go-lexi/internal/domain"
)

// ConversationSummaryDTO is the list-view projection of a conversation.
type ConversationSummaryDTO struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
}

// ConversationResponseDTO is the full conversation record.
type ConversationResponseDTO struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CitationResponseDTO carries one authority reference attached to an
// assistant message.
type CitationResponseDTO struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	Source    string `json:"source"`
	Link      string `json:"link"`
	Paragraph string `json:"paragraph,omitempty"`
}

// MessageResponseDTO is a single conversation turn. Assistant content is
// also rendered to HTML so clients can display markdown answers directly.
type MessageResponseDTO struct {
	ID          uint                  `json:"id"`
	Role        string                `json:"role"`
	Content     string                `json:"content"`
	ContentHTML string                `json:"content_html,omitempty"`
	Citations   []CitationResponseDTO `json:"citations,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

// AskRequestDTO is the payload for submitting a question.
type AskRequestDTO struct {
	Question string `json:"question"`
}

// AskResponseDTO is the completed turn returned by the ask endpoint.
type AskResponseDTO struct {
	Conversation ConversationResponseDTO `json:"conversation"`
	UserMessage  MessageResponseDTO      `json:"user_message"`
	Answer       MessageResponseDTO      `json:"answer"`
}

// RenameRequestDTO is the payload for renaming a conversation.
type RenameRequestDTO struct {
	Title string `json:"title"`
}

// ResolveCitationRequestDTO asks the server to validate a citation link.
type ResolveCitationRequestDTO struct {
	Link      string `json:"link"`
	Paragraph string `json:"paragraph,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Mapping functions

func FromConversation(c *domain.Conversation) ConversationResponseDTO {
	return ConversationResponseDTO{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func FromSummary(s domain.ConversationSummary) ConversationSummaryDTO {
	return ConversationSummaryDTO{
		ID:        s.ID,
		Title:     s.Title,
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func FromSummarySlice(summaries []domain.ConversationSummary) []ConversationSummaryDTO {
	out := make([]ConversationSummaryDTO, len(summaries))
	for i, s := range summaries {
		out[i] = FromSummary(s)
	}
	return out
}

func FromCitation(c domain.Citation) CitationResponseDTO {
	return CitationResponseDTO{
		ID:        c.ID,
		Text:      c.Text,
		Source:    c.Source,
		Link:      c.Link,
		Paragraph: c.Paragraph,
	}
}

func FromMessage(m domain.Message) MessageResponseDTO {
	dto := MessageResponseDTO{
		ID:        m.ID,
		Role:      m.MessageType,
		Content:   m.Content,
		Timestamp: m.CreatedAt.Format(time.RFC3339),
	}

	if m.IsAssistant() {
		dto.ContentHTML = RenderMarkdown(m.Content)
		if len(m.Citations) > 0 {
			dto.Citations = make([]CitationResponseDTO, len(m.Citations))
			for i, c := range m.Citations {
				dto.Citations[i] = FromCitation(c)
			}
		}
	}

	return dto
}

func FromMessageSlice(messages []domain.Message) []MessageResponseDTO {
	out := make([]MessageResponseDTO, len(messages))
	for i, m := range messages {
		out[i] = FromMessage(m)
	}
	return out
}
