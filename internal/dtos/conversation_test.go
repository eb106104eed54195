// File: internal/dtos/conversation_test.go
package dtos

import (
	"strings"
	"testing"
	"time"

	"github.com/lexisg/go-lexi/internal/domain"
)

func TestFromMessage_UserMessageHasNoHTML(t *testing.T) {
	dto := FromMessage(domain.Message{
		ID:          1,
		MessageType: domain.MessageTypeUser,
		Content:     "# not rendered",
		CreatedAt:   time.Now(),
	})

	if dto.Role != "user" {
		t.Errorf("unexpected role: %q", dto.Role)
	}
	if dto.ContentHTML != "" {
		t.Error("user message should not carry rendered HTML")
	}
}

func TestFromMessage_AssistantMarkdownRendered(t *testing.T) {
	dto := FromMessage(domain.Message{
		ID:          2,
		MessageType: domain.MessageTypeAssistant,
		Content:     "The period is **twelve years**.",
		Citations: []domain.Citation{{
			ID:     9,
			Text:   "quote",
			Source: "judgment.pdf",
			Link:   "https://documents.example/judgment.pdf",
		}},
		CreatedAt: time.Now(),
	})

	if !strings.Contains(dto.ContentHTML, "<strong>twelve years</strong>") {
		t.Errorf("markdown not rendered: %q", dto.ContentHTML)
	}
	if len(dto.Citations) != 1 || dto.Citations[0].Source != "judgment.pdf" {
		t.Errorf("citations not mapped: %+v", dto.Citations)
	}
}

func TestRenderMarkdown_Table(t *testing.T) {
	html := RenderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(html, "<table>") {
		t.Errorf("GFM table not rendered: %q", html)
	}
}

func TestFromSummarySlice(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	dtos := FromSummarySlice([]domain.ConversationSummary{
		{ID: 1, Title: "first", UpdatedAt: now},
		{ID: 2, Title: "second", UpdatedAt: now},
	})

	if len(dtos) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(dtos))
	}
	if dtos[0].UpdatedAt != now.Format(time.RFC3339) {
		t.Errorf("timestamp not formatted: %q", dtos[0].UpdatedAt)
	}
}
