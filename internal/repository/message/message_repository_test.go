// File: internal/repository/message/message_repository_test.go
package message

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lexisg/go-lexi/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Conversation{}, &domain.Message{}, &domain.Citation{}))
	return db
}

func testCitation(text string) domain.Citation {
	return domain.Citation{
		Text:      text,
		Source:    "Dani_Devi_v_Pritam_Singh.pdf",
		Link:      "https://documents.example/Dani_Devi_v_Pritam_Singh.pdf",
		Paragraph: "Para 7",
	}
}

func TestCreate_PreservesAppendOrder(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()

	contents := []string{"first question", "first answer", "second question"}
	types := []string{domain.MessageTypeUser, domain.MessageTypeAssistant, domain.MessageTypeUser}
	for i := range contents {
		_, err := repo.Create(ctx, &domain.Message{
			ConversationID: 1,
			MessageType:    types[i],
			Content:        contents[i],
		})
		require.NoError(t, err)
	}

	messages, err := repo.FindByConversationID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for i, m := range messages {
		require.Equal(t, contents[i], m.Content)
		require.Equal(t, types[i], m.MessageType)
	}
}

func TestCreate_CitationRoundTrip(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Message{
		ConversationID: 1,
		MessageType:    domain.MessageTypeAssistant,
		Content:        "The period is twelve years.",
		Citations: []domain.Citation{
			testCitation("first excerpt"),
			testCitation("second excerpt"),
		},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	messages, err := repo.FindByConversationID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Citations, 2)
	require.Equal(t, "first excerpt", messages[0].Citations[0].Text)
	require.Equal(t, "second excerpt", messages[0].Citations[1].Text)
	require.Equal(t, 0, messages[0].Citations[0].Position)
	require.Equal(t, 1, messages[0].Citations[1].Position)
	require.Equal(t, created.ID, messages[0].Citations[0].MessageID)
}

func TestCreate_RejectsCitationsOnUserMessages(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))

	_, err := repo.Create(context.Background(), &domain.Message{
		ConversationID: 1,
		MessageType:    domain.MessageTypeUser,
		Content:        "a question",
		Citations:      []domain.Citation{testCitation("quote")},
	})
	require.Error(t, err)
}

func TestCreate_RejectsInvalidCitation(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))

	_, err := repo.Create(context.Background(), &domain.Message{
		ConversationID: 1,
		MessageType:    domain.MessageTypeAssistant,
		Content:        "an answer",
		Citations:      []domain.Citation{{Text: "quote"}}, // no source, no link
	})
	require.Error(t, err)
}

func TestCreate_RejectsEmptyContent(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))

	_, err := repo.Create(context.Background(), &domain.Message{
		ConversationID: 1,
		MessageType:    domain.MessageTypeUser,
		Content:        "   ",
	})
	require.Error(t, err)
}

func TestDeleteByConversationID_RemovesMessagesAndCitations(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Message{
		ConversationID: 1,
		MessageType:    domain.MessageTypeUser,
		Content:        "question",
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Message{
		ConversationID: 1,
		MessageType:    domain.MessageTypeAssistant,
		Content:        "answer",
		Citations:      []domain.Citation{testCitation("quote")},
	})
	require.NoError(t, err)

	// Messages in another conversation must survive the cascade.
	_, err = repo.Create(ctx, &domain.Message{
		ConversationID: 2,
		MessageType:    domain.MessageTypeUser,
		Content:        "unrelated",
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByConversationID(ctx, 1))

	var messageCount, citationCount int64
	require.NoError(t, db.Model(&domain.Message{}).Where("conversation_id = ?", 1).Count(&messageCount).Error)
	require.NoError(t, db.Model(&domain.Citation{}).Count(&citationCount).Error)
	require.Zero(t, messageCount)
	require.Zero(t, citationCount, "cascade left orphaned citations")

	var otherCount int64
	require.NoError(t, db.Model(&domain.Message{}).Where("conversation_id = ?", 2).Count(&otherCount).Error)
	require.EqualValues(t, 1, otherCount)
}

func TestDeleteByConversationID_IsIdempotent(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.DeleteByConversationID(ctx, 1))
	require.NoError(t, repo.DeleteByConversationID(ctx, 1))
}

func TestCountByConversationIDAndType(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Message{ConversationID: 1, MessageType: domain.MessageTypeUser, Content: "q"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Message{ConversationID: 1, MessageType: domain.MessageTypeAssistant, Content: "a"})
	require.NoError(t, err)

	users, err := repo.CountByConversationIDAndType(ctx, 1, domain.MessageTypeUser)
	require.NoError(t, err)
	require.EqualValues(t, 1, users)

	_, err = repo.CountByConversationIDAndType(ctx, 1, "system")
	require.Error(t, err)
}
