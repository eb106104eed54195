// File: internal/repository/conversation/conversation_repository_test.go
package conversation

import (
	"context"
	"testing"
	"time"

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

func TestCreateAndFindByID(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: domain.PlaceholderTitle})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PlaceholderTitle, found.Title)
	require.Equal(t, uint(1), found.UserID)
}

func TestFindByID_NotFound(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), 999)
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Conversation{Title: "no owner"})
	require.Error(t, err)

	_, err = repo.Create(ctx, &domain.Conversation{UserID: 1, Title: "   "})
	require.Error(t, err)
}

func TestFindByUserID_OrdersByRecency(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	old, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: "older"})
	require.NoError(t, err)
	recent, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: "newer"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Conversation{UserID: 2, Title: "other user"})
	require.NoError(t, err)

	// Pin distinct timestamps so the ordering assertion is deterministic.
	base := time.Now().UTC()
	require.NoError(t, db.Model(&domain.Conversation{}).Where("id = ?", old.ID).
		Update("updated_at", base.Add(-time.Hour)).Error)
	require.NoError(t, db.Model(&domain.Conversation{}).Where("id = ?", recent.ID).
		Update("updated_at", base).Error)

	convs, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	require.Equal(t, recent.ID, convs[0].ID)
	require.Equal(t, old.ID, convs[1].ID)
}

func TestDelete_EnforcesOwnership(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	conv, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: "mine"})
	require.NoError(t, err)

	// Wrong owner deletes nothing.
	require.ErrorIs(t, repo.Delete(ctx, conv.ID, 2), ErrConversationNotFound)

	require.NoError(t, repo.Delete(ctx, conv.ID, 1))

	// Second delete of the same record reports not found.
	require.ErrorIs(t, repo.Delete(ctx, conv.ID, 1), ErrConversationNotFound)
}

func TestUpdateTitle(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	conv, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: domain.PlaceholderTitle})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateTitle(ctx, conv.ID, "Limitation periods", true))

	found, err := repo.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	require.Equal(t, "Limitation periods", found.Title)
	require.True(t, found.TitleCustom)

	require.ErrorIs(t, repo.UpdateTitle(ctx, 999, "ghost", false), ErrConversationNotFound)
	require.Error(t, repo.UpdateTitle(ctx, conv.ID, "  ", false))
}

func TestTouchUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	conv, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: "thread"})
	require.NoError(t, err)

	stale := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&domain.Conversation{}).Where("id = ?", conv.ID).
		Update("updated_at", stale).Error)

	require.NoError(t, repo.TouchUpdatedAt(ctx, conv.ID))

	found, err := repo.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	require.True(t, found.UpdatedAt.After(stale))

	require.ErrorIs(t, repo.TouchUpdatedAt(ctx, 999), ErrConversationNotFound)
}

// Touching must move a conversation to the front of the recency ordering
// using only the repository's own writes, whatever the host timezone. Mixed
// timestamp formats in the updated_at column would break the comparison.
func TestTouchUpdatedAt_MovesConversationToFront(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: "first"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: "second"})
	require.NoError(t, err)

	convs, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, second.ID, convs[0].ID)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.TouchUpdatedAt(ctx, first.ID))

	convs, err = repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	require.Equal(t, first.ID, convs[0].ID, "touched conversation did not move to front")
	require.Equal(t, second.ID, convs[1].ID)
}

func TestExistsByIDAndUserID(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	conv, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: "thread"})
	require.NoError(t, err)

	ok, err := repo.ExistsByIDAndUserID(ctx, conv.ID, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.ExistsByIDAndUserID(ctx, conv.ID, 2)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCountByUserID(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &domain.Conversation{UserID: 1, Title: "thread"})
		require.NoError(t, err)
	}

	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	count, err = repo.CountByUserID(ctx, 2)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}
