package bookmark

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcampus/internal/member/models"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

var bookmarkBase = time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

func saved(memberID id.MemberID, resourceID, title string, at time.Time) *models.Bookmark {
	return &models.Bookmark{
		ID:         id.BookmarkID(uuid.New()),
		MemberID:   memberID,
		ResourceID: resourceID,
		Category:   id.CategoryProtocolManuals,
		Title:      title,
		CreatedAt:  at,
	}
}

func TestListByMemberNewestFirst(t *testing.T) {
	store := NewInMemory()
	memberID := id.MemberID(uuid.New())

	require.NoError(t, store.Create(context.Background(), saved(memberID, "recAAA00000000001", "Oldest", bookmarkBase)))
	require.NoError(t, store.Create(context.Background(), saved(memberID, "recBBB00000000002", "Newest", bookmarkBase.Add(time.Hour))))

	bookmarks, err := store.ListByMember(context.Background(), memberID)
	require.NoError(t, err)
	require.Len(t, bookmarks, 2)
	assert.Equal(t, "Newest", bookmarks[0].Title)
	assert.Equal(t, "Oldest", bookmarks[1].Title)
}

func TestCreateDuplicatePairIsConflict(t *testing.T) {
	store := NewInMemory()
	memberID := id.MemberID(uuid.New())

	require.NoError(t, store.Create(context.Background(), saved(memberID, "recAAA00000000001", "Standing Orders", bookmarkBase)))

	err := store.Create(context.Background(), saved(memberID, "recAAA00000000001", "Standing Orders", bookmarkBase))
	require.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestSameResourceDifferentMembers(t *testing.T) {
	store := NewInMemory()

	require.NoError(t, store.Create(context.Background(), saved(id.MemberID(uuid.New()), "recAAA00000000001", "Standing Orders", bookmarkBase)))
	require.NoError(t, store.Create(context.Background(), saved(id.MemberID(uuid.New()), "recAAA00000000001", "Standing Orders", bookmarkBase)))
}

func TestDeleteFreesThePair(t *testing.T) {
	store := NewInMemory()
	memberID := id.MemberID(uuid.New())
	b := saved(memberID, "recAAA00000000001", "Standing Orders", bookmarkBase)

	require.NoError(t, store.Create(context.Background(), b))
	require.NoError(t, store.Delete(context.Background(), memberID, b.ID))

	bookmarks, err := store.ListByMember(context.Background(), memberID)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	// Deleting releases the (member, resource) pair for re-bookmarking.
	require.NoError(t, store.Create(context.Background(), saved(memberID, "recAAA00000000001", "Standing Orders", bookmarkBase)))
}

func TestDeleteUnknownIsNotFound(t *testing.T) {
	store := NewInMemory()

	err := store.Delete(context.Background(), id.MemberID(uuid.New()), id.BookmarkID(uuid.New()))
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestDeleteForeignBookmarkIsNotFound(t *testing.T) {
	store := NewInMemory()
	owner := id.MemberID(uuid.New())
	b := saved(owner, "recAAA00000000001", "Standing Orders", bookmarkBase)
	require.NoError(t, store.Create(context.Background(), b))

	err := store.Delete(context.Background(), id.MemberID(uuid.New()), b.ID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	bookmarks, err := store.ListByMember(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, bookmarks, 1, "foreign delete must not remove the bookmark")
}
