package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcampus/internal/activity"
	id "rxcampus/pkg/domain"
)

func appendAt(t *testing.T, store *InMemoryStore, memberID id.MemberID, subject string, at time.Time) {
	t.Helper()
	err := store.Append(context.Background(), activity.Entry{
		MemberID:   memberID,
		Type:       activity.EventResourceDownloaded,
		Subject:    subject,
		OccurredAt: at,
	})
	require.NoError(t, err)
}

func TestListRecentNewestFirst(t *testing.T) {
	store := NewInMemoryStore()
	memberID := id.MemberID(uuid.New())
	base := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

	appendAt(t, store, memberID, "first", base)
	appendAt(t, store, memberID, "second", base.Add(time.Minute))
	appendAt(t, store, memberID, "third", base.Add(2*time.Minute))

	entries, err := store.ListRecent(context.Background(), memberID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Subject)
	assert.Equal(t, "second", entries[1].Subject)
	assert.Equal(t, "first", entries[2].Subject)
}

func TestListRecentHonorsLimit(t *testing.T) {
	store := NewInMemoryStore()
	memberID := id.MemberID(uuid.New())
	base := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		appendAt(t, store, memberID, "", base.Add(time.Duration(i)*time.Minute))
	}

	entries, err := store.ListRecent(context.Background(), memberID, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestListRecentScopedToMember(t *testing.T) {
	store := NewInMemoryStore()
	alice := id.MemberID(uuid.New())
	bob := id.MemberID(uuid.New())

	appendAt(t, store, alice, "alice-view", time.Now())

	entries, err := store.ListRecent(context.Background(), bob, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
