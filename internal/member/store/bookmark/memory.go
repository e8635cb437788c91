// Package bookmark persists saved resources in memory or the bookmarks
// mirror table.
package bookmark

import (
	"context"
	"sort"
	"sync"

	"rxcampus/internal/member/models"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

type InMemory struct {
	mu        sync.RWMutex
	bookmarks map[id.BookmarkID]*models.Bookmark
	byPair    map[string]id.BookmarkID
}

func NewInMemory() *InMemory {
	return &InMemory{
		bookmarks: make(map[id.BookmarkID]*models.Bookmark),
		byPair:    make(map[string]id.BookmarkID),
	}
}

func pairKey(memberID id.MemberID, resourceID string) string {
	return memberID.String() + "/" + resourceID
}

func (s *InMemory) ListByMember(_ context.Context, memberID id.MemberID) ([]models.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Bookmark
	for _, b := range s.bookmarks {
		if b.MemberID == memberID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *InMemory) Create(_ context.Context, bookmark *models.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(bookmark.MemberID, bookmark.ResourceID)
	if _, exists := s.byPair[key]; exists {
		return sentinel.ErrConflict
	}

	copied := *bookmark
	s.bookmarks[bookmark.ID] = &copied
	s.byPair[key] = bookmark.ID
	return nil
}

func (s *InMemory) Delete(_ context.Context, memberID id.MemberID, bookmarkID id.BookmarkID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmark, ok := s.bookmarks[bookmarkID]
	if !ok || bookmark.MemberID != memberID {
		return sentinel.ErrNotFound
	}

	delete(s.bookmarks, bookmarkID)
	delete(s.byPair, pairKey(memberID, bookmark.ResourceID))
	return nil
}
