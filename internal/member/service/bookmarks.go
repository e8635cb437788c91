package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"rxcampus/internal/activity"
	"rxcampus/internal/member/models"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/sentinel"
)

// BookmarkInput is the raw payload for saving a resource.
type BookmarkInput struct {
	ResourceID string
	Category   string
	Title      string
}

// ListBookmarks returns the member's saved resources.
func (s *Service) ListBookmarks(ctx context.Context, memberID id.MemberID) ([]models.Bookmark, error) {
	bookmarks, err := s.bookmarks.ListByMember(ctx, memberID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bookmarks")
	}
	return bookmarks, nil
}

// AddBookmark saves a resource to the member's dashboard. Saving the same
// resource twice is a conflict.
func (s *Service) AddBookmark(ctx context.Context, memberID id.MemberID, input BookmarkInput) (*models.Bookmark, error) {
	resourceID := strings.TrimSpace(input.ResourceID)
	if resourceID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "resource_id is required")
	}
	category, err := id.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "title is required")
	}

	bookmark := &models.Bookmark{
		ID:         id.BookmarkID(uuid.New()),
		MemberID:   memberID,
		ResourceID: resourceID,
		Category:   category,
		Title:      title,
		CreatedAt:  s.now(),
	}
	if err := s.bookmarks.Create(ctx, bookmark); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "resource already bookmarked")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save bookmark")
	}

	s.metrics.IncBookmarkCreated()
	s.record(ctx, activity.Event{
		MemberID: memberID,
		Type:     activity.EventBookmarkAdded,
		Subject:  resourceID,
		Metadata: []any{"title", title, "category", category},
	})

	return bookmark, nil
}

// RemoveBookmark deletes one of the member's bookmarks. Bookmarks belonging
// to other members look like they do not exist.
func (s *Service) RemoveBookmark(ctx context.Context, memberID id.MemberID, rawBookmarkID string) error {
	bookmarkID, err := id.ParseBookmarkID(rawBookmarkID)
	if err != nil {
		return err
	}

	if err := s.bookmarks.Delete(ctx, memberID, bookmarkID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "bookmark not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove bookmark")
	}

	s.metrics.IncBookmarkRemoved()
	return nil
}
