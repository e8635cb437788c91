package bookmark

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rxcampus/internal/member/models"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

// Postgres stores bookmarks in the bookmarks table. The unique
// (member_id, resource_id) constraint enforces idempotent saves.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) ListByMember(ctx context.Context, memberID id.MemberID) ([]models.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, resource_id, category, title, created_at
		FROM bookmarks
		WHERE member_id = $1
		ORDER BY created_at DESC, id
	`, uuid.UUID(memberID))
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []models.Bookmark
	for rows.Next() {
		var (
			b      models.Bookmark
			bid    uuid.UUID
			member uuid.UUID
		)
		if err := rows.Scan(&bid, &member, &b.ResourceID, &b.Category, &b.Title, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		b.ID = id.BookmarkID(bid)
		b.MemberID = id.MemberID(member)
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (s *Postgres) Create(ctx context.Context, bookmark *models.Bookmark) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, member_id, resource_id, category, title, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (member_id, resource_id) DO NOTHING
	`,
		uuid.UUID(bookmark.ID),
		uuid.UUID(bookmark.MemberID),
		bookmark.ResourceID,
		bookmark.Category.String(),
		bookmark.Title,
		bookmark.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create bookmark: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create bookmark: %w", err)
	}
	if inserted == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

// Delete removes the member's bookmark. A bookmark owned by someone else is
// indistinguishable from a missing one.
func (s *Postgres) Delete(ctx context.Context, memberID id.MemberID, bookmarkID id.BookmarkID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM bookmarks
		WHERE id = $1 AND member_id = $2
	`, uuid.UUID(bookmarkID), uuid.UUID(memberID))
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if deleted == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
