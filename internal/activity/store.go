package activity

import (
	"context"

	id "rxcampus/pkg/domain"
)

// Store persists activity entries. Append-only; listings are bounded and
// newest-first.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListRecent(ctx context.Context, memberID id.MemberID, limit int) ([]Entry, error)
}
