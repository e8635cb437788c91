// Package postgres persists activity entries in the member_activity table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"rxcampus/internal/activity"
	id "rxcampus/pkg/domain"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, entry activity.Entry) error {
	var metadata []byte
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal activity metadata: %w", err)
		}
		metadata = raw
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO member_activity (member_id, event_type, subject, metadata, client_ip, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.UUID(entry.MemberID),
		string(entry.Type),
		entry.Subject,
		metadata,
		entry.ClientIP,
		entry.UserAgent,
		entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append activity entry: %w", err)
	}
	return nil
}

func (s *Store) ListRecent(ctx context.Context, memberID id.MemberID, limit int) ([]activity.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, event_type,
		       COALESCE(subject, ''), metadata,
		       COALESCE(client_ip, ''), COALESCE(user_agent, ''),
		       occurred_at
		FROM member_activity
		WHERE member_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2
	`, uuid.UUID(memberID), limit)
	if err != nil {
		return nil, fmt.Errorf("list recent activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var (
			entry    activity.Entry
			member   uuid.UUID
			metadata []byte
		)
		if err := rows.Scan(
			&member, &entry.Type,
			&entry.Subject, &metadata,
			&entry.ClientIP, &entry.UserAgent,
			&entry.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		entry.MemberID = id.MemberID(member)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal activity metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity entries: %w", err)
	}
	return entries, nil
}
