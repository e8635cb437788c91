// Package domain defines typed identifiers and small domain primitives shared
// across services. Typed IDs make cross-entity assignment a compile error
// (a BookmarkID can never be passed where a MemberID is expected).
package domain

import (
	"github.com/google/uuid"

	dErrors "rxcampus/pkg/domain-errors"
)

// MemberID identifies a site member.
type MemberID uuid.UUID

// SessionID identifies a dashboard session.
type SessionID uuid.UUID

// BookmarkID identifies a saved resource bookmark.
type BookmarkID uuid.UUID

// ParseMemberID validates and converts external input into a MemberID.
// Errors: CodeInvalidInput for empty, malformed, or nil UUIDs.
func ParseMemberID(s string) (MemberID, error) {
	u, err := parseUUID(s, "member id")
	return MemberID(u), err
}

// ParseSessionID validates and converts external input into a SessionID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session id")
	return SessionID(u), err
}

// ParseBookmarkID validates and converts external input into a BookmarkID.
func ParseBookmarkID(s string) (BookmarkID, error) {
	u, err := parseUUID(s, "bookmark id")
	return BookmarkID(u), err
}

func (id MemberID) String() string   { return uuid.UUID(id).String() }
func (id SessionID) String() string  { return uuid.UUID(id).String() }
func (id BookmarkID) String() string { return uuid.UUID(id).String() }

func (id MemberID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id BookmarkID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Text marshaling renders IDs as canonical UUID strings in JSON and logs
// instead of raw byte arrays.

func (id MemberID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id SessionID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id BookmarkID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *MemberID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = MemberID(u)
	return nil
}

func (id *SessionID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = SessionID(u)
	return nil
}

func (id *BookmarkID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = BookmarkID(u)
	return nil
}

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs. Enforced at trust boundaries; direct casting bypasses it.
func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be nil")
	}
	return u, nil
}
