// Package models defines the member domain: the seeded demo account, dashboard
// sessions, and saved resource bookmarks.
package models

import (
	"time"

	id "rxcampus/pkg/domain"
)

// Member is a site member. Authentication is mocked: the store is seeded with
// a single demo member and there is no registration path.
type Member struct {
	ID               id.MemberID
	Email            string
	PasswordHash     string
	DisplayName      string
	Role             string
	EnrolledPrograms []id.Slug
	MemberSince      time.Time
}

// Session is one dashboard login. Logout revokes it; expiry bounds how long a
// token outlives its member's last login.
type Session struct {
	ID        id.SessionID
	MemberID  id.MemberID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Bookmark is a member's saved resource. Unique per (member, resource).
type Bookmark struct {
	ID         id.BookmarkID
	MemberID   id.MemberID
	ResourceID string
	Category   id.Category
	Title      string
	CreatedAt  time.Time
}
