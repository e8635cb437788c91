package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcampus/internal/activity"
	"rxcampus/internal/member/models"
	"rxcampus/internal/member/store"
	bookmarkstore "rxcampus/internal/member/store/bookmark"
	memberstore "rxcampus/internal/member/store/member"
	sessionstore "rxcampus/internal/member/store/session"
	"rxcampus/internal/platform/config"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
)

const (
	demoEmail    = "member@rxcampus.dev"
	demoPassword = "rx-demo-2024"
)

var fixedNow = time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)

type stubTokens struct {
	token     string
	err       error
	calls     int
	memberID  id.MemberID
	sessionID id.SessionID
}

func (s *stubTokens) GenerateAccessToken(memberID id.MemberID, sessionID id.SessionID, _ time.Duration) (string, error) {
	s.calls++
	s.memberID = memberID
	s.sessionID = sessionID
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

type recordingPublisher struct {
	events []activity.Event
	err    error
}

func (p *recordingPublisher) Emit(_ context.Context, event activity.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type failingMemberStore struct{ err error }

func (s failingMemberStore) FindByEmail(context.Context, string) (*models.Member, error) {
	return nil, s.err
}

func (s failingMemberStore) FindByID(context.Context, id.MemberID) (*models.Member, error) {
	return nil, s.err
}

type failingSessionStore struct{ err error }

func (s failingSessionStore) Create(context.Context, *models.Session) error { return s.err }
func (s failingSessionStore) Revoke(context.Context, id.SessionID) error    { return s.err }
func (s failingSessionStore) IsSessionActive(context.Context, id.SessionID) (bool, error) {
	return false, s.err
}

type failingBookmarkStore struct{ err error }

func (s failingBookmarkStore) ListByMember(context.Context, id.MemberID) ([]models.Bookmark, error) {
	return nil, s.err
}

func (s failingBookmarkStore) Create(context.Context, *models.Bookmark) error { return s.err }
func (s failingBookmarkStore) Delete(context.Context, id.MemberID, id.BookmarkID) error {
	return s.err
}

type fixture struct {
	service   *Service
	member    *models.Member
	members   *memberstore.InMemory
	sessions  *sessionstore.InMemorySessionStore
	bookmarks *bookmarkstore.InMemory
	tokens    *stubTokens
	feed      *recordingPublisher
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	members := memberstore.NewInMemory()
	seeded, err := store.SeedDemoMember(members, config.AuthConfig{
		DemoEmail:       demoEmail,
		DemoPassword:    demoPassword,
		DemoDisplayName: "Jordan Ellis, PharmD",
	})
	require.NoError(t, err)

	f := &fixture{
		member:    seeded,
		members:   members,
		sessions:  sessionstore.New(),
		bookmarks: bookmarkstore.NewInMemory(),
		tokens:    &stubTokens{token: "signed-token"},
		feed:      &recordingPublisher{},
	}
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithActivity(f.feed),
		withNow(func() time.Time { return fixedNow }),
	}
	f.service = New(f.members, f.sessions, f.bookmarks, f.tokens, append(base, opts...)...)
	return f
}

func TestLoginIssuesTokenAndSession(t *testing.T) {
	f := newFixture(t, WithTokenTTL(15*time.Minute))

	result, err := f.service.Login(context.Background(), demoEmail, demoPassword)
	require.NoError(t, err)

	assert.Equal(t, "signed-token", result.Token)
	assert.Equal(t, fixedNow.Add(15*time.Minute), result.ExpiresAt)
	assert.Equal(t, f.member.ID, result.Member.ID)

	require.Equal(t, 1, f.tokens.calls)
	assert.Equal(t, f.member.ID, f.tokens.memberID)

	active, err := f.sessions.IsSessionActive(context.Background(), f.tokens.sessionID)
	require.NoError(t, err)
	assert.True(t, active)

	require.Len(t, f.feed.events, 1)
	assert.Equal(t, activity.EventLogin, f.feed.events[0].Type)
	assert.Equal(t, f.member.ID, f.feed.events[0].MemberID)
}

func TestLoginNormalizesEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), "  Member@RxCampus.DEV ", demoPassword)
	require.NoError(t, err)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), demoEmail, "wrong-password")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))

	assert.Zero(t, f.tokens.calls)
	assert.Empty(t, f.feed.events)
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	f := newFixture(t)

	_, unknownErr := f.service.Login(context.Background(), "stranger@rxcampus.dev", demoPassword)
	_, wrongErr := f.service.Login(context.Background(), demoEmail, "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

func TestLoginEmptyCredentialsIsInvalidInput(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct {
		name, email, password string
	}{
		{"missing email", "", demoPassword},
		{"missing password", demoEmail, ""},
		{"blank email", "   ", demoPassword},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Login(context.Background(), tc.email, tc.password)
			assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput), "got %v", err)
		})
	}
}

func TestLoginMemberLookupFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.service.members = failingMemberStore{err: errors.New("store down")}

	_, err := f.service.Login(context.Background(), demoEmail, demoPassword)
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal), "got %v", err)
}

func TestLoginSessionCreateFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.service.sessions = failingSessionStore{err: errors.New("redis down")}

	_, err := f.service.Login(context.Background(), demoEmail, demoPassword)
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal), "got %v", err)
}

func TestLoginTokenFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.tokens.err = errors.New("signing key unavailable")

	_, err := f.service.Login(context.Background(), demoEmail, demoPassword)
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal), "got %v", err)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), demoEmail, demoPassword)
	require.NoError(t, err)
	sessionID := f.tokens.sessionID

	require.NoError(t, f.service.Logout(context.Background(), sessionID))

	active, err := f.sessions.IsSessionActive(context.Background(), sessionID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newFixture(t)

	sessionID := id.SessionID(uuid.New())
	require.NoError(t, f.service.Logout(context.Background(), sessionID))
	require.NoError(t, f.service.Logout(context.Background(), sessionID))
}

func TestLogoutStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.service.sessions = failingSessionStore{err: errors.New("redis down")}

	err := f.service.Logout(context.Background(), id.SessionID(uuid.New()))
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal), "got %v", err)
}

func TestProfileReturnsMember(t *testing.T) {
	f := newFixture(t)

	member, err := f.service.Profile(context.Background(), f.member.ID)
	require.NoError(t, err)

	assert.Equal(t, "Jordan Ellis, PharmD", member.DisplayName)
	assert.Equal(t, demoEmail, member.Email)
	assert.NotEmpty(t, member.EnrolledPrograms)
}

func TestProfileUnknownMemberIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Profile(context.Background(), id.MemberID(uuid.New()))
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeNotFound, "member not found"))
}

func TestProfileStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.service.members = failingMemberStore{err: errors.New("store down")}

	_, err := f.service.Profile(context.Background(), f.member.ID)
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal), "got %v", err)
}

func TestAddBookmarkPersistsAndRecordsActivity(t *testing.T) {
	f := newFixture(t)

	bookmark, err := f.service.AddBookmark(context.Background(), f.member.ID, BookmarkInput{
		ResourceID: "recBookmark0000001",
		Category:   "protocol-manuals",
		Title:      "Immunization Standing Orders",
	})
	require.NoError(t, err)

	assert.False(t, bookmark.ID.IsNil())
	assert.Equal(t, f.member.ID, bookmark.MemberID)
	assert.Equal(t, id.CategoryProtocolManuals, bookmark.Category)
	assert.Equal(t, fixedNow, bookmark.CreatedAt)

	saved, err := f.service.ListBookmarks(context.Background(), f.member.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, bookmark.ID, saved[0].ID)

	require.Len(t, f.feed.events, 1)
	event := f.feed.events[0]
	assert.Equal(t, activity.EventBookmarkAdded, event.Type)
	assert.Equal(t, "recBookmark0000001", event.Subject)
	assert.Equal(t, []any{"title", "Immunization Standing Orders", "category", id.CategoryProtocolManuals}, event.Metadata)
}

func TestAddBookmarkDuplicateIsConflict(t *testing.T) {
	f := newFixture(t)

	input := BookmarkInput{
		ResourceID: "recBookmark0000001",
		Category:   "protocol-manuals",
		Title:      "Immunization Standing Orders",
	}
	_, err := f.service.AddBookmark(context.Background(), f.member.ID, input)
	require.NoError(t, err)

	_, err = f.service.AddBookmark(context.Background(), f.member.ID, input)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeConflict, "resource already bookmarked"))
}

func TestAddBookmarkValidation(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct {
		name  string
		input BookmarkInput
	}{
		{"missing resource id", BookmarkInput{Category: "protocol-manuals", Title: "X"}},
		{"unknown category", BookmarkInput{ResourceID: "recBookmark0000001", Category: "podcasts", Title: "X"}},
		{"missing title", BookmarkInput{ResourceID: "recBookmark0000001", Category: "protocol-manuals"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.AddBookmark(context.Background(), f.member.ID, tc.input)
			assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput), "got %v", err)
		})
	}
}

func TestAddBookmarkStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.service.bookmarks = failingBookmarkStore{err: errors.New("db down")}

	_, err := f.service.AddBookmark(context.Background(), f.member.ID, BookmarkInput{
		ResourceID: "recBookmark0000001",
		Category:   "protocol-manuals",
		Title:      "Immunization Standing Orders",
	})
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal), "got %v", err)
}

func TestRemoveBookmarkDeletes(t *testing.T) {
	f := newFixture(t)

	bookmark, err := f.service.AddBookmark(context.Background(), f.member.ID, BookmarkInput{
		ResourceID: "recBookmark0000001",
		Category:   "protocol-manuals",
		Title:      "Immunization Standing Orders",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveBookmark(context.Background(), f.member.ID, bookmark.ID.String()))

	saved, err := f.service.ListBookmarks(context.Background(), f.member.ID)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestRemoveBookmarkUnknownIsNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.service.RemoveBookmark(context.Background(), f.member.ID, uuid.NewString())
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeNotFound, "bookmark not found"))
}

func TestRemoveBookmarkMalformedIDIsInvalidInput(t *testing.T) {
	f := newFixture(t)

	err := f.service.RemoveBookmark(context.Background(), f.member.ID, "not-a-uuid")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput), "got %v", err)
}

func TestRemoveBookmarkForeignBookmarkIsNotFound(t *testing.T) {
	f := newFixture(t)

	other := id.MemberID(uuid.New())
	foreign := &models.Bookmark{
		ID:         id.BookmarkID(uuid.New()),
		MemberID:   other,
		ResourceID: "recBookmark0000002",
		Category:   id.CategoryPatientHandouts,
		Title:      "Someone else's handout",
		CreatedAt:  fixedNow,
	}
	require.NoError(t, f.bookmarks.Create(context.Background(), foreign))

	err := f.service.RemoveBookmark(context.Background(), f.member.ID, foreign.ID.String())
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeNotFound, "bookmark not found"))
}

func TestActivityFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.feed.err = errors.New("feed unavailable")

	_, err := f.service.AddBookmark(context.Background(), f.member.ID, BookmarkInput{
		ResourceID: "recBookmark0000001",
		Category:   "protocol-manuals",
		Title:      "Immunization Standing Orders",
	})
	require.NoError(t, err)
}
