package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookmark-service/pkg/logging"
	"bookmark-service/pkg/session"
	"bookmark-service/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserStorage struct {
	user *storage.User
}

func (s *stubUserStorage) Create(ctx context.Context, user *storage.User) error { return nil }

func (s *stubUserStorage) GetByEmail(ctx context.Context, email string) (*storage.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, storage.ErrUserNotFound
}

func (s *stubUserStorage) GetByID(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, storage.ErrUserNotFound
}

type stubSessionStore struct {
	records map[string]*session.Record
}

func (s *stubSessionStore) Get(ctx context.Context, token string) (*session.Record, error) {
	if record, exists := s.records[token]; exists {
		return record, nil
	}
	return nil, session.ErrSessionNotFound
}

func (s *stubSessionStore) Set(ctx context.Context, token string, record *session.Record) error {
	s.records[token] = record
	return nil
}

func newTestMiddleware(user *storage.User, records map[string]*session.Record) *AuthMiddleware {
	if records == nil {
		records = make(map[string]*session.Record)
	}
	logger := logging.NewLogger(logging.LevelError)
	sessions := session.NewManager(&stubSessionStore{records: records}, 1440*time.Minute)
	return NewAuthMiddleware(sessions, &stubUserStorage{user: user}, logger)
}

func runAuthenticated(t *testing.T, m *AuthMiddleware, authHeader string) (*httptest.ResponseRecorder, *CurrentUser) {
	t.Helper()

	var captured *CurrentUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = CurrentUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/bookmark/get/all", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestAuthenticateMissingHeader(t *testing.T) {
	m := newTestMiddleware(nil, nil)
	rec, _ := runAuthenticated(t, m, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	m := newTestMiddleware(nil, nil)

	for _, header := range []string{"Token abc", "Bearer", "Bearer ", "abc"} {
		rec, _ := runAuthenticated(t, m, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	m := newTestMiddleware(nil, nil)
	rec, _ := runAuthenticated(t, m, "Bearer unknown-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	user := &storage.User{ID: uuid.New(), Email: "alice@example.com"}
	records := map[string]*session.Record{
		"stale-token": {UserID: user.ID, LastUsedAt: time.Now().Add(-25 * time.Hour).Unix()},
	}
	m := newTestMiddleware(user, records)

	rec, _ := runAuthenticated(t, m, "Bearer stale-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Session expired")
}

func TestAuthenticateUserMissing(t *testing.T) {
	records := map[string]*session.Record{
		"orphan-token": {UserID: uuid.New(), LastUsedAt: time.Now().Unix()},
	}
	m := newTestMiddleware(nil, records)

	rec, _ := runAuthenticated(t, m, "Bearer orphan-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateSuccess(t *testing.T) {
	user := &storage.User{ID: uuid.New(), Email: "alice@example.com", HashedPassword: "hash"}
	records := map[string]*session.Record{
		"good-token": {UserID: user.ID, LastUsedAt: time.Now().Unix()},
	}
	m := newTestMiddleware(user, records)

	rec, current := runAuthenticated(t, m, "Bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
	assert.Equal(t, user.Email, current.Email)
	assert.Equal(t, "good-token", current.SessionID)
}

func TestAuthenticateCaseInsensitiveScheme(t *testing.T) {
	user := &storage.User{ID: uuid.New(), Email: "alice@example.com"}
	records := map[string]*session.Record{
		"good-token": {UserID: user.ID, LastUsedAt: time.Now().Unix()},
	}
	m := newTestMiddleware(user, records)

	rec, current := runAuthenticated(t, m, "bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, current)
}

func TestAuthenticateRefreshesWindow(t *testing.T) {
	user := &storage.User{ID: uuid.New(), Email: "alice@example.com"}
	stale := time.Now().Add(-23 * time.Hour).Unix()
	records := map[string]*session.Record{
		"good-token": {UserID: user.ID, LastUsedAt: stale},
	}
	m := newTestMiddleware(user, records)

	rec, _ := runAuthenticated(t, m, "Bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Greater(t, records["good-token"].LastUsedAt, stale)
}
