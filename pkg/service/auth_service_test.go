package service

import (
	"context"
	"testing"
	"time"

	"bookmark-service/pkg/logging"
	"bookmark-service/pkg/security"
	"bookmark-service/pkg/session"
	"bookmark-service/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserStorage struct {
	users map[string]*storage.User
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*storage.User)}
}

func (m *mockUserStorage) Create(ctx context.Context, user *storage.User) error {
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrEmailExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetByEmail(ctx context.Context, email string) (*storage.User, error) {
	if user, exists := m.users[email]; exists {
		return user, nil
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) GetByID(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

type mockSessionStore struct {
	records map[string]*session.Record
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{records: make(map[string]*session.Record)}
}

func (m *mockSessionStore) Get(ctx context.Context, token string) (*session.Record, error) {
	if record, exists := m.records[token]; exists {
		return record, nil
	}
	return nil, session.ErrSessionNotFound
}

func (m *mockSessionStore) Set(ctx context.Context, token string, record *session.Record) error {
	m.records[token] = record
	return nil
}

func newAuthService(users storage.UserStorage, store session.Store) *AuthService {
	logger := logging.NewLogger(logging.LevelError)
	sessions := session.NewManager(store, 1440*time.Minute)
	return NewAuthService(users, sessions, logger)
}

func TestRegister(t *testing.T) {
	users := newMockUserStorage()
	store := newMockSessionStore()
	svc := newAuthService(users, store)

	token, err := svc.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// User persisted with a verifiable hash, never the plaintext
	user := users.users["alice@example.com"]
	require.NotNil(t, user)
	assert.NotEqual(t, "secret1", user.HashedPassword)
	assert.True(t, security.VerifyPassword("secret1", user.HashedPassword))

	// Session stored under the returned token
	record, exists := store.records[token]
	require.True(t, exists)
	assert.Equal(t, user.ID, record.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newMockUserStorage()
	svc := newAuthService(users, newMockSessionStore())

	_, err := svc.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice@example.com", "other")
	assert.ErrorIs(t, err, storage.ErrEmailExists)
}

func TestRegisterMissingPassword(t *testing.T) {
	svc := newAuthService(newMockUserStorage(), newMockSessionStore())

	_, err := svc.Register(context.Background(), "alice@example.com", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestLogin(t *testing.T) {
	users := newMockUserStorage()
	store := newMockSessionStore()
	svc := newAuthService(users, store)

	_, err := svc.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Contains(t, store.records, token)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(newMockUserStorage(), newMockSessionStore())

	_, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newMockUserStorage()
	svc := newAuthService(users, newMockSessionStore())

	_, err := svc.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
