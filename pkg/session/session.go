package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when no session exists for a token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when the sliding window has elapsed.
	ErrSessionExpired = errors.New("session expired")
)

// Record is the value stored in the key-value store under the token key.
type Record struct {
	UserID     uuid.UUID `json:"user_id"`
	LastUsedAt int64     `json:"last_used_at"`
}

// Store is the key-value backend holding session records. Expiry is logical,
// enforced by the Manager at read time, never by store-level eviction.
type Store interface {
	Get(ctx context.Context, token string) (*Record, error)
	Set(ctx context.Context, token string, record *Record) error
}

type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Create issues a new bearer token and stores a fresh record under it.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	record := &Record{
		UserID:     userID,
		LastUsedAt: time.Now().Unix(),
	}
	if err := m.store.Set(ctx, token, record); err != nil {
		return "", err
	}

	return token, nil
}

// Touch validates the token and refreshes the sliding expiration window.
// Expired sessions are never refreshed, so a rejected session stays rejected.
func (m *Manager) Touch(ctx context.Context, token string) (*Record, error) {
	record, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if now.Sub(time.Unix(record.LastUsedAt, 0)) > m.ttl {
		return nil, ErrSessionExpired
	}

	record.LastUsedAt = now.Unix()
	if err := m.store.Set(ctx, token, record); err != nil {
		return nil, err
	}

	return record, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
