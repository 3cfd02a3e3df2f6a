package storage

import (
	"context"

	"github.com/google/uuid"
)

type UserStorage interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type BookmarkStorage interface {
	Create(ctx context.Context, bookmark *Bookmark) error
	GetByOriginalURL(ctx context.Context, originalURL string) (*Bookmark, error)
	GetByShortCode(ctx context.Context, shortCode string) (*Bookmark, error)
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*Bookmark, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Bookmark, error)
	DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error
	ResolveAndCount(ctx context.Context, shortCode string) (*Bookmark, error)
}
