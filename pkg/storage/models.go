package storage

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
}

type Bookmark struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OriginalURL string    `json:"original_url" db:"original_url"`
	ShortCode   string    `json:"short_code" db:"short_code"`
	VisitCount  int       `json:"visit_count" db:"visit_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
}
