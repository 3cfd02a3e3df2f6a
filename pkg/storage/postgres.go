package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type PostgresUserStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStorage(pool *pgxpool.Pool) *PostgresUserStorage {
	return &PostgresUserStorage{pool: pool}
}

func (s *PostgresUserStorage) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, email, hashed_password) VALUES ($1, $2, $3)`
	_, err := s.pool.Exec(ctx, query, user.ID, user.Email, user.HashedPassword)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (s *PostgresUserStorage) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, email, hashed_password FROM users WHERE email = $1`
	row := s.pool.QueryRow(ctx, query, email)
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresUserStorage) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT id, email, hashed_password FROM users WHERE id = $1`
	row := s.pool.QueryRow(ctx, query, id)
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type PostgresBookmarkStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresBookmarkStorage(pool *pgxpool.Pool) *PostgresBookmarkStorage {
	return &PostgresBookmarkStorage{pool: pool}
}

func (s *PostgresBookmarkStorage) Create(ctx context.Context, bookmark *Bookmark) error {
	query := `INSERT INTO bookmarks (id, original_url, short_code, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING visit_count, created_at`
	row := s.pool.QueryRow(ctx, query, bookmark.ID, bookmark.OriginalURL, bookmark.ShortCode, bookmark.UserID)
	err := row.Scan(&bookmark.VisitCount, &bookmark.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			// Unique constraints break the allocator's check-then-insert race
			switch pgErr.ConstraintName {
			case "bookmarks_short_code_key":
				return ErrShortCodeExists
			default:
				return ErrURLExists
			}
		}
		return err
	}
	return nil
}

func (s *PostgresBookmarkStorage) GetByOriginalURL(ctx context.Context, originalURL string) (*Bookmark, error) {
	query := `SELECT id, original_url, short_code, visit_count, created_at, user_id FROM bookmarks WHERE original_url = $1`
	return s.scanBookmark(s.pool.QueryRow(ctx, query, originalURL))
}

func (s *PostgresBookmarkStorage) GetByShortCode(ctx context.Context, shortCode string) (*Bookmark, error) {
	query := `SELECT id, original_url, short_code, visit_count, created_at, user_id FROM bookmarks WHERE short_code = $1`
	return s.scanBookmark(s.pool.QueryRow(ctx, query, shortCode))
}

func (s *PostgresBookmarkStorage) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*Bookmark, error) {
	query := `SELECT id, original_url, short_code, visit_count, created_at, user_id FROM bookmarks WHERE id = $1 AND user_id = $2`
	return s.scanBookmark(s.pool.QueryRow(ctx, query, id, userID))
}

func (s *PostgresBookmarkStorage) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Bookmark, error) {
	query := `SELECT id, original_url, short_code, visit_count, created_at, user_id FROM bookmarks WHERE user_id = $1 ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookmarks := []*Bookmark{}
	for rows.Next() {
		var b Bookmark
		err := rows.Scan(&b.ID, &b.OriginalURL, &b.ShortCode, &b.VisitCount, &b.CreatedAt, &b.UserID)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, &b)
	}
	return bookmarks, rows.Err()
}

func (s *PostgresBookmarkStorage) DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`
	tag, err := s.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

// ResolveAndCount increments the visit count and returns the bookmark in a
// single statement, so concurrent redirects never lose updates.
func (s *PostgresBookmarkStorage) ResolveAndCount(ctx context.Context, shortCode string) (*Bookmark, error) {
	query := `UPDATE bookmarks
		SET visit_count = visit_count + 1
		WHERE short_code = $1
		RETURNING id, original_url, short_code, visit_count, created_at, user_id`
	return s.scanBookmark(s.pool.QueryRow(ctx, query, shortCode))
}

func (s *PostgresBookmarkStorage) scanBookmark(row pgx.Row) (*Bookmark, error) {
	var b Bookmark
	err := row.Scan(&b.ID, &b.OriginalURL, &b.ShortCode, &b.VisitCount, &b.CreatedAt, &b.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookmarkNotFound
		}
		return nil, err
	}
	return &b, nil
}
