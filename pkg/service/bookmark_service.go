package service

import (
	"context"
	"errors"

	"bookmark-service/pkg/logging"
	"bookmark-service/pkg/storage"

	"github.com/google/uuid"
)

// createAttempts bounds retries of the whole insert when two concurrent
// allocations pass the uniqueness check before either commits.
const createAttempts = 3

type BookmarkService struct {
	storage    storage.BookmarkStorage
	logger     *logging.Logger
	codeLength int
	codeRetry  int
}

func NewBookmarkService(bookmarkStorage storage.BookmarkStorage, logger *logging.Logger, codeLength, codeRetry int) *BookmarkService {
	return &BookmarkService{
		storage:    bookmarkStorage,
		logger:     logger,
		codeLength: codeLength,
		codeRetry:  codeRetry,
	}
}

// Create allocates a short code and persists a bookmark for ownerID.
// The original URL is globally unique across all users.
func (s *BookmarkService) Create(ctx context.Context, ownerID uuid.UUID, originalURL string) (*storage.Bookmark, error) {
	existing, err := s.storage.GetByOriginalURL(ctx, originalURL)
	if err != nil && !errors.Is(err, storage.ErrBookmarkNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, storage.ErrURLExists
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := GenerateCode(ctx, s.codeLength, s.codeRetry, s.codeExists)
		if err != nil {
			return nil, err
		}

		bookmark := &storage.Bookmark{
			ID:          uuid.New(),
			OriginalURL: originalURL,
			ShortCode:   code,
			UserID:      ownerID,
		}

		err = s.storage.Create(ctx, bookmark)
		if errors.Is(err, storage.ErrShortCodeExists) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.LogBookmarkOperation(ctx, "create", code, true)
		return bookmark, nil
	}

	return nil, ErrCodeSpaceExhausted
}

// List returns all bookmarks owned by ownerID.
func (s *BookmarkService) List(ctx context.Context, ownerID uuid.UUID) ([]*storage.Bookmark, error) {
	return s.storage.ListByUser(ctx, ownerID)
}

// Get returns the bookmark only if it is owned by ownerID. A bookmark
// belonging to another user is reported as not found, never as forbidden.
func (s *BookmarkService) Get(ctx context.Context, ownerID, bookmarkID uuid.UUID) (*storage.Bookmark, error) {
	return s.storage.GetByIDAndUser(ctx, bookmarkID, ownerID)
}

// Delete hard-deletes the bookmark with the same ownership-scoped lookup as Get.
func (s *BookmarkService) Delete(ctx context.Context, ownerID, bookmarkID uuid.UUID) error {
	err := s.storage.DeleteByIDAndUser(ctx, bookmarkID, ownerID)
	if err != nil {
		return err
	}
	s.logger.LogBookmarkOperation(ctx, "delete", "", true)
	return nil
}

// Resolve looks up a short code, counts the visit, and returns the target URL.
func (s *BookmarkService) Resolve(ctx context.Context, shortCode string) (string, error) {
	bookmark, err := s.storage.ResolveAndCount(ctx, shortCode)
	if err != nil {
		if errors.Is(err, storage.ErrBookmarkNotFound) {
			s.logger.LogRedirect(ctx, shortCode, false)
		}
		return "", err
	}

	s.logger.LogRedirect(ctx, shortCode, true)
	return bookmark.OriginalURL, nil
}

func (s *BookmarkService) codeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.storage.GetByShortCode(ctx, code)
	if errors.Is(err, storage.ErrBookmarkNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
