package storage

import "errors"

var (
	// ErrEmailExists is returned when a user with the same email is already registered.
	ErrEmailExists = errors.New("email exists")
	// ErrURLExists is returned when a bookmark for the same original URL already exists.
	ErrURLExists = errors.New("original url exists")
	// ErrShortCodeExists is returned when an insert collides with an existing short code.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrBookmarkNotFound is returned when no bookmark matches the lookup.
	ErrBookmarkNotFound = errors.New("bookmark not found")
)
