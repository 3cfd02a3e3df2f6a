package service

import (
	"context"
	"errors"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// ErrCodeSpaceExhausted is returned when the allocator gives up after
// repeatedly generating codes that already exist.
var ErrCodeSpaceExhausted = errors.New("exhausted retries generating a unique short code")

// GenerateCode allocates a random alphanumeric short code that passes the
// supplied uniqueness check. The check only narrows the race window; the
// storage layer's unique constraint is the authoritative guard.
func GenerateCode(ctx context.Context, length, maxRetries int, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	for i := 0; i < maxRetries; i++ {
		code, err := gonanoid.Generate(codeAlphabet, length)
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
