package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bookmark-service/pkg/logging"
	"bookmark-service/pkg/session"
	"bookmark-service/pkg/storage"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type contextKey string

const currentUserKey contextKey = "current_user"

// CurrentUser is the authenticated identity resolved from a bearer token,
// constructed fresh on every request.
type CurrentUser struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	SessionID      string
}

type AuthMiddleware struct {
	sessions *session.Manager
	users    storage.UserStorage
	logger   *logging.Logger
}

func NewAuthMiddleware(sessions *session.Manager, users storage.UserStorage, logger *logging.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// Authenticate resolves the Authorization header into a CurrentUser and
// injects it into the request context. Every failure path is a 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			unauthorized(w, r, "Missing or invalid Authorization header")
			return
		}

		record, err := m.sessions.Touch(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrSessionExpired):
				unauthorized(w, r, "Session expired")
			case errors.Is(err, session.ErrSessionNotFound):
				unauthorized(w, r, "No session found")
			default:
				// Session-store read failures surface as auth failures
				m.logger.Error(r.Context(), "session lookup failed", "error", err)
				unauthorized(w, r, "Error while fetching session data")
			}
			return
		}

		user, err := m.users.GetByID(r.Context(), record.UserID)
		if err != nil {
			unauthorized(w, r, "User not found")
			return
		}

		currentUser := &CurrentUser{
			ID:             user.ID,
			Email:          user.Email,
			HashedPassword: user.HashedPassword,
			SessionID:      token,
		}

		ctx := context.WithValue(r.Context(), currentUserKey, currentUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUserFromContext returns the identity set by Authenticate.
func CurrentUserFromContext(ctx context.Context) (*CurrentUser, bool) {
	user, ok := ctx.Value(currentUserKey).(*CurrentUser)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{"detail": detail})
}
