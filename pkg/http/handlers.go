package http

import (
	"errors"
	"net/http"

	"bookmark-service/pkg/middleware"
	"bookmark-service/pkg/service"
	"bookmark-service/pkg/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	authService     *service.AuthService
	bookmarkService *service.BookmarkService
	validate        *validator.Validate
}

func NewHandler(authService *service.AuthService, bookmarkService *service.BookmarkService) *Handler {
	return &Handler{
		authService:     authService,
		bookmarkService: bookmarkService,
		validate:        validator.New(),
	}
}

type authRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

type bookmarkRequest struct {
	OriginalURL string `json:"original_url" validate:"required"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Email is required")
		return
	}

	token, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEmailExists):
			respondError(w, r, http.StatusBadRequest, "Username already registered")
		case errors.Is(err, service.ErrPasswordRequired):
			respondError(w, r, http.StatusBadRequest, "Password is required")
		default:
			respondError(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, sessionResponse{SessionID: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Email is required")
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			respondError(w, r, http.StatusBadRequest, "Username not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(w, r, http.StatusUnauthorized, "Incorrect password")
		default:
			respondError(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, sessionResponse{SessionID: token})
}

func (h *Handler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	currentUser, ok := middleware.CurrentUserFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	var req bookmarkRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Original URL is required")
		return
	}

	bookmark, err := h.bookmarkService.Create(r.Context(), currentUser.ID, req.OriginalURL)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrURLExists):
			respondError(w, r, http.StatusBadRequest, "Bookmark exists")
		default:
			respondError(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, bookmark)
}

func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	currentUser, ok := middleware.CurrentUserFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	bookmarks, err := h.bookmarkService.List(r.Context(), currentUser.ID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, bookmarks)
}

func (h *Handler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	currentUser, ok := middleware.CurrentUserFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	bookmarkID, err := uuid.Parse(chi.URLParam(r, "bookmarkID"))
	if err != nil {
		respondError(w, r, http.StatusNotFound, "Bookmark not found")
		return
	}

	bookmark, err := h.bookmarkService.Get(r.Context(), currentUser.ID, bookmarkID)
	if err != nil {
		if errors.Is(err, storage.ErrBookmarkNotFound) {
			respondError(w, r, http.StatusNotFound, "Bookmark not found")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, bookmark)
}

func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	currentUser, ok := middleware.CurrentUserFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	bookmarkID, err := uuid.Parse(chi.URLParam(r, "bookmarkID"))
	if err != nil {
		respondError(w, r, http.StatusNotFound, "Bookmark not found")
		return
	}

	err = h.bookmarkService.Delete(r.Context(), currentUser.ID, bookmarkID)
	if err != nil {
		if errors.Is(err, storage.ErrBookmarkNotFound) {
			respondError(w, r, http.StatusNotFound, "Bookmark not found")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	target, err := h.bookmarkService.Resolve(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, storage.ErrBookmarkNotFound) {
			respondError(w, r, http.StatusNotFound, "Bookmark not found")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) HealthStatus(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"detail": detail})
}

func SetupRoutes(r *chi.Mux, handler *Handler, authMiddleware *middleware.AuthMiddleware) {
	r.Get("/health/status", handler.HealthStatus)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
	})
	r.Route("/bookmark", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/create", handler.CreateBookmark)
		r.Get("/get/all", handler.ListBookmarks)
		r.Get("/get/{bookmarkID}", handler.GetBookmark)
		r.Delete("/delete/{bookmarkID}", handler.DeleteBookmark)
	})
	r.Get("/redirect/code/{shortCode}", handler.Redirect)
}
