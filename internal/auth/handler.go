package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abjour-erp/abjour-erp/internal/platform/httpx"
	"github.com/abjour-erp/abjour-erp/internal/shared"
	"github.com/abjour-erp/abjour-erp/internal/users"
)

// CredentialChecker validates a login attempt.
type CredentialChecker interface {
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
}

// Handler wires the login and logout endpoints.
type Handler struct {
	logger   *slog.Logger
	accounts CredentialChecker
	sessions *SessionStore
	validate *validator.Validate
}

// NewHandler constructs the auth handler.
func NewHandler(logger *slog.Logger, accounts CredentialChecker, sessions *SessionStore, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, accounts: accounts, sessions: sessions, validate: validate}
}

// MountRoutes registers the auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	UserID    int64       `json:"user_id"`
	Role      shared.Role `json:"role"`
	ExpiresIn int64       `json:"expires_in"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	u, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	token, err := h.sessions.Create(r.Context(), u.Actor())
	if err != nil {
		h.logger.Error("create session", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		UserID:    u.ID,
		Role:      u.Role,
		ExpiresIn: int64(h.sessions.TTL().Seconds()),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return
	}
	if err := h.sessions.Delete(r.Context(), token); err != nil {
		h.logger.Error("delete session", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
