package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Middleware resolves a Bearer token into the request actor. Requests with
// no token, or a stale one, pass through anonymous; the authz middlewares
// downstream decide whether that is acceptable for the route.
func (s *SessionStore) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			actor, err := s.Resolve(r.Context(), token)
			if err != nil {
				logger.Debug("resolve session", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}
