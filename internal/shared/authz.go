package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Authz wires role checks for HTTP handlers. Role decisions come exclusively
// from the authenticated actor resolved server-side; nothing client-supplied
// is consulted.
type Authz struct {
	Logger *slog.Logger
}

// RequireRole ensures the current actor carries one of the given roles.
func (a Authz) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				denyProblem(w, http.StatusUnauthorized)
				return
			}
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, granted := allowed[actor.Role]; !granted {
				if a.Logger != nil {
					a.Logger.Warn("role denied", slog.Int64("user_id", actor.UserID), slog.String("role", string(actor.Role)))
				}
				denyProblem(w, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated only checks that an actor is present.
func (a Authz) RequireAuthenticated() func(http.Handler) http.Handler {
	return a.RequireRole()
}

// denyProblem writes an RFC7807 problem document matching the shape the
// httpx package produces. It is duplicated here rather than imported
// because httpx depends on this package for its error mapping.
func denyProblem(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Title  string `json:"title"`
		Status int    `json:"status"`
	}{
		Title:  http.StatusText(status),
		Status: status,
	})
}
