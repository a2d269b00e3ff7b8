package shared

import "context"

// Role is the coarse authorization level of an authenticated user.
type Role string

const (
	// RoleAdmin may manage the catalog and drive order fulfillment.
	RoleAdmin Role = "admin"
	// RoleUser is a customer owning zero or more orders.
	RoleUser Role = "user"
)

// IsValid reports whether the role is one of the known levels.
func (r Role) IsValid() bool { return r == RoleAdmin || r == RoleUser }

// Actor describes the authenticated principal for the current request.
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

type actorContextKey struct{}

// ContextWithActor stores the actor in context.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}
