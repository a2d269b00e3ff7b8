package users

import (
	"time"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// User is an account that can log in: either a showroom admin or a customer.
type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone,omitempty"`
	PasswordHash string      `json:"-"`
	Role         shared.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Actor converts the user into the request-scoped identity.
func (u User) Actor() shared.Actor {
	return shared.Actor{UserID: u.ID, Role: u.Role}
}
