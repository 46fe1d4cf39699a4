package model

import "time"

// Role constants. The set is closed: a role is assigned at creation and
// never changes afterwards.
const (
	RoleSuper  = "SUPER"
	RoleDoctor = "DOCTOR"
	RoleNurse  = "NURSE"
)

// User represents a staff account. Accounts are created by a SUPER actor
// and never deleted, only deactivated.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sanitized returns a copy safe to hand to clients, with the stored
// credential blanked.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=SUPER DOCTOR NURSE"`
}

// SetUserStatusRequest represents an activation toggle
type SetUserStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}
