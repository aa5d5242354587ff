package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the access level of a user
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStatus controls whether an account may log in
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// Valid reports whether s is a known status
func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Level bounds
const (
	MinLevel = 1
	MaxLevel = 5
)

// User represents a user entity
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize password hash
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`
	Level        int        `json:"level"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// IsAdmin reports whether the user may access admin endpoints
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive reports whether the user may log in
func (u *User) IsActive() bool {
	return u.Status != StatusInactive
}

// UserUpdate holds the admin-editable account fields. Nil fields are left unchanged.
type UserUpdate struct {
	Email  *string
	Role   *UserRole
	Status *UserStatus
	Level  *int
}

// IsEmpty reports whether no field is set
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.Role == nil && u.Status == nil && u.Level == nil
}

// UserStats summarizes a user's activity
type UserStats struct {
	TotalSessions int        `json:"total_sessions"`
	AverageRating float64    `json:"average_rating"`
	LastLogin     *time.Time `json:"last_login"`
	Level         int        `json:"level"`
}
