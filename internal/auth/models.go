package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes back-office administrators from travel clients.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// User represents an application user.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	FirstName    *string   `json:"first_name,omitempty"`
	LastName     *string   `json:"last_name,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SafeUser removes sensitive fields for response payloads.
func (u User) SafeUser() User {
	u.PasswordHash = ""
	return u
}

// TokenPair bundles access and refresh tokens.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// RefreshRecord is a stored refresh token hash with its owner.
type RefreshRecord struct {
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Expired reports whether the record can no longer be exchanged at t.
func (r RefreshRecord) Expired(t time.Time) bool {
	return r.RevokedAt != nil || r.ExpiresAt.Before(t)
}
