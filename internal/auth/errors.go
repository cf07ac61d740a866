package auth

import "errors"

var (
	// ErrEmailAlreadyExists indicates the email is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound signals that the user could not be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized represents missing or invalid authentication tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRefreshTokenInvalid is returned when an exchanged refresh token is
	// unknown, revoked or expired.
	ErrRefreshTokenInvalid = errors.New("refresh token invalid")
	// ErrWrongRole is returned when a user authenticates through the
	// endpoint of the other role.
	ErrWrongRole = errors.New("wrong role")
)
