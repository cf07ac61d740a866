package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 5 * time.Second

const userColumns = `id, email, role, first_name, last_name, phone, password_hash, created_at, updated_at`

// Repository provides database access for authentication concerns.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// CreateUser persists a new user record.
func (r *Repository) CreateUser(ctx context.Context, user User) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
INSERT INTO users (id, email, role, first_name, last_name, phone, password_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING %s;`, userColumns)

	stored, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Role, user.FirstName, user.LastName, user.Phone, user.PasswordHash,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailAlreadyExists
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return stored, nil
}

// FindUserByEmail fetches a user by email.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1;`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

// FindUserByID fetches a user by identifier.
func (r *Repository) FindUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1;`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

// StoreRefreshToken saves a refresh token hash for the user.
func (r *Repository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
INSERT INTO refresh_tokens (user_id, token_hash, expires_at, revoked_at)
VALUES ($1, $2, $3, NULL)
ON CONFLICT (user_id, token_hash)
DO UPDATE SET expires_at = EXCLUDED.expires_at, revoked_at = NULL, created_at = NOW();`

	if _, err := r.pool.Exec(ctx, query, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

// FindRefreshToken locates a refresh token record by its hash.
func (r *Repository) FindRefreshToken(ctx context.Context, tokenHash string) (RefreshRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
SELECT user_id, token_hash, expires_at, revoked_at
FROM refresh_tokens
WHERE token_hash = $1;`

	var rec RefreshRecord
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&rec.UserID, &rec.TokenHash, &rec.ExpiresAt, &rec.RevokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RefreshRecord{}, ErrRefreshTokenInvalid
		}
		return RefreshRecord{}, fmt.Errorf("find refresh token: %w", err)
	}

	return rec, nil
}

// RevokeToken marks a refresh token as revoked.
func (r *Repository) RevokeToken(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
UPDATE refresh_tokens
SET revoked_at = NOW()
WHERE user_id = $1 AND token_hash = $2;`

	if _, err := r.pool.Exec(ctx, query, userID, tokenHash); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
