package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 5 * time.Second

// Repository stores settings sections as JSONB documents keyed by name.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Load reads every stored section. Missing sections are simply absent
// from the returned map.
func (r *Repository) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT section, value FROM settings;`)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	sections := make(map[string]json.RawMessage)
	for rows.Next() {
		var section string
		var value json.RawMessage
		if err := rows.Scan(&section, &value); err != nil {
			return nil, fmt.Errorf("scan settings row: %w", err)
		}
		sections[section] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return sections, nil
}

// Save upserts one section document.
func (r *Repository) Save(ctx context.Context, section string, value json.RawMessage) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
INSERT INTO settings (section, value) VALUES ($1, $2)
ON CONFLICT (section) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();`,
		section, value,
	)
	if err != nil {
		return fmt.Errorf("save settings section %s: %w", section, err)
	}
	return nil
}
