package category

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

const categoryColumns = `id, name, slug, description, icon, display_order, is_active, created_at, updated_at`

// Repository provides database access for categories.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCategory(row pgx.Row) (Category, error) {
	var cat Category
	err := row.Scan(
		&cat.ID,
		&cat.Name,
		&cat.Slug,
		&cat.Description,
		&cat.Icon,
		&cat.DisplayOrder,
		&cat.IsActive,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	)
	return cat, err
}

// List returns categories ordered by display order then name. When
// activeOnly is set, inactive categories are filtered out.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM categories`, categoryColumns)
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY display_order ASC, name ASC, id ASC;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetByID fetches a single category.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1;`, categoryColumns)

	cat, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		return Category{}, fmt.Errorf("get category: %w", err)
	}
	return cat, nil
}

// Create persists a new category.
func (r *Repository) Create(ctx context.Context, cat Category) (Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
INSERT INTO categories (id, name, slug, description, icon, display_order, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING %s;`, categoryColumns)

	stored, err := scanCategory(r.pool.QueryRow(ctx, query,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.Icon, cat.DisplayOrder, cat.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, ErrNameAlreadyUsed
		}
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return stored, nil
}

// Update replaces the mutable fields of a category.
func (r *Repository) Update(ctx context.Context, cat Category) (Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
UPDATE categories
SET name = $2, slug = $3, description = $4, icon = $5, display_order = $6, is_active = $7, updated_at = NOW()
WHERE id = $1
RETURNING %s;`, categoryColumns)

	stored, err := scanCategory(r.pool.QueryRow(ctx, query,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.Icon, cat.DisplayOrder, cat.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		if isUniqueViolation(err) {
			return Category{}, ErrNameAlreadyUsed
		}
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	return stored, nil
}

// ToggleActive flips the is_active flag.
func (r *Repository) ToggleActive(ctx context.Context, id uuid.UUID) (Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
UPDATE categories SET is_active = NOT is_active, updated_at = NOW()
WHERE id = $1
RETURNING %s;`, categoryColumns)

	cat, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		return Category{}, fmt.Errorf("toggle category: %w", err)
	}
	return cat, nil
}

// Delete removes a category.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
