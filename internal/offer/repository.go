package offer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

const offerColumns = `id, title, slug, destination, category, price, currency, duration,
description, images, itinerary, included, excluded, is_active, is_promotion,
promotion_discount, promotion_ends_at, rating, reviews_count, bookings_count,
views_count, max_capacity, available_seats, departure_date, return_date, tags,
difficulty, created_at, updated_at`

// Repository provides Postgres-backed offer storage. Filtering, sorting and
// pagination are delegated to the database through a dynamically built query.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new offer repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner, extra ...any) (Offer, error) {
	var (
		o         Offer
		itinerary []byte
	)
	dest := []any{
		&o.ID, &o.Title, &o.Slug, &o.Destination, &o.Category, &o.Price, &o.Currency,
		&o.Duration, &o.Description, &o.Images, &itinerary, &o.Included, &o.Excluded,
		&o.IsActive, &o.IsPromotion, &o.PromotionDiscount, &o.PromotionEndsAt,
		&o.Rating, &o.ReviewsCount, &o.BookingsCount, &o.ViewsCount, &o.MaxCapacity,
		&o.AvailableSeats, &o.DepartureDate, &o.ReturnDate, &o.Tags, &o.Difficulty,
		&o.CreatedAt, &o.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return Offer{}, err
	}
	if len(itinerary) > 0 {
		if err := json.Unmarshal(itinerary, &o.Itinerary); err != nil {
			return Offer{}, fmt.Errorf("decode itinerary: %w", err)
		}
	}
	return o, nil
}

// Search runs the filter/sort/page query against Postgres.
func (r *Repository) Search(ctx context.Context, p Params) (Page, error) {
	if p.Inverted() {
		return NewPage([]Offer{}, p.Page, p.Limit, 0), nil
	}

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query, countQuery, args, countArgs := searchSQL(p)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("search offers: %w", err)
	}
	defer rows.Close()

	offers := []Offer{}
	total := 0
	for rows.Next() {
		o, err := scanOffer(rows, &total)
		if err != nil {
			return Page{}, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("search offers: %w", err)
	}

	// The window total only travels with rows. An offset past the last
	// match returns none, so the true count needs its own query.
	if len(offers) == 0 && p.Offset() > 0 {
		if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return Page{}, fmt.Errorf("count offers: %w", err)
		}
	}

	return NewPage(offers, p.Page, p.Limit, total), nil
}

// searchSQL builds the windowed search query together with a count query
// sharing the same WHERE clause and filter arguments.
func searchSQL(p Params) (query, countQuery string, args, countArgs []any) {
	where, whereArgs := buildWhere(p.Filters)

	countArgs = whereArgs
	args = append(append([]any{}, whereArgs...), p.Limit, p.Offset())

	query = fmt.Sprintf(`
SELECT %s, COUNT(*) OVER() AS total
FROM offers
%s
ORDER BY %s, id ASC
LIMIT $%d OFFSET $%d;`,
		offerColumns, where, orderClause(p.SortBy, p.SortOrder), len(args)-1, len(args))

	countQuery = strings.TrimSpace(fmt.Sprintf("SELECT COUNT(*) FROM offers %s", where)) + ";"
	return query, countQuery, args, countArgs
}

func buildWhere(f Filters) (string, []any) {
	clauses := []string{}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		ph := arg("%" + f.Search + "%")
		clauses = append(clauses, fmt.Sprintf("(title ILIKE %s OR destination ILIKE %s OR description ILIKE %s)", ph, ph, ph))
	}
	if f.Destination != "" {
		clauses = append(clauses, "destination ILIKE "+arg("%"+f.Destination+"%"))
	}
	if f.Category != "" {
		clauses = append(clauses, "LOWER(category) = LOWER("+arg(f.Category)+")")
	}
	if f.MinPrice != nil {
		clauses = append(clauses, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "price <= "+arg(*f.MaxPrice))
	}
	if f.MinDuration != nil {
		clauses = append(clauses, "duration >= "+arg(*f.MinDuration))
	}
	if f.MaxDuration != nil {
		clauses = append(clauses, "duration <= "+arg(*f.MaxDuration))
	}
	if len(f.DurationBuckets) > 0 {
		if bucket := bucketClause(f.DurationBuckets, arg); bucket != "" {
			clauses = append(clauses, bucket)
		}
	}
	if f.MinRating != nil {
		clauses = append(clauses, "rating >= "+arg(*f.MinRating))
	}
	if f.Difficulty != "" {
		clauses = append(clauses, "difficulty = "+arg(string(f.Difficulty)))
	}
	if len(f.Tags) > 0 {
		clauses = append(clauses, "tags @> "+arg(f.Tags))
	}
	if f.DepartureFrom != nil {
		clauses = append(clauses, "departure_date >= "+arg(*f.DepartureFrom))
	}
	if f.ReturnBy != nil {
		clauses = append(clauses, "return_date <= "+arg(*f.ReturnBy))
	}
	if f.Travelers != nil {
		clauses = append(clauses, "available_seats >= "+arg(*f.Travelers))
	}
	if f.PromotionOnly {
		clauses = append(clauses, "is_promotion AND (promotion_ends_at IS NULL OR promotion_ends_at > NOW())")
	}
	if f.ActiveOnly != nil {
		clauses = append(clauses, "is_active = "+arg(*f.ActiveOnly))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func bucketClause(buckets []string, arg func(any) string) string {
	parts := []string{}
	for _, b := range buckets {
		b = strings.TrimSpace(b)
		switch {
		case strings.HasSuffix(b, "+"):
			if min, err := parseInt(strings.TrimSuffix(b, "+")); err == nil {
				parts = append(parts, "duration >= "+arg(min))
			}
		case strings.Contains(b, "-"):
			bounds := strings.SplitN(b, "-", 2)
			lo, errLo := parseInt(bounds[0])
			hi, errHi := parseInt(bounds[1])
			if errLo == nil && errHi == nil {
				parts = append(parts, fmt.Sprintf("duration BETWEEN %s AND %s", arg(lo), arg(hi)))
			}
		default:
			if exact, err := parseInt(b); err == nil {
				parts = append(parts, "duration = "+arg(exact))
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func parseInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n)
	return n, err
}

func orderClause(key SortKey, order SortOrder) string {
	col := "created_at"
	switch key {
	case SortPrice:
		col = "price"
	case SortDuration:
		col = "duration"
	case SortRating:
		col = "rating"
	case SortBookings:
		col = "bookings_count"
	case SortViews:
		col = "views_count"
	}
	dir := "DESC"
	if order == OrderAsc {
		dir = "ASC"
	}
	return col + " " + dir
}

// GetByID fetches a single offer.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM offers WHERE id = $1;", offerColumns)
	o, err := scanOffer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, ErrOfferNotFound
		}
		return Offer{}, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

// Promotional lists active offers whose promotion has not expired,
// highest discount first.
func (r *Repository) Promotional(ctx context.Context, limit int) ([]Offer, error) {
	query := fmt.Sprintf(`
SELECT %s FROM offers
WHERE is_active AND is_promotion AND (promotion_ends_at IS NULL OR promotion_ends_at > NOW())
ORDER BY promotion_discount DESC NULLS LAST, id ASC
LIMIT $1;`, offerColumns)
	return r.list(ctx, query, limit)
}

// Popular lists active offers by booking count.
func (r *Repository) Popular(ctx context.Context, limit int) ([]Offer, error) {
	query := fmt.Sprintf(`
SELECT %s FROM offers
WHERE is_active
ORDER BY bookings_count DESC, id ASC
LIMIT $1;`, offerColumns)
	return r.list(ctx, query, limit)
}

// Suggested lists active offers by rating.
func (r *Repository) Suggested(ctx context.Context, limit int) ([]Offer, error) {
	query := fmt.Sprintf(`
SELECT %s FROM offers
WHERE is_active
ORDER BY rating DESC, id ASC
LIMIT $1;`, offerColumns)
	return r.list(ctx, query, limit)
}

func (r *Repository) list(ctx context.Context, query string, limit int) ([]Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := []Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// Create inserts a new offer.
func (r *Repository) Create(ctx context.Context, o Offer) (Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	itinerary, err := json.Marshal(o.Itinerary)
	if err != nil {
		return Offer{}, fmt.Errorf("encode itinerary: %w", err)
	}

	query := fmt.Sprintf(`
INSERT INTO offers (id, title, slug, destination, category, price, currency, duration,
description, images, itinerary, included, excluded, is_active, is_promotion,
promotion_discount, promotion_ends_at, rating, reviews_count, bookings_count,
views_count, max_capacity, available_seats, departure_date, return_date, tags, difficulty)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
$18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
RETURNING %s;`, offerColumns)

	stored, err := scanOffer(r.pool.QueryRow(ctx, query,
		o.ID, o.Title, o.Slug, o.Destination, o.Category, o.Price, o.Currency, o.Duration,
		o.Description, o.Images, itinerary, o.Included, o.Excluded, o.IsActive, o.IsPromotion,
		o.PromotionDiscount, o.PromotionEndsAt, o.Rating, o.ReviewsCount, o.BookingsCount,
		o.ViewsCount, o.MaxCapacity, o.AvailableSeats, o.DepartureDate, o.ReturnDate,
		o.Tags, o.Difficulty,
	))
	if err != nil {
		return Offer{}, fmt.Errorf("create offer: %w", err)
	}
	return stored, nil
}

// Update rewrites all mutable columns of an existing offer.
func (r *Repository) Update(ctx context.Context, o Offer) (Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	itinerary, err := json.Marshal(o.Itinerary)
	if err != nil {
		return Offer{}, fmt.Errorf("encode itinerary: %w", err)
	}

	query := fmt.Sprintf(`
UPDATE offers SET
title = $2, slug = $3, destination = $4, category = $5, price = $6, currency = $7,
duration = $8, description = $9, images = $10, itinerary = $11, included = $12,
excluded = $13, is_active = $14, is_promotion = $15, promotion_discount = $16,
promotion_ends_at = $17, rating = $18, max_capacity = $19, available_seats = $20,
departure_date = $21, return_date = $22, tags = $23, difficulty = $24, updated_at = NOW()
WHERE id = $1
RETURNING %s;`, offerColumns)

	stored, err := scanOffer(r.pool.QueryRow(ctx, query,
		o.ID, o.Title, o.Slug, o.Destination, o.Category, o.Price, o.Currency,
		o.Duration, o.Description, o.Images, itinerary, o.Included, o.Excluded,
		o.IsActive, o.IsPromotion, o.PromotionDiscount, o.PromotionEndsAt, o.Rating,
		o.MaxCapacity, o.AvailableSeats, o.DepartureDate, o.ReturnDate, o.Tags, o.Difficulty,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, ErrOfferNotFound
		}
		return Offer{}, fmt.Errorf("update offer: %w", err)
	}
	return stored, nil
}

// ToggleActive flips is_active and returns the new value.
func (r *Repository) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var active bool
	err := r.pool.QueryRow(ctx,
		`UPDATE offers SET is_active = NOT is_active, updated_at = NOW() WHERE id = $1 RETURNING is_active;`,
		id,
	).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrOfferNotFound
		}
		return false, fmt.Errorf("toggle offer status: %w", err)
	}
	return active, nil
}

// Delete removes an offer.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM offers WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// IncrementViews bumps the view counter without touching updated_at.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `UPDATE offers SET views_count = views_count + 1 WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}
