package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 5 * time.Second

// displayPriceSQL mirrors Offer.DisplayPrice for in-database aggregation.
const displayPriceSQL = `(CASE
    WHEN is_promotion AND promotion_discount IS NOT NULL
        THEN price * (1 - promotion_discount / 100)
    ELSE price
END)`

// Repository computes dashboard aggregates directly in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Stats runs the aggregate queries and assembles the dashboard figures.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var stats Stats

	// Revenue values a booking at the promotion-adjusted price. Without a
	// reservations table, the monthly figure covers departures this month.
	err := r.pool.QueryRow(ctx, `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE is_active),
    COUNT(*) FILTER (WHERE is_promotion AND (promotion_ends_at IS NULL OR promotion_ends_at > NOW())),
    COALESCE(AVG(rating), 0),
    COALESCE(SUM(views_count), 0),
    COALESCE(SUM(bookings_count), 0),
    COALESCE(SUM(`+displayPriceSQL+` * bookings_count), 0),
    COALESCE(SUM(`+displayPriceSQL+` * bookings_count) FILTER (
        WHERE departure_date >= date_trunc('month', NOW())
          AND departure_date < date_trunc('month', NOW()) + INTERVAL '1 month'
    ), 0)
FROM offers;`).Scan(
		&stats.TotalOffers,
		&stats.ActiveOffers,
		&stats.Promotions,
		&stats.AverageRating,
		&stats.TotalViews,
		&stats.TotalBookings,
		&stats.TotalRevenue,
		&stats.RevenueThisMonth,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate offers: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
SELECT
    COUNT(*) FILTER (WHERE role = 'client'),
    COUNT(*) FILTER (WHERE role = 'client' AND created_at >= date_trunc('month', NOW()))
FROM users;`).Scan(
		&stats.TotalClients,
		&stats.NewClientsThisMonth,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate users: %w", err)
	}

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories;`).Scan(&stats.TotalCategories)
	if err != nil {
		return Stats{}, fmt.Errorf("count categories: %w", err)
	}

	return stats, nil
}
