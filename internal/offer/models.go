package offer

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty grades the physical demand of a travel package.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty grades.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
		return true
	}
	return false
}

// ItineraryDay is a single day of an offer's itinerary.
type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Offer is a bookable travel package.
type Offer struct {
	ID                uuid.UUID      `json:"id"`
	Title             string         `json:"title"`
	Slug              string         `json:"slug"`
	Destination       string         `json:"destination"`
	Category          string         `json:"category"`
	Price             float64        `json:"price"`
	Currency          string         `json:"currency"`
	Duration          int            `json:"duration"`
	Description       string         `json:"description"`
	Images            []string       `json:"images"`
	Itinerary         []ItineraryDay `json:"itinerary"`
	Included          []string       `json:"included"`
	Excluded          []string       `json:"excluded"`
	IsActive          bool           `json:"is_active"`
	IsPromotion       bool           `json:"is_promotion"`
	PromotionDiscount *float64       `json:"promotion_discount"`
	PromotionEndsAt   *time.Time     `json:"promotion_ends_at"`
	Rating            float64        `json:"rating"`
	ReviewsCount      int            `json:"reviews_count"`
	BookingsCount     int            `json:"bookings_count"`
	ViewsCount        int            `json:"views_count"`
	MaxCapacity       int            `json:"max_capacity"`
	AvailableSeats    int            `json:"available_seats"`
	DepartureDate     *time.Time     `json:"departure_date"`
	ReturnDate        *time.Time     `json:"return_date"`
	Tags              []string       `json:"tags"`
	Difficulty        Difficulty     `json:"difficulty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Nights returns the number of nights, which is duration-1 except for
// zero-duration offers (day trips without an overnight stay).
func (o Offer) Nights() int {
	if o.Duration <= 0 {
		return 0
	}
	return o.Duration - 1
}

// DisplayPrice returns the price after an active promotion discount.
// Without a promotion, or without a discount percentage, it equals Price.
func (o Offer) DisplayPrice() float64 {
	if o.IsPromotion && o.PromotionDiscount != nil {
		return o.Price * (1 - *o.PromotionDiscount/100)
	}
	return o.Price
}

// PromotionActive reports whether the offer's promotion applies at t.
func (o Offer) PromotionActive(t time.Time) bool {
	if !o.IsPromotion {
		return false
	}
	return o.PromotionEndsAt == nil || o.PromotionEndsAt.After(t)
}

// Summary is the search-result projection of an offer.
type Summary struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Destination       string     `json:"destination"`
	Category          string     `json:"category"`
	Price             float64    `json:"price"`
	DisplayPrice      float64    `json:"display_price"`
	Currency          string     `json:"currency"`
	Duration          int        `json:"duration"`
	Nights            int        `json:"nights"`
	Image             string     `json:"image"`
	IsPromotion       bool       `json:"is_promotion"`
	PromotionDiscount *float64   `json:"promotion_discount"`
	PromotionEndsAt   *time.Time `json:"promotion_ends_at"`
	Rating            float64    `json:"rating"`
	ReviewsCount      int        `json:"reviews_count"`
	BookingsCount     int        `json:"bookings_count"`
	ViewsCount        int        `json:"views_count"`
	MaxCapacity       int        `json:"max_capacity"`
	AvailableSeats    int        `json:"available_seats"`
	DepartureDate     *time.Time `json:"departure_date"`
	ReturnDate        *time.Time `json:"return_date"`
	Tags              []string   `json:"tags"`
	Difficulty        Difficulty `json:"difficulty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Summary projects the offer into its search-result shape.
func (o Offer) Summary() Summary {
	image := ""
	if len(o.Images) > 0 {
		image = o.Images[0]
	}
	return Summary{
		ID:                o.ID,
		Title:             o.Title,
		Slug:              o.Slug,
		Destination:       o.Destination,
		Category:          o.Category,
		Price:             o.Price,
		DisplayPrice:      o.DisplayPrice(),
		Currency:          o.Currency,
		Duration:          o.Duration,
		Nights:            o.Nights(),
		Image:             image,
		IsPromotion:       o.IsPromotion,
		PromotionDiscount: o.PromotionDiscount,
		PromotionEndsAt:   o.PromotionEndsAt,
		Rating:            o.Rating,
		ReviewsCount:      o.ReviewsCount,
		BookingsCount:     o.BookingsCount,
		ViewsCount:        o.ViewsCount,
		MaxCapacity:       o.MaxCapacity,
		AvailableSeats:    o.AvailableSeats,
		DepartureDate:     o.DepartureDate,
		ReturnDate:        o.ReturnDate,
		Tags:              o.Tags,
		Difficulty:        o.Difficulty,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// Summaries projects a slice of offers.
func Summaries(offers []Offer) []Summary {
	out := make([]Summary, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.Summary())
	}
	return out
}
