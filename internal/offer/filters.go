package offer

import "time"

// SortKey selects the primary ordering of search results.
type SortKey string

const (
	SortPrice     SortKey = "price"
	SortDuration  SortKey = "duration"
	SortRating    SortKey = "rating"
	SortCreatedAt SortKey = "createdAt"
	SortBookings  SortKey = "bookings"
	SortViews     SortKey = "views"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortPrice, SortDuration, SortRating, SortCreatedAt, SortBookings, SortViews:
		return true
	}
	return false
}

// SortOrder is the direction of the primary sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Filters narrows an offer search. Zero values mean "no constraint".
type Filters struct {
	Search          string
	Destination     string
	Category        string
	MinPrice        *float64
	MaxPrice        *float64
	MinDuration     *int
	MaxDuration     *int
	DurationBuckets []string
	MinRating       *float64
	Difficulty      Difficulty
	Tags            []string
	DepartureFrom   *time.Time
	ReturnBy        *time.Time
	Travelers       *int
	PromotionOnly   bool
	// ActiveOnly restricts by is_active; nil means no restriction.
	// Public listings set it to true, the admin listing passes it through.
	ActiveOnly *bool
}

// Inverted reports whether any min/max pair contradicts itself
// (minPrice > maxPrice, minDuration > maxDuration, departure after return).
// An inverted filter set matches nothing.
func (f Filters) Inverted() bool {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return true
	}
	if f.MinDuration != nil && f.MaxDuration != nil && *f.MinDuration > *f.MaxDuration {
		return true
	}
	if f.DepartureFrom != nil && f.ReturnBy != nil && f.DepartureFrom.After(*f.ReturnBy) {
		return true
	}
	return false
}

// Params is a full search request: filters plus pagination and sort.
type Params struct {
	Filters
	Page      int
	Limit     int
	SortBy    SortKey
	SortOrder SortOrder
}

// Normalize clamps pagination and sort to usable values.
func (p Params) Normalize(defaultLimit, maxLimit int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if !p.SortBy.Valid() {
		p.SortBy = SortCreatedAt
	}
	if p.SortOrder != OrderAsc && p.SortOrder != OrderDesc {
		p.SortOrder = OrderDesc
	}
	return p
}

// Offset returns the zero-based row offset of the requested page window.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is a filtered, sorted, windowed offer result set.
type Page struct {
	Data       []Offer
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// NewPage assembles pagination metadata; TotalPages is ceil(total/limit).
func NewPage(data []Offer, page, limit, total int) Page {
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Page{Data: data, Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
