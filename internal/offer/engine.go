package offer

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// SearchSlice applies params to an in-memory offer collection: filter
// predicates first, then the requested comparator, then the page window
// (page-1)*limit .. page*limit. Params must already be normalized.
// Equal sort keys fall back to ascending offer id so ordering is
// deterministic regardless of the input order.
func SearchSlice(offers []Offer, p Params, now time.Time) Page {
	if p.Inverted() {
		return NewPage([]Offer{}, p.Page, p.Limit, 0)
	}

	filtered := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if matches(o, p.Filters, now) {
			filtered = append(filtered, o)
		}
	}

	sortOffers(filtered, p.SortBy, p.SortOrder)

	total := len(filtered)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}

	return NewPage(filtered[start:end], p.Page, p.Limit, total)
}

func matches(o Offer, f Filters, now time.Time) bool {
	if f.ActiveOnly != nil && o.IsActive != *f.ActiveOnly {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(o.Title), needle) &&
			!strings.Contains(strings.ToLower(o.Destination), needle) &&
			!strings.Contains(strings.ToLower(o.Description), needle) {
			return false
		}
	}
	if f.Destination != "" && !strings.Contains(strings.ToLower(o.Destination), strings.ToLower(f.Destination)) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(o.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && o.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && o.Price > *f.MaxPrice {
		return false
	}
	if f.MinDuration != nil && o.Duration < *f.MinDuration {
		return false
	}
	if f.MaxDuration != nil && o.Duration > *f.MaxDuration {
		return false
	}
	if len(f.DurationBuckets) > 0 && !matchesDurationBucket(o.Duration, f.DurationBuckets) {
		return false
	}
	if f.MinRating != nil && o.Rating < *f.MinRating {
		return false
	}
	if f.Difficulty != "" && o.Difficulty != f.Difficulty {
		return false
	}
	if len(f.Tags) > 0 && !hasAllTags(o.Tags, f.Tags) {
		return false
	}
	if f.DepartureFrom != nil {
		if o.DepartureDate == nil || o.DepartureDate.Before(*f.DepartureFrom) {
			return false
		}
	}
	if f.ReturnBy != nil {
		if o.ReturnDate == nil || o.ReturnDate.After(*f.ReturnBy) {
			return false
		}
	}
	if f.Travelers != nil && o.AvailableSeats < *f.Travelers {
		return false
	}
	if f.PromotionOnly && !o.PromotionActive(now) {
		return false
	}
	return true
}

// matchesDurationBucket accepts three bucket forms: an exact day count
// ("7"), an inclusive range ("3-5"), and an open tail ("14+").
func matchesDurationBucket(duration int, buckets []string) bool {
	for _, b := range buckets {
		b = strings.TrimSpace(b)
		switch {
		case strings.HasSuffix(b, "+"):
			if min, err := strconv.Atoi(strings.TrimSuffix(b, "+")); err == nil && duration >= min {
				return true
			}
		case strings.Contains(b, "-"):
			parts := strings.SplitN(b, "-", 2)
			lo, errLo := strconv.Atoi(strings.TrimSpace(parts[0]))
			hi, errHi := strconv.Atoi(strings.TrimSpace(parts[1]))
			if errLo == nil && errHi == nil && duration >= lo && duration <= hi {
				return true
			}
		default:
			if exact, err := strconv.Atoi(b); err == nil && duration == exact {
				return true
			}
		}
	}
	return false
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortOffers(offers []Offer, key SortKey, order SortOrder) {
	less := comparator(key)
	sort.Slice(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if order == OrderDesc {
			a, b = b, a
		}
		switch less(a, b) {
		case -1:
			return true
		case 1:
			return false
		}
		// tie-break on id keeps equal keys in a stable, documented order
		return offers[i].ID.String() < offers[j].ID.String()
	})
}

// comparator returns -1/0/1 for the primary sort key in ascending terms.
func comparator(key SortKey) func(a, b Offer) int {
	switch key {
	case SortPrice:
		return func(a, b Offer) int { return cmpFloat(a.Price, b.Price) }
	case SortDuration:
		return func(a, b Offer) int { return cmpInt(a.Duration, b.Duration) }
	case SortRating:
		return func(a, b Offer) int { return cmpFloat(a.Rating, b.Rating) }
	case SortBookings:
		return func(a, b Offer) int { return cmpInt(a.BookingsCount, b.BookingsCount) }
	case SortViews:
		return func(a, b Offer) int { return cmpInt(a.ViewsCount, b.ViewsCount) }
	default:
		return func(a, b Offer) int {
			if a.CreatedAt.Before(b.CreatedAt) {
				return -1
			}
			if a.CreatedAt.After(b.CreatedAt) {
				return 1
			}
			return 0
		}
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
