package offer

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func fixedUUID(b byte) uuid.UUID {
	var id uuid.UUID
	for i := range id {
		id[i] = b
	}
	return id
}

func testOffers() []Offer {
	return []Offer{
		{
			ID:          fixedUUID(1),
			Title:       "Dakar City Break",
			Destination: "Dakar",
			Category:    "city",
			Price:       150000,
			Duration:    3,
			Rating:      4.2,
			Tags:        []string{"beach", "culture"},
			IsActive:    true,
		},
		{
			ID:          fixedUUID(2),
			Title:       "Saloum Delta Cruise",
			Destination: "Sine-Saloum",
			Category:    "nature",
			Price:       320000,
			Duration:    7,
			Rating:      4.8,
			Tags:        []string{"nature", "boat"},
			IsActive:    true,
		},
		{
			ID:          fixedUUID(3),
			Title:       "Casamance Trek",
			Destination: "Ziguinchor",
			Category:    "adventure",
			Price:       280000,
			Duration:    10,
			Rating:      4.5,
			Tags:        []string{"nature", "hiking"},
			IsActive:    true,
		},
		{
			ID:          fixedUUID(4),
			Title:       "Saint-Louis Heritage",
			Destination: "Saint-Louis",
			Category:    "city",
			Price:       150000,
			Duration:    5,
			Rating:      4.0,
			Tags:        []string{"culture"},
			IsActive:    true,
		},
	}
}

func TestSearchFiltersByPriceRange(t *testing.T) {
	minPrice := 200000.0
	maxPrice := 300000.0
	page := SearchSlice(testOffers(), Params{
		Filters: Filters{MinPrice: &minPrice, MaxPrice: &maxPrice},
		Page:    1,
		Limit:   12,
	}, time.Now())

	if page.Total != 1 {
		t.Fatalf("expected 1 offer in price range; got %d", page.Total)
	}
	if page.Data[0].Title != "Casamance Trek" {
		t.Fatalf("unexpected offer: %s", page.Data[0].Title)
	}
}

func TestSearchInvertedPriceRangeReturnsEmpty(t *testing.T) {
	minPrice := 300000.0
	maxPrice := 200000.0
	page := SearchSlice(testOffers(), Params{
		Filters: Filters{MinPrice: &minPrice, MaxPrice: &maxPrice},
		Page:    1,
		Limit:   12,
	}, time.Now())

	if page.Total != 0 || len(page.Data) != 0 {
		t.Fatalf("expected empty result for inverted bounds; got total=%d len=%d", page.Total, len(page.Data))
	}
	if page.TotalPages != 0 {
		t.Fatalf("expected 0 total pages; got %d", page.TotalPages)
	}
}

func TestSearchInvertedDurationRangeReturnsEmpty(t *testing.T) {
	minDur := 10
	maxDur := 3
	page := SearchSlice(testOffers(), Params{
		Filters: Filters{MinDuration: &minDur, MaxDuration: &maxDur},
		Page:    1,
		Limit:   12,
	}, time.Now())

	if page.Total != 0 {
		t.Fatalf("expected empty result; got %d", page.Total)
	}
}

func TestSearchCombinesFiltersWithAND(t *testing.T) {
	minRating := 4.3
	page := SearchSlice(testOffers(), Params{
		Filters: Filters{Tags: []string{"nature"}, MinRating: &minRating},
		Page:    1,
		Limit:   12,
	}, time.Now())

	if page.Total != 2 {
		t.Fatalf("expected 2 offers matching both filters; got %d", page.Total)
	}
	for _, o := range page.Data {
		if o.Rating < minRating {
			t.Fatalf("offer %s below rating floor", o.Title)
		}
	}
}

func TestSearchRequiresAllTags(t *testing.T) {
	page := SearchSlice(testOffers(), Params{
		Filters: Filters{Tags: []string{"nature", "hiking"}},
		Page:    1,
		Limit:   12,
	}, time.Now())

	if page.Total != 1 {
		t.Fatalf("expected 1 offer carrying all tags; got %d", page.Total)
	}
	if page.Data[0].Title != "Casamance Trek" {
		t.Fatalf("unexpected offer: %s", page.Data[0].Title)
	}
}

func TestSearchDurationBuckets(t *testing.T) {
	cases := []struct {
		bucket string
		want   int
	}{
		{"3", 1},
		{"3-5", 2},
		{"14+", 0},
		{"7", 1},
	}

	for _, tc := range cases {
		page := SearchSlice(testOffers(), Params{
			Filters: Filters{DurationBuckets: []string{tc.bucket}},
			Page:    1,
			Limit:   12,
		}, time.Now())
		if page.Total != tc.want {
			t.Fatalf("bucket %q: expected %d offers, got %d", tc.bucket, tc.want, page.Total)
		}
	}
}

func TestSearchSortStableTieBreak(t *testing.T) {
	// Two offers share price 150000; the lower id must always come first.
	page := SearchSlice(testOffers(), Params{
		Page:      1,
		Limit:     12,
		SortBy:    SortPrice,
		SortOrder: OrderAsc,
	}, time.Now())

	if len(page.Data) != 4 {
		t.Fatalf("expected 4 offers; got %d", len(page.Data))
	}
	if page.Data[0].ID != fixedUUID(1) || page.Data[1].ID != fixedUUID(4) {
		t.Fatalf("tie not broken by id: got %s then %s", page.Data[0].ID, page.Data[1].ID)
	}

	again := SearchSlice(testOffers(), Params{
		Page:      1,
		Limit:     12,
		SortBy:    SortPrice,
		SortOrder: OrderAsc,
	}, time.Now())
	for i := range page.Data {
		if page.Data[i].ID != again.Data[i].ID {
			t.Fatalf("sort not deterministic at index %d", i)
		}
	}
}

func TestSearchOrderDescending(t *testing.T) {
	page := SearchSlice(testOffers(), Params{
		Page:      1,
		Limit:     12,
		SortBy:    SortRating,
		SortOrder: OrderDesc,
	}, time.Now())

	for i := 1; i < len(page.Data); i++ {
		if page.Data[i].Rating > page.Data[i-1].Rating {
			t.Fatalf("ratings not descending at index %d", i)
		}
	}
}

func TestSearchPaginationWindow(t *testing.T) {
	page := SearchSlice(testOffers(), Params{
		Page:      2,
		Limit:     3,
		SortBy:    SortPrice,
		SortOrder: OrderAsc,
	}, time.Now())

	if page.Total != 4 {
		t.Fatalf("expected total 4; got %d", page.Total)
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected 2 total pages; got %d", page.TotalPages)
	}
	if len(page.Data) != 1 {
		t.Fatalf("expected 1 offer on last page; got %d", len(page.Data))
	}
}

func TestSearchPageBeyondEnd(t *testing.T) {
	page := SearchSlice(testOffers(), Params{Page: 10, Limit: 12}, time.Now())

	if page.Total != 4 {
		t.Fatalf("expected total 4; got %d", page.Total)
	}
	if len(page.Data) != 0 {
		t.Fatalf("expected empty page beyond end; got %d offers", len(page.Data))
	}
}

func TestSearchPromotionOnlyChecksExpiry(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	discount := 20.0

	offers := []Offer{
		{ID: fixedUUID(1), Title: "Expired", Price: 100, IsPromotion: true, PromotionDiscount: &discount, PromotionEndsAt: &past, IsActive: true},
		{ID: fixedUUID(2), Title: "Running", Price: 100, IsPromotion: true, PromotionDiscount: &discount, PromotionEndsAt: &future, IsActive: true},
		{ID: fixedUUID(3), Title: "Open-ended", Price: 100, IsPromotion: true, PromotionDiscount: &discount, IsActive: true},
	}

	page := SearchSlice(offers, Params{
		Filters: Filters{PromotionOnly: true},
		Page:    1,
		Limit:   12,
	}, now)

	if page.Total != 2 {
		t.Fatalf("expected 2 active promotions; got %d", page.Total)
	}
	for _, o := range page.Data {
		if o.Title == "Expired" {
			t.Fatalf("expired promotion included")
		}
	}
}

func TestSearchTextMatchesTitleAndDestination(t *testing.T) {
	page := SearchSlice(testOffers(), Params{
		Filters: Filters{Search: "saloum"},
		Page:    1,
		Limit:   12,
	}, time.Now())

	if page.Total != 1 {
		t.Fatalf("expected 1 match; got %d", page.Total)
	}
}
