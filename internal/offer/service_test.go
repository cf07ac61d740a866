package offer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sambafall/teranga/internal/config"
)

type fakeImageStore struct {
	uploads []string
	removed []string
	failPut bool
}

func (f *fakeImageStore) Put(ctx context.Context, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if f.failPut {
		return "", errors.New("upload failed")
	}
	f.uploads = append(f.uploads, objectName)
	return "http://cdn.test/" + objectName, nil
}

func (f *fakeImageStore) Remove(ctx context.Context, objectName string) error {
	f.removed = append(f.removed, objectName)
	return nil
}

func newTestService(seed []Offer) (*Service, *MemoryStore, *fakeImageStore) {
	store := NewMemoryStore(seed)
	images := &fakeImageStore{}
	service := NewService(store, images, config.SearchConfig{DefaultLimit: 12, MaxLimit: 100})
	return service, store, images
}

func TestCreateOfferAcceptsDiscountBounds(t *testing.T) {
	service, _, _ := newTestService(nil)

	for _, discount := range []float64{0, 100} {
		created, err := service.Create(context.Background(), CreateInput{
			Title:             "Saly Beach Week",
			Destination:       "Saly",
			Category:          "beach",
			Price:             250000,
			IsPromotion:       true,
			PromotionDiscount: ptrFloat(discount),
		}, nil)
		if err != nil {
			t.Fatalf("discount %v: create returned error: %v", discount, err)
		}
		if created.PromotionDiscount == nil || *created.PromotionDiscount != discount {
			t.Fatalf("discount %v: not stored as given: %+v", discount, created.PromotionDiscount)
		}
	}
}

func TestCreateOfferDefaults(t *testing.T) {
	service, _, _ := newTestService(nil)

	created, err := service.Create(context.Background(), CreateInput{
		Title:       "Lac Rose Day Trip",
		Destination: "Lac Rose",
		Category:    "nature",
		Price:       45000,
	}, nil)
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if !created.IsActive {
		t.Fatalf("expected new offer to be active by default")
	}
	if created.Currency != "FCFA" {
		t.Fatalf("expected default currency FCFA; got %s", created.Currency)
	}
	if created.Difficulty != DifficultyEasy {
		t.Fatalf("expected default difficulty easy; got %s", created.Difficulty)
	}
	if !strings.HasPrefix(created.Slug, "lac-rose-day-trip-") {
		t.Fatalf("unexpected slug %q", created.Slug)
	}
}

func TestCreateOfferValidation(t *testing.T) {
	service, _, _ := newTestService(nil)

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing title", CreateInput{Destination: "Dakar", Category: "city", Price: 100}},
		{"missing destination", CreateInput{Title: "X", Category: "city", Price: 100}},
		{"zero price", CreateInput{Title: "X", Destination: "Dakar", Category: "city"}},
		{"discount above 100", CreateInput{Title: "X", Destination: "Dakar", Category: "city", Price: 100, PromotionDiscount: ptrFloat(120)}},
		{"unknown difficulty", CreateInput{Title: "X", Destination: "Dakar", Category: "city", Price: 100, Difficulty: "extreme"}},
	}

	for _, tc := range cases {
		if _, err := service.Create(context.Background(), tc.input, nil); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput; got %v", tc.name, err)
		}
	}
}

func TestSearchNormalizesPagination(t *testing.T) {
	seed := make([]Offer, 0, 20)
	for i := byte(1); i <= 20; i++ {
		seed = append(seed, Offer{ID: fixedUUID(i), Title: "Trip", Destination: "Dakar", Category: "city", Price: float64(i), IsActive: true})
	}
	service, _, _ := newTestService(seed)

	page, err := service.Search(context.Background(), Params{Page: 0, Limit: 0})
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	if page.Page != 1 || page.Limit != 12 {
		t.Fatalf("expected normalized page 1 limit 12; got page %d limit %d", page.Page, page.Limit)
	}
	if len(page.Data) != 12 {
		t.Fatalf("expected 12 offers on first page; got %d", len(page.Data))
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected 2 total pages; got %d", page.TotalPages)
	}
}

func TestSearchClampsLimit(t *testing.T) {
	service, _, _ := newTestService(nil)

	page, err := service.Search(context.Background(), Params{Page: 1, Limit: 10000})
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	if page.Limit != 100 {
		t.Fatalf("expected limit clamped to 100; got %d", page.Limit)
	}
}

func TestGetRecordsView(t *testing.T) {
	id := fixedUUID(7)
	service, store, _ := newTestService([]Offer{{ID: id, Title: "Trip", IsActive: true}})

	if _, err := service.Get(context.Background(), id); err != nil {
		t.Fatalf("get returned error: %v", err)
	}

	stored, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("store lookup failed: %v", err)
	}
	if stored.ViewsCount != 1 {
		t.Fatalf("expected 1 view recorded; got %d", stored.ViewsCount)
	}
}

func TestGetUnknownOffer(t *testing.T) {
	service, _, _ := newTestService(nil)

	if _, err := service.Get(context.Background(), fixedUUID(9)); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound; got %v", err)
	}
}

func TestToggleStatus(t *testing.T) {
	id := fixedUUID(3)
	service, _, _ := newTestService([]Offer{{ID: id, Title: "Trip", IsActive: true}})

	active, err := service.ToggleStatus(context.Background(), id)
	if err != nil {
		t.Fatalf("toggle returned error: %v", err)
	}
	if active {
		t.Fatalf("expected offer deactivated")
	}

	active, err = service.ToggleStatus(context.Background(), id)
	if err != nil {
		t.Fatalf("second toggle returned error: %v", err)
	}
	if !active {
		t.Fatalf("expected offer reactivated")
	}
}

func TestDuplicateResetsCounters(t *testing.T) {
	id := fixedUUID(4)
	service, _, _ := newTestService([]Offer{{
		ID:            id,
		Title:         "Goree Island Tour",
		Slug:          "goree-island-tour-abc",
		Destination:   "Goree",
		Category:      "city",
		Price:         60000,
		IsActive:      true,
		ViewsCount:    120,
		BookingsCount: 14,
		Rating:        4.7,
		ReviewsCount:  33,
	}})

	dup, err := service.Duplicate(context.Background(), id)
	if err != nil {
		t.Fatalf("duplicate returned error: %v", err)
	}

	if dup.ID == id {
		t.Fatalf("duplicate must get a fresh id")
	}
	if dup.Title != "Goree Island Tour (Copy)" {
		t.Fatalf("unexpected title %q", dup.Title)
	}
	if dup.IsActive {
		t.Fatalf("duplicate must start inactive")
	}
	if dup.ViewsCount != 0 || dup.BookingsCount != 0 || dup.Rating != 0 || dup.ReviewsCount != 0 {
		t.Fatalf("duplicate counters not reset: %+v", dup)
	}
}

func TestDeleteRemovesStoredImages(t *testing.T) {
	id := fixedUUID(5)
	service, store, images := newTestService([]Offer{{
		ID:     id,
		Title:  "Trip",
		Images: []string{"http://cdn.test/offers/x/a.jpg", "http://cdn.test/offers/x/b.jpg"},
	}})

	if err := service.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}

	if _, err := store.GetByID(context.Background(), id); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("offer still present after delete")
	}
	if len(images.removed) != 2 {
		t.Fatalf("expected 2 image removals; got %d", len(images.removed))
	}
}

func ptrFloat(v float64) *float64 { return &v }
