package offer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps offers in memory. It backs the client-filtered search
// variant used for demos and tests, applying the same predicate/sort/slice
// pipeline the SQL store delegates to Postgres.
type MemoryStore struct {
	mu      sync.RWMutex
	offers  map[uuid.UUID]Offer
	nowFunc func() time.Time
}

// NewMemoryStore builds a store seeded with the given offers.
func NewMemoryStore(seed []Offer) *MemoryStore {
	s := &MemoryStore{
		offers:  make(map[uuid.UUID]Offer, len(seed)),
		nowFunc: time.Now,
	}
	for _, o := range seed {
		s.offers[o.ID] = o
	}
	return s
}

func (s *MemoryStore) snapshot() []Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Offer, 0, len(s.offers))
	for _, o := range s.offers {
		out = append(out, o)
	}
	return out
}

// Search filters, sorts and windows the stored offers.
func (s *MemoryStore) Search(ctx context.Context, p Params) (Page, error) {
	return SearchSlice(s.snapshot(), p, s.nowFunc()), nil
}

// GetByID returns a single offer.
func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offers[id]
	if !ok {
		return Offer{}, ErrOfferNotFound
	}
	return o, nil
}

// Promotional returns active offers with a live promotion, highest discount first.
func (s *MemoryStore) Promotional(ctx context.Context, limit int) ([]Offer, error) {
	now := s.nowFunc()
	var out []Offer
	for _, o := range s.snapshot() {
		if o.IsActive && o.PromotionActive(now) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := 0.0, 0.0
		if out[i].PromotionDiscount != nil {
			di = *out[i].PromotionDiscount
		}
		if out[j].PromotionDiscount != nil {
			dj = *out[j].PromotionDiscount
		}
		if di != dj {
			return di > dj
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return clip(out, limit), nil
}

// Popular returns active offers ordered by bookings.
func (s *MemoryStore) Popular(ctx context.Context, limit int) ([]Offer, error) {
	var out []Offer
	for _, o := range s.snapshot() {
		if o.IsActive {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookingsCount != out[j].BookingsCount {
			return out[i].BookingsCount > out[j].BookingsCount
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return clip(out, limit), nil
}

// Suggested returns active offers ordered by rating.
func (s *MemoryStore) Suggested(ctx context.Context, limit int) ([]Offer, error) {
	var out []Offer
	for _, o := range s.snapshot() {
		if o.IsActive {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return clip(out, limit), nil
}

// Create stores a new offer.
func (s *MemoryStore) Create(ctx context.Context, o Offer) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[o.ID] = o
	return o, nil
}

// Update replaces an existing offer.
func (s *MemoryStore) Update(ctx context.Context, o Offer) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offers[o.ID]; !ok {
		return Offer{}, ErrOfferNotFound
	}
	s.offers[o.ID] = o
	return o, nil
}

// ToggleActive flips the is_active flag and returns the new value.
func (s *MemoryStore) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[id]
	if !ok {
		return false, ErrOfferNotFound
	}
	o.IsActive = !o.IsActive
	o.UpdatedAt = s.nowFunc()
	s.offers[id] = o
	return o.IsActive, nil
}

// Delete removes an offer.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offers[id]; !ok {
		return ErrOfferNotFound
	}
	delete(s.offers, id)
	return nil
}

// IncrementViews bumps the view counter.
func (s *MemoryStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[id]
	if !ok {
		return ErrOfferNotFound
	}
	o.ViewsCount++
	s.offers[id] = o
	return nil
}

func clip(offers []Offer, limit int) []Offer {
	if limit > 0 && len(offers) > limit {
		return offers[:limit]
	}
	return offers
}
