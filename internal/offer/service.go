package offer

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sambafall/teranga/internal/config"
)

const (
	featuredLimit       = 8
	defaultMaxImageSize = 5 * 1024 * 1024 // 5MB
)

// Store abstracts offer persistence. Both the Postgres repository and the
// in-memory store satisfy it.
type Store interface {
	Search(ctx context.Context, p Params) (Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (Offer, error)
	Promotional(ctx context.Context, limit int) ([]Offer, error)
	Popular(ctx context.Context, limit int) ([]Offer, error)
	Suggested(ctx context.Context, limit int) ([]Offer, error)
	Create(ctx context.Context, o Offer) (Offer, error)
	Update(ctx context.Context, o Offer) (Offer, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// Service implements offer search and admin management use cases.
type Service struct {
	store        Store
	images       ImageStore
	search       config.SearchConfig
	maxImageSize int64
	nowFunc      func() time.Time
}

// NewService constructs an offer service.
func NewService(store Store, images ImageStore, search config.SearchConfig) *Service {
	return &Service{
		store:        store,
		images:       images,
		search:       search,
		maxImageSize: defaultMaxImageSize,
		nowFunc:      time.Now,
	}
}

// Search returns a filtered, sorted, paginated result set.
// Contradictory bounds (min above max) yield an empty page.
func (s *Service) Search(ctx context.Context, p Params) (Page, error) {
	p = p.Normalize(s.search.DefaultLimit, s.search.MaxLimit)
	return s.store.Search(ctx, p)
}

// Get fetches a single offer and records the view.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Offer, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Offer{}, err
	}
	// view tracking is best effort
	_ = s.store.IncrementViews(ctx, id)
	return o, nil
}

// Promotional returns the active-promotion feed.
func (s *Service) Promotional(ctx context.Context) ([]Offer, error) {
	return s.store.Promotional(ctx, featuredLimit)
}

// Popular returns the most-booked feed.
func (s *Service) Popular(ctx context.Context) ([]Offer, error) {
	return s.store.Popular(ctx, featuredLimit)
}

// Suggested returns the best-rated feed.
func (s *Service) Suggested(ctx context.Context) ([]Offer, error) {
	return s.store.Suggested(ctx, featuredLimit)
}

// CreateInput carries data for offer creation.
type CreateInput struct {
	Title             string
	Destination       string
	Category          string
	Price             float64
	Currency          string
	Duration          int
	Description       string
	Itinerary         []ItineraryDay
	Included          []string
	Excluded          []string
	IsActive          *bool
	IsPromotion       bool
	PromotionDiscount *float64
	PromotionEndsAt   *time.Time
	MaxCapacity       int
	AvailableSeats    int
	DepartureDate     *time.Time
	ReturnDate        *time.Time
	Tags              []string
	Difficulty        Difficulty
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if in.Duration < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	}
	if in.PromotionDiscount != nil && (*in.PromotionDiscount < 0 || *in.PromotionDiscount > 100) {
		return fmt.Errorf("%w: promotion discount must be between 0 and 100", ErrInvalidInput)
	}
	if in.Difficulty != "" && !in.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty", ErrInvalidInput)
	}
	return nil
}

// Create validates the input, uploads images and stores the offer.
func (s *Service) Create(ctx context.Context, in CreateInput, images []*multipart.FileHeader) (Offer, error) {
	if err := in.validate(); err != nil {
		return Offer{}, err
	}

	id := uuid.New()
	urls, err := s.uploadImages(ctx, id, images)
	if err != nil {
		return Offer{}, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = DifficultyEasy
	}
	currency := in.Currency
	if currency == "" {
		currency = "FCFA"
	}

	now := s.nowFunc()
	o := Offer{
		ID:                id,
		Title:             strings.TrimSpace(in.Title),
		Slug:              makeSlug(in.Title, id),
		Destination:       strings.TrimSpace(in.Destination),
		Category:          strings.TrimSpace(in.Category),
		Price:             in.Price,
		Currency:          currency,
		Duration:          in.Duration,
		Description:       in.Description,
		Images:            urls,
		Itinerary:         in.Itinerary,
		Included:          in.Included,
		Excluded:          in.Excluded,
		IsActive:          active,
		IsPromotion:       in.IsPromotion,
		PromotionDiscount: in.PromotionDiscount,
		PromotionEndsAt:   in.PromotionEndsAt,
		MaxCapacity:       in.MaxCapacity,
		AvailableSeats:    in.AvailableSeats,
		DepartureDate:     in.DepartureDate,
		ReturnDate:        in.ReturnDate,
		Tags:              in.Tags,
		Difficulty:        difficulty,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	stored, err := s.store.Create(ctx, o)
	if err != nil {
		for _, u := range urls {
			_ = s.images.Remove(ctx, u)
		}
		return Offer{}, err
	}
	return stored, nil
}

// UpdateInput carries partial updates; nil fields are left unchanged.
type UpdateInput struct {
	Title             *string
	Destination       *string
	Category          *string
	Price             *float64
	Currency          *string
	Duration          *int
	Description       *string
	Itinerary         []ItineraryDay
	Included          []string
	Excluded          []string
	IsActive          *bool
	IsPromotion       *bool
	PromotionDiscount *float64
	PromotionEndsAt   *time.Time
	MaxCapacity       *int
	AvailableSeats    *int
	DepartureDate     *time.Time
	ReturnDate        *time.Time
	Tags              []string
	Difficulty        *Difficulty
}

// ImagesReplace replaces the full image list instead of appending.
const ImagesReplace = "replace"

// Update applies a partial update, optionally adding or replacing images.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput, images []*multipart.FileHeader, imagesAction string) (Offer, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Offer{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Offer{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		o.Title = title
		o.Slug = makeSlug(title, o.ID)
	}
	if in.Destination != nil {
		o.Destination = strings.TrimSpace(*in.Destination)
	}
	if in.Category != nil {
		o.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return Offer{}, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
		}
		o.Price = *in.Price
	}
	if in.Currency != nil {
		o.Currency = *in.Currency
	}
	if in.Duration != nil {
		if *in.Duration < 0 {
			return Offer{}, fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
		}
		o.Duration = *in.Duration
	}
	if in.Description != nil {
		o.Description = *in.Description
	}
	if in.Itinerary != nil {
		o.Itinerary = in.Itinerary
	}
	if in.Included != nil {
		o.Included = in.Included
	}
	if in.Excluded != nil {
		o.Excluded = in.Excluded
	}
	if in.IsActive != nil {
		o.IsActive = *in.IsActive
	}
	if in.IsPromotion != nil {
		o.IsPromotion = *in.IsPromotion
	}
	if in.PromotionDiscount != nil {
		if *in.PromotionDiscount < 0 || *in.PromotionDiscount > 100 {
			return Offer{}, fmt.Errorf("%w: promotion discount must be between 0 and 100", ErrInvalidInput)
		}
		o.PromotionDiscount = in.PromotionDiscount
	}
	if in.PromotionEndsAt != nil {
		o.PromotionEndsAt = in.PromotionEndsAt
	}
	if in.MaxCapacity != nil {
		o.MaxCapacity = *in.MaxCapacity
	}
	if in.AvailableSeats != nil {
		o.AvailableSeats = *in.AvailableSeats
	}
	if in.DepartureDate != nil {
		o.DepartureDate = in.DepartureDate
	}
	if in.ReturnDate != nil {
		o.ReturnDate = in.ReturnDate
	}
	if in.Tags != nil {
		o.Tags = in.Tags
	}
	if in.Difficulty != nil {
		if !in.Difficulty.Valid() {
			return Offer{}, fmt.Errorf("%w: unknown difficulty", ErrInvalidInput)
		}
		o.Difficulty = *in.Difficulty
	}

	urls, err := s.uploadImages(ctx, o.ID, images)
	if err != nil {
		return Offer{}, err
	}
	if imagesAction == ImagesReplace {
		for _, old := range o.Images {
			_ = s.images.Remove(ctx, old)
		}
		o.Images = urls
	} else if len(urls) > 0 {
		o.Images = append(o.Images, urls...)
	}

	o.UpdatedAt = s.nowFunc()
	return s.store.Update(ctx, o)
}

// ToggleStatus flips the active flag and returns the new value.
func (s *Service) ToggleStatus(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.ToggleActive(ctx, id)
}

// Duplicate clones an offer as an inactive copy with fresh counters.
func (s *Service) Duplicate(ctx context.Context, id uuid.UUID) (Offer, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Offer{}, err
	}

	now := s.nowFunc()
	o.ID = uuid.New()
	o.Title = o.Title + " (Copy)"
	o.Slug = makeSlug(o.Title, o.ID)
	o.IsActive = false
	o.Rating = 0
	o.ReviewsCount = 0
	o.BookingsCount = 0
	o.ViewsCount = 0
	o.CreatedAt = now
	o.UpdatedAt = now

	return s.store.Create(ctx, o)
}

// Delete removes an offer with its stored images.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	for _, u := range o.Images {
		_ = s.images.Remove(ctx, u)
	}
	return nil
}

func (s *Service) uploadImages(ctx context.Context, offerID uuid.UUID, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > s.maxImageSize {
			return nil, ErrImageTooLarge
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}

		objectName := fmt.Sprintf("offers/%s/%s%s", offerID, uuid.New(), filepath.Ext(fh.Filename))
		url, err := s.images.Put(ctx, objectName, contentType, f, fh.Size)
		f.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func makeSlug(title string, id uuid.UUID) string {
	return slug.Make(title) + "-" + id.String()[:8]
}
