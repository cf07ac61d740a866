package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Store abstracts category persistence.
type Store interface {
	List(ctx context.Context, activeOnly bool) ([]Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (Category, error)
	Create(ctx context.Context, cat Category) (Category, error)
	Update(ctx context.Context, cat Category) (Category, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements category business logic.
type Service struct {
	store Store
}

// NewService constructs a category service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the fields accepted when creating a category.
type CreateInput struct {
	Name         string
	Description  string
	Icon         string
	DisplayOrder int
	IsActive     *bool
}

// UpdateInput carries partial updates. Nil fields are left unchanged.
type UpdateInput struct {
	Name         *string
	Description  *string
	Icon         *string
	DisplayOrder *int
	IsActive     *bool
}

// Public lists the categories shown to visitors.
func (s *Service) Public(ctx context.Context) ([]Category, error) {
	return s.store.List(ctx, true)
}

// All lists every category, including inactive ones.
func (s *Service) All(ctx context.Context) ([]Category, error) {
	return s.store.List(ctx, false)
}

// Get fetches a single category.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Category, error) {
	return s.store.GetByID(ctx, id)
}

// Create validates the input and persists a new category.
func (s *Service) Create(ctx context.Context, input CreateInput) (Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.DisplayOrder < 0 {
		return Category{}, fmt.Errorf("%w: display order must not be negative", ErrInvalidInput)
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	cat := Category{
		ID:           uuid.New(),
		Name:         name,
		Slug:         slug.Make(name),
		Description:  strings.TrimSpace(input.Description),
		Icon:         strings.TrimSpace(input.Icon),
		DisplayOrder: input.DisplayOrder,
		IsActive:     active,
	}
	return s.store.Create(ctx, cat)
}

// Update applies the provided fields to an existing category. Renaming a
// category regenerates its slug.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (Category, error) {
	cat, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Category{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return Category{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		if name != cat.Name {
			cat.Name = name
			cat.Slug = slug.Make(name)
		}
	}
	if input.Description != nil {
		cat.Description = strings.TrimSpace(*input.Description)
	}
	if input.Icon != nil {
		cat.Icon = strings.TrimSpace(*input.Icon)
	}
	if input.DisplayOrder != nil {
		if *input.DisplayOrder < 0 {
			return Category{}, fmt.Errorf("%w: display order must not be negative", ErrInvalidInput)
		}
		cat.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		cat.IsActive = *input.IsActive
	}

	return s.store.Update(ctx, cat)
}

// ToggleStatus flips a category between active and inactive.
func (s *Service) ToggleStatus(ctx context.Context, id uuid.UUID) (Category, error) {
	return s.store.ToggleActive(ctx, id)
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}
