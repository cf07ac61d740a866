package category

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	categories map[uuid.UUID]Category
}

func newMemoryStore() *memoryStore {
	return &memoryStore{categories: make(map[uuid.UUID]Category)}
}

func (m *memoryStore) List(ctx context.Context, activeOnly bool) ([]Category, error) {
	out := make([]Category, 0, len(m.categories))
	for _, cat := range m.categories {
		if activeOnly && !cat.IsActive {
			continue
		}
		out = append(out, cat)
	}
	return out, nil
}

func (m *memoryStore) GetByID(ctx context.Context, id uuid.UUID) (Category, error) {
	cat, ok := m.categories[id]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return cat, nil
}

func (m *memoryStore) Create(ctx context.Context, cat Category) (Category, error) {
	for _, existing := range m.categories {
		if existing.Name == cat.Name {
			return Category{}, ErrNameAlreadyUsed
		}
	}
	cat.CreatedAt = time.Now()
	cat.UpdatedAt = cat.CreatedAt
	m.categories[cat.ID] = cat
	return cat, nil
}

func (m *memoryStore) Update(ctx context.Context, cat Category) (Category, error) {
	if _, ok := m.categories[cat.ID]; !ok {
		return Category{}, ErrCategoryNotFound
	}
	cat.UpdatedAt = time.Now()
	m.categories[cat.ID] = cat
	return cat, nil
}

func (m *memoryStore) ToggleActive(ctx context.Context, id uuid.UUID) (Category, error) {
	cat, ok := m.categories[id]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	cat.IsActive = !cat.IsActive
	m.categories[id] = cat
	return cat, nil
}

func (m *memoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func TestCreateCategoryGeneratesSlug(t *testing.T) {
	service := NewService(newMemoryStore())

	cat, err := service.Create(context.Background(), CreateInput{Name: "Plages du Sud"})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if cat.Slug != "plages-du-sud" {
		t.Fatalf("unexpected slug %q", cat.Slug)
	}
	if !cat.IsActive {
		t.Fatalf("expected new category active by default")
	}
}

func TestCreateCategoryRequiresName(t *testing.T) {
	service := NewService(newMemoryStore())

	if _, err := service.Create(context.Background(), CreateInput{Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput; got %v", err)
	}
}

func TestUpdateCategoryRenameRegeneratesSlug(t *testing.T) {
	service := NewService(newMemoryStore())

	cat, err := service.Create(context.Background(), CreateInput{Name: "Aventure"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "Randonnée"
	updated, err := service.Update(context.Background(), cat.ID, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if updated.Slug != "randonnee" {
		t.Fatalf("slug not regenerated: %q", updated.Slug)
	}
}

func TestUpdateCategoryPartial(t *testing.T) {
	service := NewService(newMemoryStore())

	cat, err := service.Create(context.Background(), CreateInput{Name: "Culture", Description: "old"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	desc := "Visites historiques"
	updated, err := service.Update(context.Background(), cat.ID, UpdateInput{Description: &desc})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if updated.Name != "Culture" || updated.Slug != cat.Slug {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.Description != desc {
		t.Fatalf("description not applied")
	}
}

func TestPublicHidesInactiveCategories(t *testing.T) {
	service := NewService(newMemoryStore())

	active, err := service.Create(context.Background(), CreateInput{Name: "Nature"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	hidden, err := service.Create(context.Background(), CreateInput{Name: "Brouillon"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.ToggleStatus(context.Background(), hidden.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	public, err := service.Public(context.Background())
	if err != nil {
		t.Fatalf("public returned error: %v", err)
	}
	if len(public) != 1 || public[0].ID != active.ID {
		t.Fatalf("expected only the active category; got %d", len(public))
	}

	all, err := service.All(context.Background())
	if err != nil {
		t.Fatalf("all returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both categories in admin listing; got %d", len(all))
	}
}

func TestDeleteUnknownCategory(t *testing.T) {
	service := NewService(newMemoryStore())

	if err := service.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound; got %v", err)
	}
}
