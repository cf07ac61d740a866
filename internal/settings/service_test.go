package settings

import (
	"context"
	"encoding/json"
	"testing"
)

type memoryStore struct {
	sections map[string]json.RawMessage
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sections: make(map[string]json.RawMessage)}
}

func (m *memoryStore) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	return m.sections, nil
}

func (m *memoryStore) Save(ctx context.Context, section string, value json.RawMessage) error {
	m.sections[section] = value
	return nil
}

func TestCurrentReturnsDefaultsWhenUnsaved(t *testing.T) {
	service := NewService(newMemoryStore())

	current, err := service.Current(context.Background())
	if err != nil {
		t.Fatalf("current returned error: %v", err)
	}

	if current.General.Currency != "FCFA" {
		t.Fatalf("expected default currency FCFA; got %s", current.General.Currency)
	}
	if current.General.Timezone != "Africa/Dakar" {
		t.Fatalf("expected default timezone Africa/Dakar; got %s", current.General.Timezone)
	}
	if current.General.Language != "fr" {
		t.Fatalf("expected default language fr; got %s", current.General.Language)
	}
	if !current.WhatsApp.Enabled {
		t.Fatalf("expected whatsapp enabled by default")
	}
}

func TestUpdateSavesOnlyProvidedSections(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)

	updated, err := service.Update(context.Background(), UpdateInput{
		Company: &CompanySettings{Name: "Sahel Voyages", Email: "hello@sahel.sn"},
	})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}

	if updated.Company.Name != "Sahel Voyages" {
		t.Fatalf("company section not applied: %+v", updated.Company)
	}
	// Untouched sections keep their defaults.
	if updated.General.Currency != "FCFA" {
		t.Fatalf("general section unexpectedly changed")
	}
	if _, ok := store.sections[sectionGeneral]; ok {
		t.Fatalf("general section should not have been persisted")
	}
	if _, ok := store.sections[sectionCompany]; !ok {
		t.Fatalf("company section missing from store")
	}
}

func TestUpdateThenCurrentRoundTrip(t *testing.T) {
	service := NewService(newMemoryStore())

	if _, err := service.Update(context.Background(), UpdateInput{
		WhatsApp: &WhatsAppSettings{Enabled: false, PhoneNumber: "221770000000", MessageTemplate: "Salut {{offer}}"},
	}); err != nil {
		t.Fatalf("update returned error: %v", err)
	}

	current, err := service.Current(context.Background())
	if err != nil {
		t.Fatalf("current returned error: %v", err)
	}
	if current.WhatsApp.Enabled {
		t.Fatalf("expected whatsapp disabled after update")
	}
	if current.WhatsApp.PhoneNumber != "221770000000" {
		t.Fatalf("phone number not persisted: %s", current.WhatsApp.PhoneNumber)
	}
}
