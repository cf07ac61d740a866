package settings

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	sectionCompany  = "company"
	sectionWhatsApp = "whatsapp"
	sectionGeneral  = "general"
)

// Store abstracts settings persistence.
type Store interface {
	Load(ctx context.Context) (map[string]json.RawMessage, error)
	Save(ctx context.Context, section string, value json.RawMessage) error
}

// Service reads and updates the site settings, filling any section the
// administrator has never saved with defaults.
type Service struct {
	store Store
}

// NewService constructs a settings service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// UpdateInput carries a partial settings update. Nil sections are left
// unchanged.
type UpdateInput struct {
	Company  *CompanySettings  `json:"company"`
	WhatsApp *WhatsAppSettings `json:"whatsapp"`
	General  *GeneralSettings  `json:"general"`
}

// Current returns the effective settings, defaults overlaid with whatever
// sections have been saved.
func (s *Service) Current(ctx context.Context) (AdminSettings, error) {
	stored, err := s.store.Load(ctx)
	if err != nil {
		return AdminSettings{}, err
	}

	settings := Defaults()
	if raw, ok := stored[sectionCompany]; ok {
		if err := json.Unmarshal(raw, &settings.Company); err != nil {
			return AdminSettings{}, fmt.Errorf("decode company settings: %w", err)
		}
	}
	if raw, ok := stored[sectionWhatsApp]; ok {
		if err := json.Unmarshal(raw, &settings.WhatsApp); err != nil {
			return AdminSettings{}, fmt.Errorf("decode whatsapp settings: %w", err)
		}
	}
	if raw, ok := stored[sectionGeneral]; ok {
		if err := json.Unmarshal(raw, &settings.General); err != nil {
			return AdminSettings{}, fmt.Errorf("decode general settings: %w", err)
		}
	}
	return settings, nil
}

// Update saves the provided sections and returns the resulting settings.
func (s *Service) Update(ctx context.Context, input UpdateInput) (AdminSettings, error) {
	if input.Company != nil {
		if err := s.saveSection(ctx, sectionCompany, input.Company); err != nil {
			return AdminSettings{}, err
		}
	}
	if input.WhatsApp != nil {
		if err := s.saveSection(ctx, sectionWhatsApp, input.WhatsApp); err != nil {
			return AdminSettings{}, err
		}
	}
	if input.General != nil {
		if err := s.saveSection(ctx, sectionGeneral, input.General); err != nil {
			return AdminSettings{}, err
		}
	}
	return s.Current(ctx)
}

func (s *Service) saveSection(ctx context.Context, section string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", section, err)
	}
	return s.store.Save(ctx, section, raw)
}
