package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/sambafall/teranga/internal/offer"
	"github.com/sambafall/teranga/internal/settings"
)

// ErrDisabled is returned when WhatsApp booking is switched off in the
// site settings.
var ErrDisabled = errors.New("whatsapp booking is disabled")

type offerSource interface {
	Get(ctx context.Context, id uuid.UUID) (offer.Offer, error)
}

type settingsSource interface {
	Current(ctx context.Context) (settings.AdminSettings, error)
}

// Service builds wa.me deep links for booking requests.
type Service struct {
	offers       offerSource
	settings     settingsSource
	defaultPhone string
}

// NewService constructs a WhatsApp link service. defaultPhone is used when
// the settings have no phone number configured.
func NewService(offers offerSource, settingsSvc settingsSource, defaultPhone string) *Service {
	return &Service{offers: offers, settings: settingsSvc, defaultPhone: defaultPhone}
}

// LinkInput describes a booking link request.
type LinkInput struct {
	OfferID       uuid.UUID
	Phone         string
	CustomerName  string
	CustomMessage string
}

// GenerateLink resolves the offer and settings, renders the message and
// returns a wa.me URL ready to open in a new tab.
func (s *Service) GenerateLink(ctx context.Context, input LinkInput) (string, error) {
	cfg, err := s.settings.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}
	if !cfg.WhatsApp.Enabled {
		return "", ErrDisabled
	}

	off, err := s.offers.Get(ctx, input.OfferID)
	if err != nil {
		return "", err
	}

	phone := firstNonEmpty(input.Phone, cfg.WhatsApp.PhoneNumber, s.defaultPhone)
	message := input.CustomMessage
	if message == "" {
		message = renderTemplate(cfg.WhatsApp.MessageTemplate, off)
	}
	if input.CustomerName != "" {
		message = fmt.Sprintf("%s (%s)", message, input.CustomerName)
	}

	link := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + sanitizePhone(phone),
		RawQuery: "text=" + url.QueryEscape(message),
	}
	return link.String(), nil
}

// renderTemplate fills the placeholders an administrator may use in the
// message template.
func renderTemplate(template string, off offer.Offer) string {
	replacer := strings.NewReplacer(
		"{{offer}}", off.Title,
		"{{destination}}", off.Destination,
		"{{price}}", fmt.Sprintf("%.0f %s", off.DisplayPrice(), off.Currency),
	)
	return replacer.Replace(template)
}

// sanitizePhone strips everything but digits, matching the wa.me format.
func sanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
