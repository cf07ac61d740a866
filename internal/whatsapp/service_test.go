package whatsapp

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sambafall/teranga/internal/offer"
	"github.com/sambafall/teranga/internal/settings"
)

type fakeOffers struct {
	offer offer.Offer
}

func (f *fakeOffers) Get(ctx context.Context, id uuid.UUID) (offer.Offer, error) {
	if id != f.offer.ID {
		return offer.Offer{}, offer.ErrOfferNotFound
	}
	return f.offer, nil
}

type fakeSettings struct {
	current settings.AdminSettings
}

func (f *fakeSettings) Current(ctx context.Context) (settings.AdminSettings, error) {
	return f.current, nil
}

func testService() (*Service, uuid.UUID) {
	id := uuid.New()
	offers := &fakeOffers{offer: offer.Offer{
		ID:          id,
		Title:       "Saloum Delta Cruise",
		Destination: "Sine-Saloum",
		Price:       320000,
		Currency:    "FCFA",
	}}
	cfg := settings.Defaults()
	return NewService(offers, &fakeSettings{current: cfg}, "221700000000"), id
}

func TestGenerateLinkUsesTemplate(t *testing.T) {
	service, id := testService()

	link, err := service.GenerateLink(context.Background(), LinkInput{OfferID: id})
	if err != nil {
		t.Fatalf("generate link returned error: %v", err)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link is not a valid URL: %v", err)
	}
	if parsed.Host != "wa.me" {
		t.Fatalf("expected wa.me host; got %s", parsed.Host)
	}
	if parsed.Path != "/221761885485" {
		t.Fatalf("unexpected phone path %q", parsed.Path)
	}

	message := parsed.Query().Get("text")
	if !strings.Contains(message, "Saloum Delta Cruise") {
		t.Fatalf("offer title missing from message: %q", message)
	}
}

func TestGenerateLinkCustomMessageAndPhone(t *testing.T) {
	service, id := testService()

	link, err := service.GenerateLink(context.Background(), LinkInput{
		OfferID:       id,
		Phone:         "+221 77 123 45 67",
		CustomMessage: "Je veux réserver pour deux personnes",
		CustomerName:  "Aminata",
	})
	if err != nil {
		t.Fatalf("generate link returned error: %v", err)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link is not a valid URL: %v", err)
	}
	if parsed.Path != "/221771234567" {
		t.Fatalf("phone not sanitized to digits: %q", parsed.Path)
	}

	message := parsed.Query().Get("text")
	if !strings.Contains(message, "Je veux réserver pour deux personnes") {
		t.Fatalf("custom message missing: %q", message)
	}
	if !strings.Contains(message, "Aminata") {
		t.Fatalf("customer name missing: %q", message)
	}
}

func TestGenerateLinkUnknownOffer(t *testing.T) {
	service, _ := testService()

	if _, err := service.GenerateLink(context.Background(), LinkInput{OfferID: uuid.New()}); err != offer.ErrOfferNotFound {
		t.Fatalf("expected ErrOfferNotFound; got %v", err)
	}
}

func TestGenerateLinkDisabled(t *testing.T) {
	id := uuid.New()
	offers := &fakeOffers{offer: offer.Offer{ID: id, Title: "Trip"}}
	cfg := settings.Defaults()
	cfg.WhatsApp.Enabled = false
	service := NewService(offers, &fakeSettings{current: cfg}, "221700000000")

	if _, err := service.GenerateLink(context.Background(), LinkInput{OfferID: id}); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled; got %v", err)
	}
}

func TestRenderTemplatePlaceholders(t *testing.T) {
	o := offer.Offer{Title: "Dakar City Break", Destination: "Dakar", Price: 150000, Currency: "FCFA"}

	message := renderTemplate("Offre: {{offer}} vers {{destination}} pour {{price}}", o)

	want := "Offre: Dakar City Break vers Dakar pour 150000 FCFA"
	if message != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", message, want)
	}
}
