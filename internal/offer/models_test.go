package offer

import (
	"testing"
	"time"
)

func TestDisplayPriceAppliesDiscount(t *testing.T) {
	discount := 25.0
	o := Offer{Price: 200000, IsPromotion: true, PromotionDiscount: &discount}

	if got := o.DisplayPrice(); got != 150000 {
		t.Fatalf("expected discounted price 150000; got %v", got)
	}
}

func TestDisplayPriceWithoutPromotion(t *testing.T) {
	discount := 25.0

	cases := []struct {
		name  string
		offer Offer
	}{
		{"no promotion flag", Offer{Price: 100000, PromotionDiscount: &discount}},
		{"no discount value", Offer{Price: 100000, IsPromotion: true}},
	}

	for _, tc := range cases {
		if got := tc.offer.DisplayPrice(); got != 100000 {
			t.Fatalf("%s: expected full price; got %v", tc.name, got)
		}
	}
}

func TestPromotionActiveRespectsEndDate(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	expired := Offer{IsPromotion: true, PromotionEndsAt: &past}
	if expired.PromotionActive(now) {
		t.Fatalf("expired promotion reported active")
	}

	running := Offer{IsPromotion: true, PromotionEndsAt: &future}
	if !running.PromotionActive(now) {
		t.Fatalf("running promotion reported inactive")
	}

	openEnded := Offer{IsPromotion: true}
	if !openEnded.PromotionActive(now) {
		t.Fatalf("open-ended promotion reported inactive")
	}
}

func TestNights(t *testing.T) {
	cases := []struct {
		duration int
		want     int
	}{
		{0, 0},
		{1, 0},
		{3, 2},
		{7, 6},
	}

	for _, tc := range cases {
		o := Offer{Duration: tc.duration}
		if got := o.Nights(); got != tc.want {
			t.Fatalf("duration %d: expected %d nights, got %d", tc.duration, tc.want, got)
		}
	}
}
