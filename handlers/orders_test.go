package handlers

import (
	"testing"
	"time"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

func TestEstimatedReadyTime(t *testing.T) {
	loc := time.UTC

	// Midday delivery: plain 90 minute lead.
	noon := time.Date(2025, 9, 1, 12, 0, 0, 0, loc)
	if got := EstimatedReadyTime(noon, models.FulfillmentDelivery); !got.Equal(noon.Add(90 * time.Minute)) {
		t.Errorf("midday delivery = %v", got)
	}

	// Midday pickup: 30 minutes.
	if got := EstimatedReadyTime(noon, models.FulfillmentPickup); !got.Equal(noon.Add(30 * time.Minute)) {
		t.Errorf("midday pickup = %v", got)
	}

	// Late evening order clamps to next-day opening.
	lateNight := time.Date(2025, 9, 1, 21, 30, 0, 0, loc)
	got := EstimatedReadyTime(lateNight, models.FulfillmentDelivery)
	nextMorning := time.Date(2025, 9, 2, 10, 0, 0, 0, loc)
	if !got.Equal(nextMorning) {
		t.Errorf("late delivery = %v, want %v", got, nextMorning)
	}

	// An estimate landing exactly on the closing hour also rolls over.
	atClosing := time.Date(2025, 9, 1, 20, 30, 0, 0, loc)
	got = EstimatedReadyTime(atClosing, models.FulfillmentDelivery)
	if !got.Equal(nextMorning) {
		t.Errorf("closing-hour delivery = %v, want %v", got, nextMorning)
	}

	// Early order clamps to opening.
	earlyBird := time.Date(2025, 9, 1, 8, 0, 0, 0, loc)
	got = EstimatedReadyTime(earlyBird, models.FulfillmentPickup)
	opening := time.Date(2025, 9, 1, 10, 0, 0, 0, loc)
	if !got.Equal(opening) {
		t.Errorf("early pickup = %v, want %v", got, opening)
	}
}
