package rewards

import (
	"context"
	"testing"
	"time"

	model "github.com/TripTally/TripTally-backend/internal/models"
)

func TestOpenMissionsWindow(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	engine, store := newTestEngine(now)

	store.AddMission(model.Mission{
		Title:      "Review marathon",
		Cadence:    "weekly",
		Action:     "review.create",
		ValidFrom:  now.AddDate(0, 0, -1),
		ValidUntil: now.AddDate(0, 0, 6),
	})
	store.AddMission(model.Mission{
		Title:      "Expired mission",
		Cadence:    "daily",
		Action:     "checkin.daily",
		ValidFrom:  now.AddDate(0, 0, -10),
		ValidUntil: now.AddDate(0, 0, -9),
	})
	store.AddMission(model.Mission{
		Title:      "Future mission",
		Cadence:    "daily",
		Action:     "photo.upload",
		ValidFrom:  now.AddDate(0, 0, 2),
		ValidUntil: now.AddDate(0, 0, 3),
	})

	open, err := engine.OpenMissions(context.Background())
	if err != nil {
		t.Fatalf("openMissions failed: %v", err)
	}
	if len(open) != 1 || open[0].Title != "Review marathon" {
		t.Fatalf("expected only the current mission, got %+v", open)
	}
}

func TestMissionWindowEdges(t *testing.T) {
	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 1)
	m := model.Mission{ValidFrom: from, ValidUntil: until}

	if !m.Open(from) {
		t.Fatalf("window must be inclusive at validFrom")
	}
	if m.Open(until) {
		t.Fatalf("window must be exclusive at validUntil")
	}
	if m.Open(from.Add(-time.Second)) {
		t.Fatalf("window must be closed before validFrom")
	}
}
