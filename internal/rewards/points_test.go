package rewards

import (
	"context"
	"testing"
	"time"
)

func newTestEngine(now time.Time) (*Engine, *MemoryStore) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	engine.Now = func() time.Time { return now }
	return engine, store
}

func TestAwardIdempotency(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	engine, store := newTestEngine(now)
	ctx := context.Background()

	first, err := engine.Award(ctx, AwardInput{
		UserID:    "user-1",
		Action:    "checkin.daily",
		Points:    5,
		ActionKey: "checkin:2024-01-01",
	})
	if err != nil {
		t.Fatalf("first award failed: %v", err)
	}
	if first.Duplicate {
		t.Fatalf("first award reported duplicate")
	}
	if first.Summary.TotalPoints != 5 {
		t.Fatalf("expected totalPoints=5, got %d", first.Summary.TotalPoints)
	}
	if first.Summary.Level != 1 {
		t.Fatalf("expected level=1, got %d", first.Summary.Level)
	}

	// même clé, points différents: aucun nouvel octroi
	second, err := engine.Award(ctx, AwardInput{
		UserID:    "user-1",
		Action:    "checkin.daily",
		Points:    500,
		ActionKey: "checkin:2024-01-01",
	})
	if err != nil {
		t.Fatalf("second award failed: %v", err)
	}
	if !second.Duplicate {
		t.Fatalf("expected duplicate result")
	}
	if second.Summary.TotalPoints != 5 {
		t.Fatalf("expected totalPoints unchanged at 5, got %d", second.Summary.TotalPoints)
	}

	if entries := store.LedgerEntries(); len(entries) != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", len(entries))
	}
}

func TestAwardSameKeyDifferentUsers(t *testing.T) {
	engine, _ := newTestEngine(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, userID := range []string{"user-1", "user-2"} {
		result, err := engine.Award(ctx, AwardInput{
			UserID:    userID,
			Action:    "checkin.daily",
			Points:    5,
			ActionKey: "checkin:2024-01-01",
		})
		if err != nil {
			t.Fatalf("award for %s failed: %v", userID, err)
		}
		if result.Duplicate {
			t.Fatalf("actionKey scope must be per-user, %s reported duplicate", userID)
		}
	}
}

func TestAwardWithoutActionKeyNeverDuplicates(t *testing.T) {
	engine, store := newTestEngine(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := engine.Award(ctx, AwardInput{UserID: "user-1", Action: "comment.create", Points: 2})
		if err != nil {
			t.Fatalf("award %d failed: %v", i, err)
		}
		if result.Duplicate {
			t.Fatalf("award %d without actionKey reported duplicate", i)
		}
	}
	if entries := store.LedgerEntries(); len(entries) != 3 {
		t.Fatalf("expected 3 ledger entries, got %d", len(entries))
	}
}

func TestAwardNegativePointsDeduction(t *testing.T) {
	engine, _ := newTestEngine(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := engine.Award(ctx, AwardInput{UserID: "user-1", Action: "review.create", Points: 10}); err != nil {
		t.Fatalf("award failed: %v", err)
	}
	result, err := engine.Award(ctx, AwardInput{
		UserID: "user-1", Action: "review.delete", Points: -10,
		ActionKey: "review_delete:rev-1",
	})
	if err != nil {
		t.Fatalf("deduction failed: %v", err)
	}
	if result.Summary.TotalPoints != 0 {
		t.Fatalf("expected totalPoints=0 after deduction, got %d", result.Summary.TotalPoints)
	}
}

func TestAwardRequiresUserAndAction(t *testing.T) {
	engine, _ := newTestEngine(time.Now())
	ctx := context.Background()

	if _, err := engine.Award(ctx, AwardInput{Action: "review.create", Points: 10}); err != ErrUserRequired {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}
	if _, err := engine.Award(ctx, AwardInput{UserID: "user-1", Points: 10}); err != ErrActionRequired {
		t.Fatalf("expected ErrActionRequired, got %v", err)
	}
}

func TestGetSummaryDefaultsForNewUser(t *testing.T) {
	engine, _ := newTestEngine(time.Now())

	summary, err := engine.GetSummary(context.Background(), "brand-new-user")
	if err != nil {
		t.Fatalf("getSummary failed: %v", err)
	}
	if summary.UserID != "brand-new-user" {
		t.Fatalf("expected userId set, got %q", summary.UserID)
	}
	if summary.TotalPoints != 0 || summary.WeeklyPoints != 0 || summary.MonthlyPoints != 0 {
		t.Fatalf("expected zero-valued summary, got %+v", summary)
	}
	if summary.Level != 1 {
		t.Fatalf("expected level=1 for new user, got %d", summary.Level)
	}
}

func TestAwardUpdatesPeriodCounters(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) // lundi, semaine ISO 1
	engine, _ := newTestEngine(start)
	ctx := context.Background()

	if _, err := engine.Award(ctx, AwardInput{UserID: "user-1", Action: "review.create", Points: 10}); err != nil {
		t.Fatalf("award failed: %v", err)
	}

	// huit jours plus tard: nouvelle semaine ISO, même pas de mois
	engine.Now = func() time.Time { return start.AddDate(0, 0, 8) }
	result, err := engine.Award(ctx, AwardInput{UserID: "user-1", Action: "review.create", Points: 10})
	if err != nil {
		t.Fatalf("award failed: %v", err)
	}
	if result.Summary.TotalPoints != 20 {
		t.Fatalf("expected totalPoints=20, got %d", result.Summary.TotalPoints)
	}
	if result.Summary.WeeklyPoints != 10 {
		t.Fatalf("expected weeklyPoints reset to 10, got %d", result.Summary.WeeklyPoints)
	}
	if result.Summary.MonthlyPoints != 20 {
		t.Fatalf("expected monthlyPoints=20 within the same month, got %d", result.Summary.MonthlyPoints)
	}

	// changement de mois: compteur mensuel remis à zéro
	engine.Now = func() time.Time { return time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC) }
	result, err = engine.Award(ctx, AwardInput{UserID: "user-1", Action: "review.create", Points: 10})
	if err != nil {
		t.Fatalf("award failed: %v", err)
	}
	if result.Summary.MonthlyPoints != 10 {
		t.Fatalf("expected monthlyPoints reset to 10, got %d", result.Summary.MonthlyPoints)
	}
	if result.Summary.TotalPoints != 30 {
		t.Fatalf("expected totalPoints=30, got %d", result.Summary.TotalPoints)
	}
}

func TestHistoryOrderAndPagination(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	engine, _ := newTestEngine(start)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		current := start.Add(time.Duration(i) * time.Hour)
		engine.Now = func() time.Time { return current }
		if _, err := engine.Award(ctx, AwardInput{UserID: "user-1", Action: "comment.create", Points: 2}); err != nil {
			t.Fatalf("award %d failed: %v", i, err)
		}
	}

	page, err := engine.History(ctx, "user-1", 2, 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page))
	}
	if !page[0].CreatedAt.After(page[1].CreatedAt) {
		t.Fatalf("expected createdAt descending, got %v then %v", page[0].CreatedAt, page[1].CreatedAt)
	}

	rest, err := engine.History(ctx, "user-1", 10, 2)
	if err != nil {
		t.Fatalf("history offset failed: %v", err)
	}
	if len(rest) != 3 {
		t.Fatalf("expected 3 remaining entries, got %d", len(rest))
	}
}

func TestDailyCheckinScenario(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	engine, store := newTestEngine(now)
	ctx := context.Background()

	first, err := engine.Award(ctx, AwardInput{
		UserID:    "traveler-1",
		Action:    "checkin.daily",
		Points:    5,
		ActionKey: engine.CheckinKey(),
	})
	if err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if first.Duplicate || first.Summary.TotalPoints != 5 || first.Summary.Level != 1 {
		t.Fatalf("unexpected first checkin result: %+v", first)
	}

	// re-clic plus tard dans la même journée: même clé, aucun octroi
	engine.Now = func() time.Time { return time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC) }
	second, err := engine.Award(ctx, AwardInput{
		UserID:    "traveler-1",
		Action:    "checkin.daily",
		Points:    5,
		ActionKey: engine.CheckinKey(),
	})
	if err != nil {
		t.Fatalf("second checkin failed: %v", err)
	}
	if !second.Duplicate {
		t.Fatalf("expected duplicate on same-day checkin")
	}
	if second.Summary.TotalPoints != 5 {
		t.Fatalf("expected totalPoints still 5, got %d", second.Summary.TotalPoints)
	}
	if len(store.LedgerEntries()) != 1 {
		t.Fatalf("expected a single ledger entry")
	}
}

func TestCheckinKeyFollowsClock(t *testing.T) {
	engine, _ := newTestEngine(time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC))

	if got := engine.CheckinKey(); got != "checkin:2024-01-01" {
		t.Fatalf("expected checkin:2024-01-01, got %q", got)
	}

	// une seconde après minuit UTC: nouvelle journée, nouvelle clé
	engine.Now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC) }
	if got := engine.CheckinKey(); got != "checkin:2024-01-02" {
		t.Fatalf("expected checkin:2024-01-02, got %q", got)
	}

	ctx := context.Background()
	engine.Now = func() time.Time { return time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC) }
	if _, err := engine.Award(ctx, AwardInput{UserID: "traveler-1", Action: "checkin.daily", Points: 5, ActionKey: engine.CheckinKey()}); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	engine.Now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC) }
	result, err := engine.Award(ctx, AwardInput{UserID: "traveler-1", Action: "checkin.daily", Points: 5, ActionKey: engine.CheckinKey()})
	if err != nil {
		t.Fatalf("next-day checkin failed: %v", err)
	}
	if result.Duplicate {
		t.Fatalf("checkin across the midnight boundary must not be a duplicate")
	}
	if result.Summary.TotalPoints != 10 {
		t.Fatalf("expected totalPoints=10 after two checkins, got %d", result.Summary.TotalPoints)
	}
}
