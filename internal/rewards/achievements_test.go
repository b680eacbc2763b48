package rewards

import (
	"context"
	"testing"
	"time"

	model "github.com/TripTally/TripTally-backend/internal/models"
)

func seedAchievement(t *testing.T, store *MemoryStore, code, action string, target, bonus int) model.Achievement {
	t.Helper()
	ach, err := store.CreateAchievement(context.Background(), model.Achievement{
		Code:   code,
		Name:   "Achievement " + code,
		Points: bonus,
		Rarity: "common",
		Requirement: model.Requirement{
			Kind:   model.RequirementCountOfAction,
			Action: action,
			Target: target,
		},
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("could not seed achievement: %v", err)
	}
	return ach
}

func TestBumpProgressUnlockScenario(t *testing.T) {
	engine, store := newTestEngine(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ach := seedAchievement(t, store, "first-reviews", "review.create", 3, 50)
	ctx := context.Background()

	for step := 1; step <= 3; step++ {
		result, err := engine.BumpProgress(ctx, "user-1", "review.create", 1)
		if err != nil {
			t.Fatalf("bump %d failed: %v", step, err)
		}
		if len(result.Updates) != 1 {
			t.Fatalf("bump %d: expected one update, got %d", step, len(result.Updates))
		}
		update := result.Updates[0]
		if update.NewProgress != step {
			t.Fatalf("bump %d: expected progress=%d, got %d", step, step, update.NewProgress)
		}
		if update.ProgressMax != 3 {
			t.Fatalf("bump %d: expected progressMax=3, got %d", step, update.ProgressMax)
		}
		wantUnlocked := step == 3
		if update.Unlocked != wantUnlocked || result.Unlocked != wantUnlocked {
			t.Fatalf("bump %d: unlocked=%v, expected %v", step, update.Unlocked, wantUnlocked)
		}
	}

	// le bonus est la seule écriture de ledger produite
	entries := store.LedgerEntries()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one bonus ledger entry, got %d", len(entries))
	}
	bonus := entries[0]
	if bonus.Points != 50 || bonus.Action != "achievement.unlock" {
		t.Fatalf("unexpected bonus entry: %+v", bonus)
	}
	if bonus.ActionKey == nil || *bonus.ActionKey != UnlockActionKey(ach) {
		t.Fatalf("expected bonus actionKey %q, got %v", UnlockActionKey(ach), bonus.ActionKey)
	}

	summary, err := engine.GetSummary(ctx, "user-1")
	if err != nil {
		t.Fatalf("getSummary failed: %v", err)
	}
	if summary.TotalPoints != 50 {
		t.Fatalf("expected totalPoints=50 from unlock bonus, got %d", summary.TotalPoints)
	}
}

func TestBumpProgressClampToMax(t *testing.T) {
	engine, store := newTestEngine(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	seedAchievement(t, store, "city-hopper", "checkin.daily", 5, 0)
	ctx := context.Background()

	// un incrément qui dépasse largement la cible
	result, err := engine.BumpProgress(ctx, "user-1", "checkin.daily", 50)
	if err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if result.Updates[0].NewProgress != 5 {
		t.Fatalf("expected progress clamped to 5, got %d", result.Updates[0].NewProgress)
	}
	if !result.Updates[0].Unlocked {
		t.Fatalf("expected unlock when clamped progress reaches target")
	}

	row, found, err := store.GetProgress(ctx, "user-1", result.Updates[0].Achievement.ID)
	if err != nil || !found {
		t.Fatalf("progress row missing: %v", err)
	}
	if row.Progress > row.ProgressMax {
		t.Fatalf("progress %d exceeds max %d", row.Progress, row.ProgressMax)
	}
}

func TestBumpProgressCompletionIsTerminal(t *testing.T) {
	engine, store := newTestEngine(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ach := seedAchievement(t, store, "first-checkin", "checkin.daily", 1, 25)
	ctx := context.Background()

	first, err := engine.BumpProgress(ctx, "user-1", "checkin.daily", 1)
	if err != nil {
		t.Fatalf("first bump failed: %v", err)
	}
	if !first.Unlocked {
		t.Fatalf("expected unlock on first bump")
	}

	// des bumps ultérieurs ne re-déclenchent ni progression ni bonus
	for i := 0; i < 3; i++ {
		result, err := engine.BumpProgress(ctx, "user-1", "checkin.daily", 1)
		if err != nil {
			t.Fatalf("bump after completion failed: %v", err)
		}
		if result.Unlocked || len(result.Updates) != 0 {
			t.Fatalf("completed achievement must be skipped, got %+v", result)
		}
	}

	key := UnlockActionKey(ach)
	bonusCount := 0
	for _, entry := range store.LedgerEntries() {
		if entry.ActionKey != nil && *entry.ActionKey == key {
			bonusCount++
		}
	}
	if bonusCount != 1 {
		t.Fatalf("expected exactly one bonus entry for %s, got %d", key, bonusCount)
	}

	row, _, err := store.GetProgress(ctx, "user-1", ach.ID)
	if err != nil {
		t.Fatalf("getProgress failed: %v", err)
	}
	if !row.IsCompleted || row.UnlockedAt == nil {
		t.Fatalf("expected completed row with unlockedAt, got %+v", row)
	}
}

func TestBumpProgressIgnoresInactiveAndOtherActions(t *testing.T) {
	engine, store := newTestEngine(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	inactive := seedAchievement(t, store, "dormant", "review.create", 2, 10)
	inactive.IsActive = false
	if err := store.UpdateAchievement(ctx, inactive); err != nil {
		t.Fatalf("could not deactivate achievement: %v", err)
	}
	seedAchievement(t, store, "photographer", "photo.upload", 2, 10)

	result, err := engine.BumpProgress(ctx, "user-1", "review.create", 1)
	if err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if len(result.Updates) != 0 {
		t.Fatalf("expected no updates for inactive/unmatched achievements, got %d", len(result.Updates))
	}
}

func TestBumpProgressMultipleAchievementsSameAction(t *testing.T) {
	engine, store := newTestEngine(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	seedAchievement(t, store, "first-review", "review.create", 1, 10)
	seedAchievement(t, store, "review-streak", "review.create", 3, 30)
	ctx := context.Background()

	result, err := engine.BumpProgress(ctx, "user-1", "review.create", 1)
	if err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if len(result.Updates) != 2 {
		t.Fatalf("expected both achievements touched, got %d", len(result.Updates))
	}
	if !result.Unlocked {
		t.Fatalf("expected the target-1 achievement to unlock")
	}

	unlocked := 0
	for _, u := range result.Updates {
		if u.Unlocked {
			unlocked++
		}
	}
	if unlocked != 1 {
		t.Fatalf("expected exactly one unlock on first bump, got %d", unlocked)
	}
}

func TestUserAchievementsClampsInconsistentRows(t *testing.T) {
	engine, store := newTestEngine(time.Now())
	ctx := context.Background()

	// ligne incohérente écrite directement dans le store
	if err := store.UpsertProgress(ctx, model.UserAchievement{
		UserID:        "user-1",
		AchievementID: "ach-1",
		Progress:      12,
		ProgressMax:   10,
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	rows, err := engine.UserAchievements(ctx, "user-1")
	if err != nil {
		t.Fatalf("userAchievements failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Progress != 10 {
		t.Fatalf("expected progress clamped to 10 on read, got %+v", rows)
	}
}
