package rewards

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	model "github.com/TripTally/TripTally-backend/internal/models"
)

// MemoryStore est l'implémentation en mémoire du Store, utilisée par les
// tests et les environnements de dev sans PostgreSQL. Le mutex joue le rôle
// de la transaction: RecordAward y est atomique.
type MemoryStore struct {
	mu           sync.Mutex
	ledger       []model.PointsLedgerEntry
	summaries    map[string]model.UserPointsSummary
	achievements map[string]model.Achievement
	progress     map[string]model.UserAchievement // clé userID + "/" + achievementID
	missions     []model.Mission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		summaries:    map[string]model.UserPointsSummary{},
		achievements: map[string]model.Achievement{},
		progress:     map[string]model.UserAchievement{},
	}
}

func progressKey(userID, achievementID string) string {
	return userID + "/" + achievementID
}

func (s *MemoryStore) RecordAward(ctx context.Context, entry model.PointsLedgerEntry, apply func(model.UserPointsSummary) model.UserPointsSummary) (model.UserPointsSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ActionKey != nil {
		for _, existing := range s.ledger {
			if existing.UserID == entry.UserID && existing.ActionKey != nil && *existing.ActionKey == *entry.ActionKey {
				return model.UserPointsSummary{}, ErrDuplicateAction
			}
		}
	}

	entry.ID = uuid.NewString()
	s.ledger = append(s.ledger, entry)

	summary := apply(s.summaries[entry.UserID])
	s.summaries[entry.UserID] = summary
	return summary, nil
}

func (s *MemoryStore) GetSummary(ctx context.Context, userID string) (model.UserPointsSummary, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.summaries[userID]
	return summary, ok, nil
}

func (s *MemoryStore) ListLedger(ctx context.Context, userID string, limit, offset int) ([]model.PointsLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []model.PointsLedgerEntry
	for _, e := range s.ledger {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *MemoryStore) SumPointsSince(ctx context.Context, since time.Time) ([]WindowTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byUser := map[string]*WindowTotal{}
	for _, e := range s.ledger {
		if e.CreatedAt.Before(since) {
			continue
		}
		total, ok := byUser[e.UserID]
		if !ok {
			total = &WindowTotal{UserID: e.UserID, FirstEntryAt: e.CreatedAt}
			byUser[e.UserID] = total
		}
		total.Points += e.Points
		if e.CreatedAt.Before(total.FirstEntryAt) {
			total.FirstEntryAt = e.CreatedAt
		}
	}

	totals := make([]WindowTotal, 0, len(byUser))
	for _, t := range byUser {
		totals = append(totals, *t)
	}
	return totals, nil
}

func (s *MemoryStore) ActiveAchievementsForAction(ctx context.Context, action string) ([]model.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []model.Achievement
	for _, a := range s.achievements {
		if a.IsActive && a.Requirement.Kind == model.RequirementCountOfAction && a.Requirement.Action == action {
			matches = append(matches, a)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Code < matches[j].Code })
	return matches, nil
}

func (s *MemoryStore) ListAchievements(ctx context.Context, activeOnly bool) ([]model.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Achievement
	for _, a := range s.achievements {
		if activeOnly && !a.IsActive {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *MemoryStore) GetAchievement(ctx context.Context, id string) (model.Achievement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.achievements[id]
	return a, ok, nil
}

func (s *MemoryStore) CreateAchievement(ctx context.Context, a model.Achievement) (model.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.achievements[a.ID] = a
	return a, nil
}

func (s *MemoryStore) UpdateAchievement(ctx context.Context, a model.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.achievements[a.ID]; !ok {
		return ErrAchievementNotFound
	}
	s.achievements[a.ID] = a
	return nil
}

func (s *MemoryStore) GetProgress(ctx context.Context, userID, achievementID string) (model.UserAchievement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.progress[progressKey(userID, achievementID)]
	return row, ok, nil
}

func (s *MemoryStore) UpsertProgress(ctx context.Context, row model.UserAchievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	s.progress[progressKey(row.UserID, row.AchievementID)] = row
	return nil
}

func (s *MemoryStore) ListUserAchievements(ctx context.Context, userID string) ([]model.UserAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []model.UserAchievement
	for _, row := range s.progress {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AchievementID < rows[j].AchievementID })
	return rows, nil
}

func (s *MemoryStore) AddMission(m model.Mission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	s.missions = append(s.missions, m)
}

func (s *MemoryStore) ListOpenMissions(ctx context.Context, at time.Time) ([]model.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open []model.Mission
	for _, m := range s.missions {
		if m.Open(at) {
			open = append(open, m)
		}
	}
	return open, nil
}

// LedgerEntries retourne une copie du ledger complet (helper de test).
func (s *MemoryStore) LedgerEntries() []model.PointsLedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PointsLedgerEntry, len(s.ledger))
	copy(out, s.ledger)
	return out
}
