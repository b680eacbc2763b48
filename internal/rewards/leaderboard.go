package rewards

import (
	"context"
	"sort"

	model "github.com/TripTally/TripTally-backend/internal/models"
)

const (
	DefaultWindowDays = 30
	DefaultLimit      = 10
)

// TopN calcule le classement des utilisateurs par points accumulés dans la
// fenêtre glissante de windowDays jours. L'agrégation est complète avant la
// troncature à limit: tronquer des lignes brutes sous-compterait les
// utilisateurs dont les écritures sont étalées.
func (e *Engine) TopN(ctx context.Context, windowDays, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	totals, err := e.windowTotals(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	if len(totals) > limit {
		totals = totals[:limit]
	}

	entries := make([]model.LeaderboardEntry, 0, len(totals))
	for i, t := range totals {
		entries = append(entries, model.LeaderboardEntry{
			UserID: t.UserID,
			Rank:   i + 1,
			Points: t.Points,
		})
	}
	return entries, nil
}

// UserRank retourne le rang d'un utilisateur dans la fenêtre. Un utilisateur
// sans écriture dans la fenêtre est classé après tous les autres.
func (e *Engine) UserRank(ctx context.Context, userID string, windowDays int) (model.UserRank, error) {
	if userID == "" {
		return model.UserRank{}, ErrUserRequired
	}
	totals, err := e.windowTotals(ctx, windowDays)
	if err != nil {
		return model.UserRank{}, err
	}

	rank := model.UserRank{
		UserID:     userID,
		Rank:       len(totals) + 1,
		TotalUsers: len(totals),
	}
	for i, t := range totals {
		if t.UserID == userID {
			rank.Rank = i + 1
			rank.Points = t.Points
			break
		}
	}
	if rank.TotalUsers > 0 {
		rank.Percentile = float64(rank.Rank) / float64(rank.TotalUsers) * 100
	} else {
		rank.Percentile = 100
	}
	return rank, nil
}

// windowTotals agrège puis ordonne: points décroissants, égalités départagées
// par première écriture dans la fenêtre puis par userId. L'ordre est ainsi
// stable entre deux appels à données constantes.
func (e *Engine) windowTotals(ctx context.Context, windowDays int) ([]WindowTotal, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	since := e.now().AddDate(0, 0, -windowDays)

	totals, err := e.Store.SumPointsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Points != totals[j].Points {
			return totals[i].Points > totals[j].Points
		}
		if !totals[i].FirstEntryAt.Equal(totals[j].FirstEntryAt) {
			return totals[i].FirstEntryAt.Before(totals[j].FirstEntryAt)
		}
		return totals[i].UserID < totals[j].UserID
	})
	return totals, nil
}
