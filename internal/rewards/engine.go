package rewards

import (
	"context"
	"errors"
	"time"

	model "github.com/TripTally/TripTally-backend/internal/models"
	"github.com/TripTally/TripTally-backend/internal/utils"
)

// Engine porte les quatre opérations du coeur rewards: Award, BumpProgress,
// GetSummary, TopN. Toute la logique est ici; la persistance est derrière
// l'interface Store.
type Engine struct {
	Store Store

	// Now est injectable pour les tests; time.Now par défaut.
	Now func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{Store: store}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

// CheckinKey retourne la clé d'idempotence du check-in du jour courant,
// dérivée de l'horloge du moteur. La borne de date est donc testable via Now.
func (e *Engine) CheckinKey() string {
	return "checkin:" + e.now().Format("2006-01-02")
}

type AwardInput struct {
	UserID      string
	Action      string
	Points      int    // négatif = déduction, le ledger est le seul mécanisme comptable
	ActionKey   string // "" = pas de borne d'idempotence
	Metadata    map[string]string
	Description string
}

type AwardResult struct {
	// Duplicate vaut true quand (userId, actionKey) existait déjà.
	// Ce n'est pas une erreur: aucun point n'a été attribué.
	Duplicate bool
	Summary   model.UserPointsSummary
}

// Award ajoute une écriture au ledger et met à jour la summary de
// l'utilisateur, le tout dans une transaction du store. Un doublon
// d'actionKey est un no-op rapporté via Duplicate, jamais une erreur.
// Les erreurs du store remontent telles quelles (retryable côté appelant).
func (e *Engine) Award(ctx context.Context, in AwardInput) (AwardResult, error) {
	if in.UserID == "" {
		return AwardResult{}, ErrUserRequired
	}
	if in.Action == "" {
		return AwardResult{}, ErrActionRequired
	}

	now := e.now()
	entry := model.PointsLedgerEntry{
		UserID:      in.UserID,
		Action:      in.Action,
		Points:      in.Points,
		Metadata:    in.Metadata,
		Description: in.Description,
		CreatedAt:   now,
	}
	if in.ActionKey != "" {
		key := in.ActionKey
		entry.ActionKey = &key
	}

	summary, err := e.Store.RecordAward(ctx, entry, func(s model.UserPointsSummary) model.UserPointsSummary {
		s.UserID = in.UserID
		s = rollPeriods(s, now)
		s.TotalPoints += in.Points
		s.WeeklyPoints += in.Points
		s.MonthlyPoints += in.Points
		s.UpdatedAt = now
		return s
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateAction) {
			current, err := e.GetSummary(ctx, in.UserID)
			if err != nil {
				return AwardResult{}, err
			}
			return AwardResult{Duplicate: true, Summary: current}, nil
		}
		return AwardResult{}, err
	}

	utils.LogInfo("award: user=%s action=%s points=%d total=%d", in.UserID, in.Action, in.Points, summary.TotalPoints)

	summary.Level = LevelForPoints(summary.TotalPoints)
	return AwardResult{Summary: summary}, nil
}

// GetSummary retourne la projection points/niveau d'un utilisateur.
// Un utilisateur sans ligne summary obtient des zéros et le niveau 1,
// jamais une erreur.
func (e *Engine) GetSummary(ctx context.Context, userID string) (model.UserPointsSummary, error) {
	if userID == "" {
		return model.UserPointsSummary{}, ErrUserRequired
	}

	summary, found, err := e.Store.GetSummary(ctx, userID)
	if err != nil {
		return model.UserPointsSummary{}, err
	}
	if !found {
		summary = model.UserPointsSummary{UserID: userID}
	}
	summary.Level = LevelForPoints(summary.TotalPoints)
	return summary, nil
}

// History pagine l'historique ledger d'un utilisateur, plus récent d'abord.
func (e *Engine) History(ctx context.Context, userID string, limit, offset int) ([]model.PointsLedgerEntry, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return e.Store.ListLedger(ctx, userID, limit, offset)
}

// OpenMissions retourne les missions dont la fenêtre est ouverte maintenant.
func (e *Engine) OpenMissions(ctx context.Context) ([]model.Mission, error) {
	return e.Store.ListOpenMissions(ctx, e.now())
}
