package rewards

import (
	"context"
	"time"

	model "github.com/TripTally/TripTally-backend/internal/models"
)

// WindowTotal est l'agrégat brut par utilisateur sur une fenêtre glissante.
// FirstEntryAt sert au départage déterministe des égalités.
type WindowTotal struct {
	UserID       string
	Points       int
	FirstEntryAt time.Time
}

// Store est le contrat de persistance du moteur de rewards.
// Deux implémentations: PostgresStore (production) et MemoryStore (tests).
type Store interface {
	// RecordAward insère l'écriture de ledger et applique apply à la ligne
	// summary de l'utilisateur dans la même transaction. Si entry.ActionKey
	// est non-nil et que la paire (userId, actionKey) existe déjà, rien
	// n'est écrit et ErrDuplicateAction est renvoyée. apply reçoit la
	// summary courante (zéro si absente) et retourne la version à persister.
	RecordAward(ctx context.Context, entry model.PointsLedgerEntry, apply func(model.UserPointsSummary) model.UserPointsSummary) (model.UserPointsSummary, error)

	// GetSummary lit la ligne summary; found=false pour un nouvel utilisateur.
	GetSummary(ctx context.Context, userID string) (model.UserPointsSummary, bool, error)

	// ListLedger pagine l'historique d'un utilisateur, createdAt décroissant.
	ListLedger(ctx context.Context, userID string, limit, offset int) ([]model.PointsLedgerEntry, error)

	// SumPointsSince agrège SUM(points) et MIN(createdAt) par utilisateur
	// sur les écritures dont createdAt >= since. Aucune troncature ici:
	// l'agrégation doit être complète avant tout limit.
	SumPointsSince(ctx context.Context, since time.Time) ([]WindowTotal, error)

	// ActiveAchievementsForAction retourne les achievements actifs dont le
	// critère est "count of action" pour l'action donnée.
	ActiveAchievementsForAction(ctx context.Context, action string) ([]model.Achievement, error)

	ListAchievements(ctx context.Context, activeOnly bool) ([]model.Achievement, error)
	GetAchievement(ctx context.Context, id string) (model.Achievement, bool, error)
	CreateAchievement(ctx context.Context, a model.Achievement) (model.Achievement, error)
	UpdateAchievement(ctx context.Context, a model.Achievement) error

	// GetProgress lit la ligne de progression (userId, achievementId).
	GetProgress(ctx context.Context, userID, achievementID string) (model.UserAchievement, bool, error)

	// UpsertProgress insère ou met à jour la ligne de progression, clé
	// (userId, achievementId). Sémantique atomique côté store pour éviter
	// les pertes de mise à jour entre déclencheurs concurrents.
	UpsertProgress(ctx context.Context, row model.UserAchievement) error

	ListUserAchievements(ctx context.Context, userID string) ([]model.UserAchievement, error)

	// ListOpenMissions retourne les missions dont la fenêtre est ouverte à t.
	ListOpenMissions(ctx context.Context, at time.Time) ([]model.Mission, error)
}
