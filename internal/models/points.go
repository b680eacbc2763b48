package model

import (
	"time"
)

// PointsLedgerEntry est une écriture immuable du grand livre de points.
// Une fois insérée, elle n'est jamais modifiée ni supprimée.
type PointsLedgerEntry struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Action      string            `json:"action"`              // ex: "review.create", "checkin.daily"
	ActionKey   *string           `json:"actionKey,omitempty"` // clé d'idempotence naturelle, optionnelle
	Points      int               `json:"points"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Description string            `json:"description,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// UserPointsSummary est une projection du ledger, une ligne par utilisateur.
// Le niveau est toujours dérivé du total, jamais stocké comme autorité.
type UserPointsSummary struct {
	UserID        string    `json:"userId"`
	TotalPoints   int       `json:"totalPoints"`
	Level         int       `json:"level"`
	WeeklyPoints  int       `json:"weeklyPoints"`
	MonthlyPoints int       `json:"monthlyPoints"`
	LastResetDate time.Time `json:"lastResetDate,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}
