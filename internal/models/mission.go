package model

import (
	"time"
)

// Mission est un objectif limité dans le temps, configuration read-mostly.
type Mission struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Cadence      string    `json:"cadence"` // daily, weekly
	Action       string    `json:"action"`
	TargetCount  int       `json:"targetCount"`
	PointsReward int       `json:"pointsReward"`
	ValidFrom    time.Time `json:"validFrom"`
	ValidUntil   time.Time `json:"validUntil"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Open indique si la fenêtre [ValidFrom, ValidUntil) est ouverte à l'instant t.
func (m Mission) Open(t time.Time) bool {
	return !t.Before(m.ValidFrom) && t.Before(m.ValidUntil)
}
