package model

import (
	"time"
)

// Requirement décrit le critère machine d'un achievement.
// Kind est un variant fermé; seul "count_of_action" existe aujourd'hui.
type Requirement struct {
	Kind   string `json:"kind"`   // "count_of_action"
	Action string `json:"action"` // ex: "review.create"
	Target int    `json:"target"`
}

const RequirementCountOfAction = "count_of_action"

type Achievement struct {
	ID          string      `json:"id"`
	Code        string      `json:"code"` // slug stable, sert de clé d'idempotence au bonus
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"` // EXPLORATION, COMMUNITY, etc.
	IconName    string      `json:"iconName"`
	IconColor   string      `json:"iconColor"`
	BadgeURL    string      `json:"badgeUrl,omitempty"`
	Requirement Requirement `json:"requirement"`
	Points      int         `json:"points"` // bonus versé au déblocage
	Rarity      string      `json:"rarity"` // common < rare < epic < legendary
	Tags        []string    `json:"tags,omitempty"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// UserAchievement suit la progression d'un utilisateur vers un achievement.
// Progress ne décroît jamais et ne dépasse jamais ProgressMax.
// Une fois complétée, la ligne devient read-only.
type UserAchievement struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	AchievementID string     `json:"achievementId"`
	Progress      int        `json:"progress"`
	ProgressMax   int        `json:"progressMax"`
	IsCompleted   bool       `json:"isCompleted"`
	UnlockedAt    *time.Time `json:"unlockedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// RarityRank ordonne les raretés pour le tri du catalogue.
func RarityRank(rarity string) int {
	switch rarity {
	case "legendary":
		return 3
	case "epic":
		return 2
	case "rare":
		return 1
	default:
		return 0
	}
}
