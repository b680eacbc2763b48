package scanner

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	model "github.com/TripTally/TripTally-backend/internal/models"
	"github.com/TripTally/TripTally-backend/internal/utils"
)

// RowScanner couvre pgx.Row et pgx.Rows.
type RowScanner interface {
	Scan(dest ...interface{}) error
}

// ScanLedgerEntry scanne une ligne SQL vers un PointsLedgerEntry.
// Le metadata JSONB est décodé depuis son représentation brute.
func ScanLedgerEntry(scanner RowScanner) (*model.PointsLedgerEntry, error) {
	var e model.PointsLedgerEntry
	var actionKey, description sql.NullString
	var metadata []byte

	err := scanner.Scan(
		&e.ID, &e.UserID, &e.Action, &actionKey, &e.Points,
		&metadata, &description, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.ActionKey = utils.NullStringToPointer(actionKey)
	e.Description = utils.NullStringToString(description)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

// ScanAchievement scanne une ligne SQL vers un Achievement.
// Les tags text[] passent par pq.Array.
func ScanAchievement(scanner RowScanner) (*model.Achievement, error) {
	var a model.Achievement
	var badgeURL sql.NullString
	var tags []string

	err := scanner.Scan(
		&a.ID, &a.Code, &a.Name, &a.Description, &a.Category,
		&a.IconName, &a.IconColor, &badgeURL,
		&a.Requirement.Kind, &a.Requirement.Action, &a.Requirement.Target,
		&a.Points, &a.Rarity, pq.Array(&tags), &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.BadgeURL = utils.NullStringToString(badgeURL)
	a.Tags = tags
	return &a, nil
}

// ScanUserAchievement scanne une ligne de progression.
func ScanUserAchievement(scanner RowScanner) (*model.UserAchievement, error) {
	var row model.UserAchievement
	var unlockedAt sql.NullTime

	err := scanner.Scan(
		&row.ID, &row.UserID, &row.AchievementID,
		&row.Progress, &row.ProgressMax, &row.IsCompleted,
		&unlockedAt, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	row.UnlockedAt = utils.NullTimeToPointer(unlockedAt)
	return &row, nil
}

// ScanSummary scanne une ligne user_points_summary.
func ScanSummary(scanner RowScanner) (*model.UserPointsSummary, error) {
	var s model.UserPointsSummary
	var lastReset sql.NullTime

	err := scanner.Scan(
		&s.UserID, &s.TotalPoints, &s.WeeklyPoints, &s.MonthlyPoints,
		&lastReset, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.LastResetDate = utils.NullTimeToTime(lastReset)
	return &s, nil
}

// ScanMission scanne une ligne missions.
func ScanMission(scanner RowScanner) (*model.Mission, error) {
	var m model.Mission

	err := scanner.Scan(
		&m.ID, &m.Title, &m.Description, &m.Cadence, &m.Action,
		&m.TargetCount, &m.PointsReward, &m.ValidFrom, &m.ValidUntil,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
