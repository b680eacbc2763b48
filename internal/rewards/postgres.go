package rewards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	model "github.com/TripTally/TripTally-backend/internal/models"
	"github.com/TripTally/TripTally-backend/internal/scanner"
)

// PostgresStore implémente Store sur PostgreSQL. L'idempotence du ledger
// repose sur l'index unique partiel (user_id, action_key) et non sur un
// verrou applicatif: plusieurs instances du service peuvent tourner.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const ledgerColumns = `id, user_id, action, action_key, points, metadata, description, created_at`

func (s *PostgresStore) RecordAward(ctx context.Context, entry model.PointsLedgerEntry, apply func(model.UserPointsSummary) model.UserPointsSummary) (model.UserPointsSummary, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.UserPointsSummary{}, fmt.Errorf("could not begin award transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var metadata []byte
	if len(entry.Metadata) > 0 {
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return model.UserPointsSummary{}, fmt.Errorf("could not encode metadata: %w", err)
		}
	}

	// Insertion conditionnelle: un doublon (user_id, action_key) ne produit
	// aucune ligne, jamais une erreur SQL.
	tag, err := tx.Exec(ctx, `
		INSERT INTO points_ledger (user_id, action, action_key, points, metadata, description, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		ON CONFLICT (user_id, action_key) WHERE action_key IS NOT NULL DO NOTHING
	`, entry.UserID, entry.Action, entry.ActionKey, entry.Points, metadata, entry.Description, entry.CreatedAt)
	if err != nil {
		return model.UserPointsSummary{}, fmt.Errorf("could not insert ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.UserPointsSummary{}, ErrDuplicateAction
	}

	// La ligne summary est créée si besoin puis verrouillée: la race du
	// premier award d'un utilisateur se résout sur le ON CONFLICT.
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_points_summary (user_id, total_points, weekly_points, monthly_points, updated_at)
		VALUES ($1, 0, 0, 0, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, entry.UserID, time.Time{}); err != nil {
		return model.UserPointsSummary{}, fmt.Errorf("could not seed summary row: %w", err)
	}

	row := tx.QueryRow(ctx, `
		SELECT user_id, total_points, weekly_points, monthly_points, last_reset_date, updated_at
		FROM user_points_summary
		WHERE user_id = $1
		FOR UPDATE
	`, entry.UserID)
	current, err := scanner.ScanSummary(row)
	if err != nil {
		return model.UserPointsSummary{}, fmt.Errorf("could not read summary row: %w", err)
	}

	next := apply(*current)

	if _, err := tx.Exec(ctx, `
		UPDATE user_points_summary
		SET total_points = $2, weekly_points = $3, monthly_points = $4,
		    last_reset_date = $5, updated_at = $6
		WHERE user_id = $1
	`, next.UserID, next.TotalPoints, next.WeeklyPoints, next.MonthlyPoints,
		nullableTime(next.LastResetDate), next.UpdatedAt); err != nil {
		return model.UserPointsSummary{}, fmt.Errorf("could not update summary row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.UserPointsSummary{}, fmt.Errorf("could not commit award transaction: %w", err)
	}
	return next, nil
}

func (s *PostgresStore) GetSummary(ctx context.Context, userID string) (model.UserPointsSummary, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, total_points, weekly_points, monthly_points, last_reset_date, updated_at
		FROM user_points_summary
		WHERE user_id = $1
	`, userID)

	summary, err := scanner.ScanSummary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserPointsSummary{}, false, nil
		}
		return model.UserPointsSummary{}, false, err
	}
	return *summary, true, nil
}

func (s *PostgresStore) ListLedger(ctx context.Context, userID string, limit, offset int) ([]model.PointsLedgerEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM points_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.PointsLedgerEntry
	for rows.Next() {
		entry, err := scanner.ScanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) SumPointsSince(ctx context.Context, since time.Time) ([]WindowTotal, error) {
	// Agrégation complète par utilisateur, aucune troncature ici.
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, SUM(points) AS points, MIN(created_at) AS first_entry_at
		FROM points_ledger
		WHERE created_at >= $1
		GROUP BY user_id
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []WindowTotal
	for rows.Next() {
		var t WindowTotal
		if err := rows.Scan(&t.UserID, &t.Points, &t.FirstEntryAt); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

const achievementColumns = `id, code, name, description, category, icon_name, icon_color, badge_url,
	req_kind, req_action, req_target, points, rarity, tags, is_active, created_at, updated_at`

func (s *PostgresStore) ActiveAchievementsForAction(ctx context.Context, action string) ([]model.Achievement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+achievementColumns+`
		FROM achievements
		WHERE is_active = true AND req_kind = $1 AND req_action = $2
		ORDER BY code
	`, model.RequirementCountOfAction, action)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAchievements(rows)
}

func (s *PostgresStore) ListAchievements(ctx context.Context, activeOnly bool) ([]model.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY code`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAchievements(rows)
}

func (s *PostgresStore) GetAchievement(ctx context.Context, id string) (model.Achievement, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+achievementColumns+`
		FROM achievements
		WHERE id = $1
	`, id)

	a, err := scanner.ScanAchievement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Achievement{}, false, nil
		}
		return model.Achievement{}, false, err
	}
	return *a, true, nil
}

func (s *PostgresStore) CreateAchievement(ctx context.Context, a model.Achievement) (model.Achievement, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO achievements (code, name, description, category, icon_name, icon_color, badge_url,
		                          req_kind, req_action, req_target, points, rarity, tags, is_active,
		                          created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING `+achievementColumns+`
	`, a.Code, a.Name, a.Description, a.Category, a.IconName, a.IconColor, a.BadgeURL,
		a.Requirement.Kind, a.Requirement.Action, a.Requirement.Target,
		a.Points, a.Rarity, a.Tags, a.IsActive)

	created, err := scanner.ScanAchievement(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Achievement{}, fmt.Errorf("achievement code %q already exists", a.Code)
		}
		return model.Achievement{}, err
	}
	return *created, nil
}

func (s *PostgresStore) UpdateAchievement(ctx context.Context, a model.Achievement) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE achievements
		SET name = $2, description = $3, category = $4, icon_name = $5, icon_color = $6,
		    badge_url = NULLIF($7, ''), req_kind = $8, req_action = $9, req_target = $10,
		    points = $11, rarity = $12, tags = $13, is_active = $14, updated_at = NOW()
		WHERE id = $1
	`, a.ID, a.Name, a.Description, a.Category, a.IconName, a.IconColor, a.BadgeURL,
		a.Requirement.Kind, a.Requirement.Action, a.Requirement.Target,
		a.Points, a.Rarity, a.Tags, a.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAchievementNotFound
	}
	return nil
}

func (s *PostgresStore) GetProgress(ctx context.Context, userID, achievementID string) (model.UserAchievement, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, achievement_id, progress, progress_max, is_completed, unlocked_at, created_at, updated_at
		FROM user_achievements
		WHERE user_id = $1 AND achievement_id = $2
	`, userID, achievementID)

	progress, err := scanner.ScanUserAchievement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserAchievement{}, false, nil
		}
		return model.UserAchievement{}, false, err
	}
	return *progress, true, nil
}

func (s *PostgresStore) UpsertProgress(ctx context.Context, p model.UserAchievement) error {
	// Garde-fous au niveau écriture: la progression ne recule jamais,
	// la complétion ne se dé-fait jamais, unlocked_at reste figé.
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id, progress, progress_max, is_completed, unlocked_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, achievement_id) DO UPDATE
		SET progress    = GREATEST(user_achievements.progress, LEAST(EXCLUDED.progress, user_achievements.progress_max)),
		    is_completed = user_achievements.is_completed OR EXCLUDED.is_completed,
		    unlocked_at = COALESCE(user_achievements.unlocked_at, EXCLUDED.unlocked_at),
		    updated_at  = EXCLUDED.updated_at
	`, p.UserID, p.AchievementID, p.Progress, p.ProgressMax, p.IsCompleted, p.UnlockedAt, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *PostgresStore) ListUserAchievements(ctx context.Context, userID string) ([]model.UserAchievement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, achievement_id, progress, progress_max, is_completed, unlocked_at, created_at, updated_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY achievement_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UserAchievement
	for rows.Next() {
		row, err := scanner.ScanUserAchievement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListOpenMissions(ctx context.Context, at time.Time) ([]model.Mission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, cadence, action, target_count, points_reward, valid_from, valid_until, created_at
		FROM missions
		WHERE valid_from <= $1 AND valid_until > $1
		ORDER BY valid_until
	`, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missions []model.Mission
	for rows.Next() {
		m, err := scanner.ScanMission(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, *m)
	}
	return missions, rows.Err()
}

func collectAchievements(rows pgx.Rows) ([]model.Achievement, error) {
	var out []model.Achievement
	for rows.Next() {
		a, err := scanner.ScanAchievement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// isUniqueViolation détecte le code 23505 de PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
