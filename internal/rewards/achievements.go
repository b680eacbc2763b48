package rewards

import (
	"context"
	"fmt"
	"sort"

	model "github.com/TripTally/TripTally-backend/internal/models"
)

// ProgressUpdate décrit l'effet d'un bump sur un achievement donné.
type ProgressUpdate struct {
	Achievement model.Achievement `json:"achievement"`
	NewProgress int               `json:"newProgress"`
	ProgressMax int               `json:"progressMax"`
	Unlocked    bool              `json:"unlocked"`
}

type BumpResult struct {
	Unlocked bool             `json:"unlocked"` // au moins un déblocage sur cet appel
	Updates  []ProgressUpdate `json:"updates"`
}

// BumpProgress avance la progression de l'utilisateur sur tous les
// achievements actifs dont le critère compte l'action donnée.
//
// Garanties:
//   - la progression ne décroît jamais et reste bornée par ProgressMax;
//   - une ligne complétée est terminale, aucun re-bump ni re-bonus;
//   - l'écriture de progression et le constat de complétion précèdent
//     toujours le versement du bonus, et le bonus passe par Award avec la
//     clé "ach_unlock:<code>", donc au plus un versement par (user, achievement)
//     même en cas de retry.
func (e *Engine) BumpProgress(ctx context.Context, userID, action string, incrementBy int) (BumpResult, error) {
	if userID == "" {
		return BumpResult{}, ErrUserRequired
	}
	if action == "" {
		return BumpResult{}, ErrActionRequired
	}
	if incrementBy <= 0 {
		incrementBy = 1
	}

	achievements, err := e.Store.ActiveAchievementsForAction(ctx, action)
	if err != nil {
		return BumpResult{}, err
	}

	var result BumpResult
	now := e.now()

	for _, ach := range achievements {
		if ach.Requirement.Target <= 0 {
			continue
		}

		row, found, err := e.Store.GetProgress(ctx, userID, ach.ID)
		if err != nil {
			return result, err
		}
		if !found {
			row = model.UserAchievement{
				UserID:        userID,
				AchievementID: ach.ID,
				ProgressMax:   ach.Requirement.Target,
				CreatedAt:     now,
			}
		}
		if row.IsCompleted {
			// complétion terminale: ni progression ni re-bonus
			continue
		}

		row.Progress += incrementBy
		if row.Progress > row.ProgressMax {
			row.Progress = row.ProgressMax
		}

		justUnlocked := row.Progress >= row.ProgressMax
		if justUnlocked {
			row.IsCompleted = true
			t := now
			row.UnlockedAt = &t
		}
		row.UpdatedAt = now

		if err := e.Store.UpsertProgress(ctx, row); err != nil {
			return result, err
		}

		// Le bonus vient après la persistance de la complétion: un crash
		// entre les deux laisse un retry sans double versement grâce à la
		// clé d'idempotence dérivée de l'achievement.
		if justUnlocked && ach.Points != 0 {
			if _, err := e.Award(ctx, AwardInput{
				UserID:      userID,
				Action:      "achievement.unlock",
				Points:      ach.Points,
				ActionKey:   UnlockActionKey(ach),
				Description: fmt.Sprintf("Achievement unlocked: %s", ach.Name),
			}); err != nil {
				return result, err
			}
		}

		result.Updates = append(result.Updates, ProgressUpdate{
			Achievement: ach,
			NewProgress: row.Progress,
			ProgressMax: row.ProgressMax,
			Unlocked:    justUnlocked,
		})
		if justUnlocked {
			result.Unlocked = true
		}
	}

	return result, nil
}

// UnlockActionKey dérive la clé d'idempotence du bonus de déblocage.
func UnlockActionKey(a model.Achievement) string {
	code := a.Code
	if code == "" {
		code = a.ID
	}
	return "ach_unlock:" + code
}

// Catalog retourne le catalogue d'achievements trié par rareté puis nom.
func (e *Engine) Catalog(ctx context.Context, activeOnly bool) ([]model.Achievement, error) {
	achievements, err := e.Store.ListAchievements(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	sort.Slice(achievements, func(i, j int) bool {
		ri, rj := model.RarityRank(achievements[i].Rarity), model.RarityRank(achievements[j].Rarity)
		if ri != rj {
			return ri < rj
		}
		return achievements[i].Name < achievements[j].Name
	})
	return achievements, nil
}

// UserAchievements liste la progression d'un utilisateur. Une ligne
// incohérente (progress > progressMax) est bornée à la lecture plutôt
// que propagée à l'UI.
func (e *Engine) UserAchievements(ctx context.Context, userID string) ([]model.UserAchievement, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	rows, err := e.Store.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ProgressMax > 0 && rows[i].Progress > rows[i].ProgressMax {
			rows[i].Progress = rows[i].ProgressMax
		}
	}
	return rows, nil
}
