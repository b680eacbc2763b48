package rewards

import (
	"time"

	model "github.com/TripTally/TripTally-backend/internal/models"
)

// rollPeriods remet à zéro les compteurs hebdo/mensuel quand la période
// courante a changé depuis la dernière mise à jour de la summary.
// Hebdo: changement de semaine ISO. Mensuel: changement de mois calendaire.
// LastResetDate est estampillée à chaque remise à zéro.
func rollPeriods(s model.UserPointsSummary, now time.Time) model.UserPointsSummary {
	if s.UpdatedAt.IsZero() {
		// première écriture pour cet utilisateur
		s.LastResetDate = now
		return s
	}

	reset := false

	ly, lw := s.UpdatedAt.ISOWeek()
	ny, nw := now.ISOWeek()
	if ly != ny || lw != nw {
		s.WeeklyPoints = 0
		reset = true
	}

	if s.UpdatedAt.Year() != now.Year() || s.UpdatedAt.Month() != now.Month() {
		s.MonthlyPoints = 0
		reset = true
	}

	if reset {
		s.LastResetDate = now
	}
	return s
}
