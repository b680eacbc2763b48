package handler

import (
	"net/http"

	model "github.com/TripTally/TripTally-backend/internal/models"
	"github.com/TripTally/TripTally-backend/internal/rewards"
	"github.com/TripTally/TripTally-backend/internal/utils"
	"github.com/gorilla/mux"
)

// GetLeaderboard récupère le classement sur la fenêtre glissante.
// windowDays et limit viennent de la query (30 jours / top 10 par défaut).
func GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	windowDays := utils.QueryInt(r, "windowDays", rewards.DefaultWindowDays)
	limit := utils.QueryInt(r, "limit", rewards.DefaultLimit)

	entries, err := engine.TopN(r.Context(), windowDays, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query leaderboard", err)
		return
	}

	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	utils.Success(w, entries)
}

// GetUserRank récupère le rang d'un utilisateur dans la fenêtre
func GetUserRank(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]
	windowDays := utils.QueryInt(r, "windowDays", rewards.DefaultWindowDays)

	rank, err := engine.UserRank(r.Context(), userID, windowDays)
	if err != nil {
		if err == rewards.ErrUserRequired {
			utils.ErrorSimple(w, http.StatusBadRequest, "user ID manquant")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not fetch user rank", err)
		return
	}

	utils.Success(w, rank)
}
