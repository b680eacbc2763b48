package handler

import (
	"net/http"

	model "github.com/TripTally/TripTally-backend/internal/models"
	"github.com/TripTally/TripTally-backend/internal/utils"
)

// GetMissions retourne les missions dont la fenêtre est ouverte maintenant
func GetMissions(w http.ResponseWriter, r *http.Request) {
	missions, err := engine.OpenMissions(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not fetch missions", err)
		return
	}
	if missions == nil {
		missions = []model.Mission{}
	}
	utils.Success(w, missions)
}
