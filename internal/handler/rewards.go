package handler

import (
	"net/http"

	"github.com/TripTally/TripTally-backend/internal/middleware"
	model "github.com/TripTally/TripTally-backend/internal/models"
	"github.com/TripTally/TripTally-backend/internal/rewards"
	"github.com/TripTally/TripTally-backend/internal/utils"
	"github.com/gorilla/mux"
)

type recordActionRequest struct {
	Action      string            `json:"action"`
	ActionKey   string            `json:"actionKey,omitempty"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type awardResponse struct {
	Duplicate    bool                    `json:"duplicate"`
	Summary      model.UserPointsSummary `json:"summary"`
	Achievements *rewards.BumpResult     `json:"achievements,omitempty"`
}

// Checkin enregistre le check-in quotidien de l'utilisateur authentifié.
// La clé "checkin:<date>" rend l'opération rejouable: un double clic sur
// le bouton renvoie duplicate=true sans toucher aux totaux.
func Checkin(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	result, err := engine.Award(r.Context(), rewards.AwardInput{
		UserID:      user.ID,
		Action:      "checkin.daily",
		Points:      cfg.Rewards.CheckinPoints,
		ActionKey:   engine.CheckinKey(),
		Description: "Daily check-in",
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not record this action right now", err)
		return
	}

	resp := awardResponse{Duplicate: result.Duplicate, Summary: result.Summary}

	// Un doublon ne doit pas re-faire progresser les achievements.
	if !result.Duplicate {
		bump, err := engine.BumpProgress(r.Context(), user.ID, "checkin.daily", 1)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not update achievement progress", err)
			return
		}
		resp.Achievements = &bump
		if bump.Unlocked {
			// la summary a bougé avec les bonus de déblocage
			summary, err := engine.GetSummary(r.Context(), user.ID)
			if err == nil {
				resp.Summary = summary
			}
		}
	}

	utils.Success(w, resp)
}

// RecordAction enregistre une action génératrice de points (review postée,
// trip complété...). Les points viennent du barème configuré, jamais du
// client.
func RecordAction(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req recordActionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if req.Action == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "action is required")
		return
	}

	points, known := cfg.Rewards.ActionPoints[req.Action]
	if !known {
		utils.ErrorSimple(w, http.StatusBadRequest, "unknown action: "+req.Action)
		return
	}

	result, err := engine.Award(r.Context(), rewards.AwardInput{
		UserID:      user.ID,
		Action:      req.Action,
		Points:      points,
		ActionKey:   req.ActionKey,
		Metadata:    req.Metadata,
		Description: req.Description,
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not record this action right now", err)
		return
	}

	resp := awardResponse{Duplicate: result.Duplicate, Summary: result.Summary}

	if !result.Duplicate {
		bump, err := engine.BumpProgress(r.Context(), user.ID, req.Action, 1)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not update achievement progress", err)
			return
		}
		resp.Achievements = &bump
		if bump.Unlocked {
			summary, err := engine.GetSummary(r.Context(), user.ID)
			if err == nil {
				resp.Summary = summary
			}
		}
	}

	utils.Success(w, resp)
}

// GetRewardsSummary retourne la projection points/niveau d'un utilisateur.
// Un utilisateur tout neuf obtient des zéros et le niveau 1.
func GetRewardsSummary(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	summary, err := engine.GetSummary(r.Context(), userID)
	if err != nil {
		if err == rewards.ErrUserRequired {
			utils.ErrorSimple(w, http.StatusBadRequest, "user ID manquant")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not fetch rewards summary", err)
		return
	}

	utils.Success(w, summary)
}

// GetRewardsHistory pagine l'historique ledger, plus récent d'abord
func GetRewardsHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	limit := utils.QueryInt(r, "limit", 50)
	offset := utils.QueryInt(r, "offset", 0)

	entries, err := engine.History(r.Context(), userID, limit, offset)
	if err != nil {
		if err == rewards.ErrUserRequired {
			utils.ErrorSimple(w, http.StatusBadRequest, "user ID manquant")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not fetch rewards history", err)
		return
	}

	if entries == nil {
		entries = []model.PointsLedgerEntry{}
	}
	utils.Success(w, entries)
}
