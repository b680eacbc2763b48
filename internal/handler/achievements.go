package handler

import (
	"net/http"

	"github.com/TripTally/TripTally-backend/internal/middleware"
	model "github.com/TripTally/TripTally-backend/internal/models"
	"github.com/TripTally/TripTally-backend/internal/rewards"
	"github.com/TripTally/TripTally-backend/internal/utils"
	"github.com/gorilla/mux"
)

// GetAchievements retourne le catalogue actif, trié par rareté puis nom
func GetAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := engine.Catalog(r.Context(), true)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not fetch achievements", err)
		return
	}
	if achievements == nil {
		achievements = []model.Achievement{}
	}
	utils.Success(w, achievements)
}

// GetUserAchievements retourne la progression d'un utilisateur
func GetUserAchievements(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	rows, err := engine.UserAchievements(r.Context(), userID)
	if err != nil {
		if err == rewards.ErrUserRequired {
			utils.ErrorSimple(w, http.StatusBadRequest, "user ID manquant")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not fetch user achievements", err)
		return
	}
	if rows == nil {
		rows = []model.UserAchievement{}
	}
	utils.Success(w, rows)
}

type createAchievementRequest struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	IconName    string   `json:"iconName"`
	IconColor   string   `json:"iconColor"`
	Action      string   `json:"action"`
	Target      int      `json:"target"`
	Points      int      `json:"points"`
	Rarity      string   `json:"rarity"`
	Tags        []string `json:"tags,omitempty"`
}

// CreateAchievement ajoute une entrée au catalogue (admin)
func CreateAchievement(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !user.IsAdmin {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	var req createAchievementRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if req.Code == "" || req.Name == "" || req.Action == "" || req.Target <= 0 {
		utils.ErrorSimple(w, http.StatusBadRequest, "code, name, action et target > 0 requis")
		return
	}
	if req.Rarity == "" {
		req.Rarity = "common"
	}

	created, err := engine.Store.CreateAchievement(r.Context(), model.Achievement{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IconName:    req.IconName,
		IconColor:   req.IconColor,
		Requirement: model.Requirement{
			Kind:   model.RequirementCountOfAction,
			Action: req.Action,
			Target: req.Target,
		},
		Points:   req.Points,
		Rarity:   req.Rarity,
		Tags:     req.Tags,
		IsActive: true,
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create achievement", err)
		return
	}

	utils.Success(w, created)
}

type updateAchievementRequest struct {
	IsActive *bool `json:"isActive"`
}

// UpdateAchievement active/désactive une entrée du catalogue (admin)
func UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !user.IsAdmin {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	vars := mux.Vars(r)
	achievementID := vars["id"]

	var req updateAchievementRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if req.IsActive == nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "isActive is required")
		return
	}

	achievement, found, err := engine.Store.GetAchievement(r.Context(), achievementID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not fetch achievement", err)
		return
	}
	if !found {
		utils.ErrorSimple(w, http.StatusNotFound, "achievement not found")
		return
	}

	achievement.IsActive = *req.IsActive
	if err := engine.Store.UpdateAchievement(r.Context(), achievement); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update achievement", err)
		return
	}

	utils.Success(w, achievement)
}

// UploadAchievementBadge upload le visuel du badge vers Cloudinary (admin)
func UploadAchievementBadge(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !user.IsAdmin {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}
	if cloudinary == nil {
		utils.ErrorSimple(w, http.StatusServiceUnavailable, "badge upload is not configured")
		return
	}

	vars := mux.Vars(r)
	achievementID := vars["id"]

	achievement, found, err := engine.Store.GetAchievement(r.Context(), achievementID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not fetch achievement", err)
		return
	}
	if !found {
		utils.ErrorSimple(w, http.StatusNotFound, "achievement not found")
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}
	file, _, err := r.FormFile("badge")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "badge file is required", err)
		return
	}
	defer file.Close()

	url, err := cloudinary.UploadBadge(r.Context(), file, achievement.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not upload badge", err)
		return
	}

	achievement.BadgeURL = url
	if err := engine.Store.UpdateAchievement(r.Context(), achievement); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save badge URL", err)
		return
	}

	utils.Success(w, achievement)
}

// DeleteAchievementBadge supprime le visuel du badge, côté Cloudinary et
// côté catalogue (admin)
func DeleteAchievementBadge(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !user.IsAdmin {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}
	if cloudinary == nil {
		utils.ErrorSimple(w, http.StatusServiceUnavailable, "badge storage is not configured")
		return
	}

	vars := mux.Vars(r)
	achievementID := vars["id"]

	achievement, found, err := engine.Store.GetAchievement(r.Context(), achievementID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not fetch achievement", err)
		return
	}
	if !found {
		utils.ErrorSimple(w, http.StatusNotFound, "achievement not found")
		return
	}
	if achievement.BadgeURL == "" {
		utils.ErrorSimple(w, http.StatusNotFound, "achievement has no badge")
		return
	}

	if err := cloudinary.DeleteBadge(r.Context(), achievement.ID); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete badge", err)
		return
	}

	achievement.BadgeURL = ""
	if err := engine.Store.UpdateAchievement(r.Context(), achievement); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not clear badge URL", err)
		return
	}

	utils.Success(w, achievement)
}
