package api

import (
	"net/http"

	"github.com/TripTally/TripTally-backend/internal/handler"
	"github.com/TripTally/TripTally-backend/internal/middleware"
	"github.com/TripTally/TripTally-backend/internal/utils"
	"github.com/fatih/color"
	"github.com/gorilla/mux"
)

func SetupRouter() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.OptionalAuth)

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware)
	authenticatedRoutes.Use(middleware.LoggerMiddleware)

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)

	// Rewards
	authenticatedRoutes.HandleFunc("/rewards/checkin", handler.Checkin).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/rewards/actions", handler.RecordAction).Methods(http.MethodPost)
	r.HandleFunc("/users/{userId}/rewards/summary", handler.GetRewardsSummary).Methods(http.MethodGet)
	r.HandleFunc("/users/{userId}/rewards/history", handler.GetRewardsHistory).Methods(http.MethodGet)

	// Achievements
	r.HandleFunc("/achievements", handler.GetAchievements).Methods(http.MethodGet)
	r.HandleFunc("/users/{userId}/achievements", handler.GetUserAchievements).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/achievements", handler.CreateAchievement).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/achievements/{id}", handler.UpdateAchievement).Methods(http.MethodPatch)
	authenticatedRoutes.HandleFunc("/achievements/{id}/badge", handler.UploadAchievementBadge).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/achievements/{id}/badge", handler.DeleteAchievementBadge).Methods(http.MethodDelete)

	// Missions
	r.HandleFunc("/missions", handler.GetMissions).Methods(http.MethodGet)

	// Leaderboard
	r.HandleFunc("/leaderboard", handler.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard/users/{userId}", handler.GetUserRank).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
