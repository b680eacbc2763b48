package handler

import (
	"net/http"

	"github.com/TripTally/TripTally-backend/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "TripTally Rewards API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"rewards": []map[string]string{
				{"method": "POST", "path": "/rewards/checkin", "description": "Check-in quotidien (idempotent par jour)"},
				{"method": "POST", "path": "/rewards/actions", "description": "Enregistrer une action à points (review, photo, trip...)"},
				{"method": "GET", "path": "/users/{userId}/rewards/summary", "description": "Total, compteurs hebdo/mensuel et niveau"},
				{"method": "GET", "path": "/users/{userId}/rewards/history", "description": "Historique ledger paginé (params: limit, offset)"},
			},
			"achievements": []map[string]string{
				{"method": "GET", "path": "/achievements", "description": "Catalogue des achievements actifs"},
				{"method": "GET", "path": "/users/{userId}/achievements", "description": "Progression d'un utilisateur"},
				{"method": "POST", "path": "/achievements", "description": "Créer un achievement (admin)"},
				{"method": "PATCH", "path": "/achievements/{id}", "description": "Activer/désactiver un achievement (admin)"},
				{"method": "POST", "path": "/achievements/{id}/badge", "description": "Upload du visuel de badge (admin)"},
				{"method": "DELETE", "path": "/achievements/{id}/badge", "description": "Suppression du visuel de badge (admin)"},
			},
			"missions": []map[string]string{
				{"method": "GET", "path": "/missions", "description": "Missions dont la fenêtre est ouverte"},
			},
			"leaderboard": []map[string]string{
				{"method": "GET", "path": "/leaderboard", "description": "Classement fenêtre glissante (params: windowDays, limit)"},
				{"method": "GET", "path": "/leaderboard/users/{userId}", "description": "Rang d'un utilisateur (params: windowDays)"},
			},
			"health": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check de l'API"},
			},
		},
		"documentation": map[string]string{
			"description": "API REST des rewards TripTally - points, achievements et classements voyage",
		},
	}

	utils.Success(w, routes)
}
