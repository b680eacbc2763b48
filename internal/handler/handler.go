package handler

import (
	"net/http"

	"github.com/TripTally/TripTally-backend/internal/config"
	"github.com/TripTally/TripTally-backend/internal/rewards"
	"github.com/TripTally/TripTally-backend/internal/services"
	"github.com/TripTally/TripTally-backend/internal/utils"
)

// État partagé des handlers, injecté au démarrage par Init.
var (
	engine     *rewards.Engine
	cfg        *config.Config
	cloudinary *services.CloudinaryService
)

// Init câble le moteur de rewards et les services dans les handlers.
// cloudinarySvc peut être nil: l'upload de badge renvoie alors 503.
func Init(e *rewards.Engine, c *config.Config, cloudinarySvc *services.CloudinaryService) {
	engine = e
	cfg = c
	cloudinary = cloudinarySvc
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}
