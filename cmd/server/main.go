package main

import (
	"net/http"
	"os"

	"github.com/TripTally/TripTally-backend/internal/api"
	"github.com/TripTally/TripTally-backend/internal/config"
	"github.com/TripTally/TripTally-backend/internal/database"
	"github.com/TripTally/TripTally-backend/internal/handler"
	"github.com/TripTally/TripTally-backend/internal/logger"
	"github.com/TripTally/TripTally-backend/internal/middleware"
	"github.com/TripTally/TripTally-backend/internal/rewards"
	"github.com/TripTally/TripTally-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Rewards engine over the postgres store
	engine := rewards.NewEngine(rewards.NewPostgresStore(db))

	// Cloudinary est optionnel: sans credentials, l'upload de badge est désactivé
	cloudinarySvc, err := services.NewCloudinaryService(cfg)
	if err != nil {
		logger.Warning("Cloudinary disabled: %v", err)
		cloudinarySvc = nil
	}

	handler.Init(engine, cfg, cloudinarySvc)

	// Initialize routes
	router := api.SetupRouter()

	// Wrap router with CORS middleware
	h := middleware.CORSMiddleware(router)

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, h); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
