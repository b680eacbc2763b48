package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config regroupe la configuration serveur, base de données et rewards.
// Les valeurs viennent d'un fichier YAML optionnel (TRIPTALLY_CONFIG),
// les variables d'environnement ont toujours le dernier mot.
type Config struct {
	Port       string `yaml:"port"`
	DBHost     string `yaml:"dbHost"`
	DBPort     string `yaml:"dbPort"`
	DBUser     string `yaml:"dbUser"`
	DBPassword string `yaml:"dbPassword"`
	DBName     string `yaml:"dbName"`

	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Rewards    RewardsConfig    `yaml:"rewards"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloudName"`
	APIKey    string `yaml:"apiKey"`
	APISecret string `yaml:"apiSecret"`
}

// RewardsConfig porte le barème de points par action.
type RewardsConfig struct {
	ActionPoints  map[string]int `yaml:"actionPoints"`
	CheckinPoints int            `yaml:"checkinPoints"`
}

// defaultActionPoints est le barème embarqué, surchargé par le YAML.
var defaultActionPoints = map[string]int{
	"review.create":  10,
	"photo.upload":   5,
	"trip.complete":  25,
	"trip.share":     5,
	"comment.create": 2,
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:   "8080",
		DBHost: "localhost",
		DBPort: "5432",
		DBUser: "postgres",
		DBName: "triptally",
		Rewards: RewardsConfig{
			ActionPoints:  map[string]int{},
			CheckinPoints: 5,
		},
	}

	// Fichier YAML optionnel
	if path := os.Getenv("TRIPTALLY_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
		}
	}

	// un "actionPoints: null" explicite dans le YAML écrase la map initialisée
	if cfg.Rewards.ActionPoints == nil {
		cfg.Rewards.ActionPoints = map[string]int{}
	}

	// Barème par défaut pour les actions non surchargées
	for action, points := range defaultActionPoints {
		if _, ok := cfg.Rewards.ActionPoints[action]; !ok {
			cfg.Rewards.ActionPoints[action] = points
		}
	}

	// Les variables d'environnement écrasent tout
	overrideFromEnv(&cfg.Port, "PORT")
	overrideFromEnv(&cfg.DBHost, "DB_HOST")
	overrideFromEnv(&cfg.DBPort, "DB_PORT")
	overrideFromEnv(&cfg.DBUser, "DB_USER")
	overrideFromEnv(&cfg.DBPassword, "DB_PASSWORD")
	overrideFromEnv(&cfg.DBName, "DB_NAME")
	overrideFromEnv(&cfg.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	overrideFromEnv(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	overrideFromEnv(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")

	if cfg.DBPassword == "" {
		cfg.DBPassword = os.Getenv("POSTGRES_PASSWORD")
	}

	return cfg, nil
}

func overrideFromEnv(dest *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dest = v
	}
}
