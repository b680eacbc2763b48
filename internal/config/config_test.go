package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TRIPTALLY_CONFIG", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Rewards.CheckinPoints != 5 {
		t.Fatalf("expected checkinPoints=5, got %d", cfg.Rewards.CheckinPoints)
	}
	if cfg.Rewards.ActionPoints["review.create"] != 10 {
		t.Fatalf("expected default review.create=10, got %d", cfg.Rewards.ActionPoints["review.create"])
	}
}

func TestLoadConfigNullActionPoints(t *testing.T) {
	path := writeConfigFile(t, "rewards:\n  actionPoints: null\n")
	t.Setenv("TRIPTALLY_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	// le barème par défaut doit survivre à un null explicite
	if cfg.Rewards.ActionPoints == nil {
		t.Fatalf("expected actionPoints map to be re-initialized")
	}
	if cfg.Rewards.ActionPoints["trip.complete"] != 25 {
		t.Fatalf("expected default trip.complete=25, got %d", cfg.Rewards.ActionPoints["trip.complete"])
	}
}

func TestLoadConfigYAMLOverridesAndFills(t *testing.T) {
	path := writeConfigFile(t, "rewards:\n  actionPoints:\n    review.create: 42\n  checkinPoints: 7\n")
	t.Setenv("TRIPTALLY_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Rewards.ActionPoints["review.create"] != 42 {
		t.Fatalf("expected overridden review.create=42, got %d", cfg.Rewards.ActionPoints["review.create"])
	}
	// les actions non surchargées gardent le barème embarqué
	if cfg.Rewards.ActionPoints["photo.upload"] != 5 {
		t.Fatalf("expected default photo.upload=5, got %d", cfg.Rewards.ActionPoints["photo.upload"])
	}
	if cfg.Rewards.CheckinPoints != 7 {
		t.Fatalf("expected checkinPoints=7, got %d", cfg.Rewards.CheckinPoints)
	}
}
