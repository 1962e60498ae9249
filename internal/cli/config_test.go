package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func loadConfigFile(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}
	t.Cleanup(viper.Reset)
}

func TestBuildConfig_FileValuesReachEngine(t *testing.T) {
	loadConfigFile(t, `
engine:
  tier_price_threshold: 8000
  projection_horizon_years: 10
cache:
  backend: disk
concurrency:
  batch_workers: 8
`)

	cfg, err := buildConfig(diagnoseCmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}

	if cfg.Engine.TierPriceThreshold != 8000 {
		t.Errorf("tier threshold from file not applied: %d", cfg.Engine.TierPriceThreshold)
	}
	if cfg.Engine.ProjectionHorizonYears != 10 {
		t.Errorf("horizon from file not applied: %d", cfg.Engine.ProjectionHorizonYears)
	}
	if cfg.Cache.Backend != "disk" {
		t.Errorf("cache backend from file not applied: %q", cfg.Cache.Backend)
	}
	if cfg.Concurrency.BatchWorkers != 8 {
		t.Errorf("worker count from file not applied: %d", cfg.Concurrency.BatchWorkers)
	}
	// Values the file does not mention keep their defaults.
	if cfg.Engine.AIConfidenceThreshold != 0.8 {
		t.Errorf("default threshold lost: %v", cfg.Engine.AIConfidenceThreshold)
	}
}

func TestBuildConfig_FlagOverridesFile(t *testing.T) {
	loadConfigFile(t, "engine:\n  projection_horizon_years: 10\n")

	if err := diagnoseCmd.Flags().Set("horizon", "25"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg, err := buildConfig(diagnoseCmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Engine.ProjectionHorizonYears != 25 {
		t.Errorf("explicit flag must beat the file, got %d", cfg.Engine.ProjectionHorizonYears)
	}
}
