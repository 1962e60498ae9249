package model

import (
	"strings"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidate_ReservedTierGuard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.ExcludeReservedTier = false
	err := cfg.Validate()
	if err == nil {
		t.Fatal("disabling the reserved-tier exclusion must be a deployment defect")
	}
	if !strings.Contains(err.Error(), "exclude_reserved_tier") {
		t.Errorf("unhelpful error: %v", err)
	}
}

func TestValidate_Thresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.AIConfidenceThreshold = 1.2
	if cfg.Validate() == nil {
		t.Error("confidence threshold above 1 must fail")
	}

	cfg = DefaultConfig()
	cfg.Engine.AIConfidenceThreshold = -0.1
	if cfg.Validate() == nil {
		t.Error("negative confidence threshold must fail")
	}

	cfg = DefaultConfig()
	cfg.Engine.TierPriceThreshold = 0
	if cfg.Validate() == nil {
		t.Error("zero tier threshold must fail")
	}

	cfg = DefaultConfig()
	cfg.Engine.ProjectionHorizonYears = 0
	if cfg.Validate() == nil {
		t.Error("zero horizon must fail")
	}
}

func TestValidate_CacheBackend(t *testing.T) {
	for _, backend := range []string{"memory", "disk", "layered", "redis"} {
		cfg := DefaultConfig()
		cfg.Cache.Backend = backend
		if err := cfg.Validate(); err != nil {
			t.Errorf("backend %s must validate: %v", backend, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Cache.Backend = "memcached"
	if cfg.Validate() == nil {
		t.Error("unknown backend must fail")
	}
}

func TestValidate_Workers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Concurrency.BatchWorkers = 0
	if cfg.Validate() == nil {
		t.Error("zero workers must fail")
	}
}

func TestLineRange(t *testing.T) {
	r := LineRange{Start: 2, End: 5}
	if r.Empty() {
		t.Error("non-empty range reported empty")
	}
	if !r.Contains(2) || !r.Contains(4) {
		t.Error("range must contain its start and interior")
	}
	if r.Contains(5) || r.Contains(1) {
		t.Error("range end is exclusive")
	}

	if !(LineRange{}).Empty() {
		t.Error("zero range must be empty")
	}
}
