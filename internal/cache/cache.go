package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ynishioka/shindan/internal/model"
)

// Cache defines the interface for diagnosis report caching. The engine
// is idempotent, so a cached report for the same recognized text and
// configuration is exactly the report a fresh run would produce.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the recognized text and every
// configuration value that influences the result: the engine options,
// the boilerplate denylist and the inference collaborator selection.
// Two runs with the same text under different options must not share
// an entry, or persistent backends would serve stale diagnoses.
func Key(rawText string, cfg *model.Config) string {
	h := sha256.New()
	h.Write([]byte(rawText))
	fmt.Fprintf(h, "|%v|%v|%v|%d|%d",
		cfg.Engine.ExcludeReservedTier,
		cfg.Engine.Enable24hUnlimitedDetection,
		cfg.Engine.AIConfidenceThreshold,
		cfg.Engine.TierPriceThreshold,
		cfg.Engine.ProjectionHorizonYears,
	)
	for _, d := range cfg.Engine.BoilerplateDenylist {
		fmt.Fprintf(h, "|deny:%s", d)
	}
	fmt.Fprintf(h, "|llm:%s:%s", cfg.LLM.Provider, cfg.LLM.Model)
	return "shindan:v1:" + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache backend selected in configuration.
func New(cfg model.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	case "disk":
		dir := cfg.Dir
		if dir == "" {
			dir = ".shindan-cache"
		}
		return NewDiskCache(dir, cfg.TTL), nil
	case "layered":
		dir := cfg.Dir
		if dir == "" {
			dir = ".shindan-cache"
		}
		return NewLayeredCache(cfg.TTL, dir, cfg.TTL), nil
	case "redis":
		return NewRedisCache(cfg.RedisAddr, cfg.RedisDB), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}
