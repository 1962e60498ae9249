package model

import (
	"fmt"
	"time"
)

// Config is the process-wide engine configuration, loaded once at
// startup and never mutated at runtime.
type Config struct {
	Engine      EngineConfig      `yaml:"engine" json:"engine" mapstructure:"engine"`
	LLM         LLMConfig         `yaml:"llm" json:"llm" mapstructure:"llm"`
	OCR         OCRConfig         `yaml:"ocr" json:"ocr" mapstructure:"ocr"`
	Cache       CacheConfig       `yaml:"cache" json:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output" mapstructure:"output"`
}

// EngineConfig holds the recognized engine options.
type EngineConfig struct {
	// ExcludeReservedTier must always be true: the reserved lowest tier
	// is excluded from the catalog entirely, not filtered per request.
	ExcludeReservedTier bool `yaml:"exclude_reserved_tier" json:"exclude_reserved_tier" mapstructure:"exclude_reserved_tier"`

	// Enable24hUnlimitedDetection turns on keyword detection of an
	// existing 24-hour unlimited-calling addon.
	Enable24hUnlimitedDetection bool `yaml:"enable_24h_unlimited_detection" json:"enable_24h_unlimited_detection" mapstructure:"enable_24h_unlimited_detection"`

	// AIConfidenceThreshold is the minimum declared confidence required
	// to accept an answer from the inference collaborator, in [0,1].
	AIConfidenceThreshold float64 `yaml:"ai_confidence_threshold" json:"ai_confidence_threshold" mapstructure:"ai_confidence_threshold"`

	// TierPriceThreshold splits tier M from tier L: a recurring charge
	// at or above it recommends L.
	TierPriceThreshold int64 `yaml:"tier_price_threshold" json:"tier_price_threshold" mapstructure:"tier_price_threshold"`

	// ProjectionHorizonYears is the projection horizon.
	ProjectionHorizonYears int `yaml:"projection_horizon_years" json:"projection_horizon_years" mapstructure:"projection_horizon_years"`

	// BoilerplateDenylist drops matching lines during normalization
	// (page headers, footers, portal banners).
	BoilerplateDenylist []string `yaml:"boilerplate_denylist" json:"boilerplate_denylist" mapstructure:"boilerplate_denylist"`
}

// LLMConfig configures the optional inference collaborator.
// An empty Provider disables delegation entirely.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider" mapstructure:"provider"` // "openai", "ollama", ""
	Model     string `yaml:"model" json:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" json:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" json:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens"`
}

// OCRConfig configures the recognition collaborator.
type OCRConfig struct {
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"` // "openai", ""
	Model    string `yaml:"model" json:"model" mapstructure:"model"`
	APIKey   string `yaml:"api_key" json:"-" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" json:"timeout" mapstructure:"timeout"` // seconds
}

// CacheConfig configures the diagnosis report cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Backend   string        `yaml:"backend" json:"backend" mapstructure:"backend"` // "memory", "disk", "layered", "redis"
	Dir       string        `yaml:"dir" json:"dir" mapstructure:"dir"`
	RedisAddr string        `yaml:"redis_addr" json:"redis_addr" mapstructure:"redis_addr"`
	RedisDB   int           `yaml:"redis_db" json:"redis_db" mapstructure:"redis_db"`
	TTL       time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig bounds batch processing.
type ConcurrencyConfig struct {
	BatchWorkers      int     `yaml:"batch_workers" json:"batch_workers" mapstructure:"batch_workers"`
	CollaboratorRPS   float64 `yaml:"collaborator_rps" json:"collaborator_rps" mapstructure:"collaborator_rps"`
	CollaboratorBurst int     `yaml:"collaborator_burst" json:"collaborator_burst" mapstructure:"collaborator_burst"`
}

// OutputConfig controls rendering verbosity.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			ExcludeReservedTier:         true,
			Enable24hUnlimitedDetection: true,
			AIConfidenceThreshold:       0.8,
			TierPriceThreshold:          6000,
			ProjectionHorizonYears:      50,
			BoilerplateDenylist: []string{
				"My SoftBank",
				"My docomo",
				"My au",
				"ページ",
				"お問い合わせ",
			},
		},
		LLM: LLMConfig{
			Provider:  "", // delegation disabled by default
			Timeout:   30,
			MaxTokens: 256,
		},
		OCR: OCRConfig{
			Provider: "",
			Timeout:  60,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     1 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers:      4,
			CollaboratorRPS:   2,
			CollaboratorBurst: 2,
		},
	}
}

// Validate checks for deployment defects. A failure here is fatal at
// startup; per-request conditions never come through this path.
func (c *Config) Validate() error {
	if !c.Engine.ExcludeReservedTier {
		return fmt.Errorf("engine.exclude_reserved_tier must be true: the reserved tier is never recommendable")
	}
	if c.Engine.AIConfidenceThreshold < 0 || c.Engine.AIConfidenceThreshold > 1 {
		return fmt.Errorf("engine.ai_confidence_threshold must be in [0,1], got %v", c.Engine.AIConfidenceThreshold)
	}
	if c.Engine.TierPriceThreshold <= 0 {
		return fmt.Errorf("engine.tier_price_threshold must be positive, got %d", c.Engine.TierPriceThreshold)
	}
	if c.Engine.ProjectionHorizonYears < 1 {
		return fmt.Errorf("engine.projection_horizon_years must be >= 1, got %d", c.Engine.ProjectionHorizonYears)
	}
	switch c.Cache.Backend {
	case "memory", "disk", "layered", "redis":
	default:
		return fmt.Errorf("cache.backend must be one of memory, disk, layered, redis: %q", c.Cache.Backend)
	}
	if c.Concurrency.BatchWorkers < 1 {
		return fmt.Errorf("concurrency.batch_workers must be >= 1, got %d", c.Concurrency.BatchWorkers)
	}
	return nil
}
