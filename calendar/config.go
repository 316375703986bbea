package calendar

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cyp0633/icalrecur/recurrence"
)

// Config holds configuration options for the calendar engine
type Config struct {
	// Cache configuration
	CacheEnabled bool        `yaml:"cache_enabled"`
	Cache        CacheConfig `yaml:"cache"`

	// Passed to every rule evaluation
	Evaluation recurrence.EvaluationOptions `yaml:"evaluation"`

	DefaultWindow       time.Duration `yaml:"default_window"`        // Expansion length when a query has no end
	LargeRangeThreshold time.Duration `yaml:"large_range_threshold"` // Ranges longer than this are probed first
	LargeRangeLimit     time.Duration `yaml:"large_range_limit"`     // Length of the probe window
}

// DefaultConfig provides sensible defaults for production use
var DefaultConfig = Config{
	CacheEnabled: true,
	Cache:        DefaultCacheConfig,

	DefaultWindow:       365 * 24 * time.Hour,
	LargeRangeThreshold: 90 * 24 * time.Hour,
	LargeRangeLimit:     90 * 24 * time.Hour,
}

// HighPerformanceConfig is optimized for high-traffic scenarios
var HighPerformanceConfig = Config{
	CacheEnabled: true,
	Cache: CacheConfig{
		TTL:             30 * time.Minute, // Longer cache TTL
		MaxEntries:      5000,             // More cache entries
		CleanupInterval: 10 * time.Minute, // Less frequent cleanup
	},

	Evaluation:          recurrence.EvaluationOptions{MaxUnmatchedIncrementsLimit: 500},
	DefaultWindow:       90 * 24 * time.Hour,
	LargeRangeThreshold: 30 * 24 * time.Hour,
	LargeRangeLimit:     30 * 24 * time.Hour,
}

// LowMemoryConfig is optimized for memory-constrained environments
var LowMemoryConfig = Config{
	CacheEnabled: true,
	Cache: CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: 2 * time.Minute,
	},

	DefaultWindow:       180 * 24 * time.Hour,
	LargeRangeThreshold: 180 * 24 * time.Hour,
	LargeRangeLimit:     180 * 24 * time.Hour,
}

// DisabledCacheConfig turns off caching entirely
var DisabledCacheConfig = Config{
	CacheEnabled: false,

	DefaultWindow:       365 * 24 * time.Hour,
	LargeRangeThreshold: 365 * 24 * time.Hour,
	LargeRangeLimit:     365 * 24 * time.Hour,
}

// LoadConfig reads a YAML document over DefaultConfig. Durations use Go
// syntax, for example "15m" or "2160h". An empty document yields
// DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode calendar config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative sizes and durations.
func (c Config) Validate() error {
	switch {
	case c.DefaultWindow < 0, c.LargeRangeThreshold < 0, c.LargeRangeLimit < 0:
		return fmt.Errorf("calendar config: negative window")
	case c.Evaluation.MaxUnmatchedIncrementsLimit < 0:
		return fmt.Errorf("calendar config: negative max_unmatched_increments_limit")
	case c.CacheEnabled && (c.Cache.TTL <= 0 || c.Cache.MaxEntries <= 0):
		return fmt.Errorf("calendar config: cache needs a positive ttl and max_entries")
	}
	return nil
}
