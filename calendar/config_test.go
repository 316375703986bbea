package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected func() Config
	}{
		{
			name:     "empty document",
			yaml:     "",
			expected: func() Config { return DefaultConfig },
		},
		{
			name: "overrides",
			yaml: `
cache_enabled: false
default_window: 720h
evaluation:
  max_unmatched_increments_limit: 50
`,
			expected: func() Config {
				c := DefaultConfig
				c.CacheEnabled = false
				c.DefaultWindow = 720 * time.Hour
				c.Evaluation.MaxUnmatchedIncrementsLimit = 50
				return c
			},
		},
		{
			name: "cache section",
			yaml: `
cache:
  ttl: 1m
  max_entries: 10
`,
			expected: func() Config {
				c := DefaultConfig
				c.Cache.TTL = time.Minute
				c.Cache.MaxEntries = 10
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.expected(), cfg)
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "cache: ["},
		{"bad duration", "default_window: soon"},
		{"negative window", "default_window: -1h"},
		{"negative limit", "evaluation:\n  max_unmatched_increments_limit: -1"},
		{"cache without entries", "cache:\n  max_entries: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestPresetsAreValid(t *testing.T) {
	for name, cfg := range map[string]Config{
		"default":          DefaultConfig,
		"high performance": HighPerformanceConfig,
		"low memory":       LowMemoryConfig,
		"disabled cache":   DisabledCacheConfig,
	} {
		assert.NoError(t, cfg.Validate(), name)
	}
}
