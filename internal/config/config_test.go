package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/housingdemand/internal/config"
	"github.com/rshade/housingdemand/internal/engine"
	"github.com/rshade/housingdemand/internal/logging"
)

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_MatchesEngineDefaults(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, engine.DefaultOptions(), cfg.Engine.ToOptions())
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
	assert.False(t, cfg.Cache.Enabled)
}

func TestShallowMergeYAML_SectionReplaced(t *testing.T) {
	cfg := config.New()
	path := writeOverlay(t, `
output:
  default_format: json
  style: never
  unit: 1000
`)
	require.NoError(t, config.ShallowMergeYAML(cfg, path))

	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, "never", cfg.Output.Style)
	assert.InDelta(t, 1000.0, cfg.Output.Unit, 0)

	// Untouched sections keep their defaults.
	assert.Equal(t, engine.DefaultBaseYear, cfg.Engine.BaseYear)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestShallowMergeYAML_PartialSectionKeepsDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name:    "engine concurrency only",
			content: "engine:\n  concurrency: 4\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 4, cfg.Engine.Concurrency)
				assert.Equal(t, engine.DefaultFastConvergenceYears, cfg.Engine.FastConvergenceYears)
				assert.Equal(t, engine.DefaultGradualConvergenceYears, cfg.Engine.GradualConvergenceYears)
				assert.Equal(t, engine.DefaultBaseYear, cfg.Engine.BaseYear)
			},
		},
		{
			name:    "engine base year only",
			content: "engine:\n  base_year: 2023\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 2023, cfg.Engine.BaseYear)
				assert.Equal(t, engine.DefaultFastConvergenceYears, cfg.Engine.FastConvergenceYears)
			},
		},
		{
			name:    "output style only",
			content: "output:\n  style: never\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.StyleNever, cfg.Output.Style)
				assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
				assert.InDelta(t, 1.0, cfg.Output.Unit, 0)
			},
		},
		{
			name:    "cache enabled only",
			content: "cache:\n  enabled: true\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.Cache.Enabled)
				assert.Equal(t, config.New().Cache.TTLSeconds, cfg.Cache.TTLSeconds)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(writeOverlay(t, tt.content))
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())
			tt.check(t, cfg)
		})
	}
}

func TestShallowMergeYAML_EdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty file", "", false},
		{"comments only", "# nothing here\n", false},
		{"unknown key ignored", "plugins:\n  foo: bar\n", false},
		{"malformed yaml", "engine: [unterminated\n", true},
		{"wrong type", "engine:\n  base_year: soon\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			err := config.ShallowMergeYAML(cfg, writeOverlay(t, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, config.New(), cfg)
		})
	}

	t.Run("nil target", func(t *testing.T) {
		assert.Error(t, config.ShallowMergeYAML(nil, "x"))
	})
	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, config.ShallowMergeYAML(config.New(), filepath.Join(t.TempDir(), "nope.yaml")))
	})
}

func TestLoad(t *testing.T) {
	t.Run("ExplicitPath", func(t *testing.T) {
		path := writeOverlay(t, "logging:\n  level: debug\n  format: json\n")
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("ExplicitPathMissing", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("DefaultPathMissing", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvLogLevel:    "debug",
		config.EnvLogFormat:   " json ",
		config.EnvCacheDir:    "/tmp/hd-cache",
		config.EnvConcurrency: "3",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.New()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/tmp/hd-cache", cfg.Cache.CacheDirectory())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 3, cfg.Engine.ToOptions().Concurrency)

	t.Run("BadConcurrency", func(t *testing.T) {
		bad := func(k string) (string, bool) {
			if k == config.EnvConcurrency {
				return "many", true
			}
			return "", false
		}
		err := config.New().ApplyEnv(bad)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("BlankIgnored", func(t *testing.T) {
		blank := func(string) (string, bool) { return "  ", true }
		cfg := config.New()
		require.NoError(t, cfg.ApplyEnv(blank))
		assert.Equal(t, config.New(), cfg)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"inverted window", func(c *config.Config) { c.Engine.StartYear, c.Engine.EndYear = 2050, 2024 }},
		{"zero horizon", func(c *config.Config) { c.Engine.GradualConvergenceYears = 0 }},
		{"bad format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }},
		{"bad style", func(c *config.Config) { c.Output.Style = "sometimes" }},
		{"zero unit", func(c *config.Config) { c.Output.Unit = 0 }},
		{"cache without ttl", func(c *config.Config) { c.Cache.Enabled, c.Cache.TTLSeconds = true, 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "info", Format: "json"}
	assert.Equal(t, logging.OutputStderr, lc.ToLoggingConfig().Output)

	lc.File = "/var/log/housingdemand.log"
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, lc.File, got.File)
}
