package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rshade/housingdemand/internal/engine"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Styling modes for table output.
const (
	StyleAuto   = "auto"
	StyleAlways = "always"
	StyleNever  = "never"
)

const (
	dirName        = ".housingdemand"
	configFileName = "config.yaml"
	cacheDirName   = "cache"

	defaultCacheTTLSeconds = 86400
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the on-disk configuration, ~/.housingdemand/config.yaml.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"  json:"engine"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Output  OutputConfig  `yaml:"output"  json:"output"`
	Cache   CacheConfig   `yaml:"cache"   json:"cache"`
}

// EngineConfig mirrors engine.Options.
type EngineConfig struct {
	BaseYear                int     `yaml:"base_year"                 json:"base_year"`
	FastConvergenceYears    int     `yaml:"fast_convergence_years"    json:"fast_convergence_years"`
	GradualConvergenceYears int     `yaml:"gradual_convergence_years" json:"gradual_convergence_years"`
	HeadshipEndYear         int     `yaml:"headship_end_year"         json:"headship_end_year"`
	BaseHousingStock        float64 `yaml:"base_housing_stock"        json:"base_housing_stock"`
	DefaultObsolescence     float64 `yaml:"default_obsolescence"      json:"default_obsolescence"`
	StartYear               int     `yaml:"start_year"                json:"start_year"`
	EndYear                 int     `yaml:"end_year"                  json:"end_year"`
	ReferenceNeed           float64 `yaml:"reference_need"            json:"reference_need"`
	ReferenceSupply         float64 `yaml:"reference_supply"          json:"reference_supply"`
	Concurrency             int     `yaml:"concurrency"               json:"concurrency"`
}

// LoggingConfig controls log level, format and destination. An empty File
// logs to stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
	Caller bool   `yaml:"caller"         json:"caller"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Style         string `yaml:"style"          json:"style"`
	// Unit is the multiplier applied to scenario file values, e.g. 1000
	// when population is given in thousands.
	Unit float64 `yaml:"unit" json:"unit"`
}

// CacheConfig controls memoisation of generated matrices.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"             json:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"         json:"ttl_seconds"`
	Directory  string `yaml:"directory,omitempty" json:"directory,omitempty"`
}

// New returns the default configuration.
func New() *Config {
	opts := engine.DefaultOptions()
	return &Config{
		Engine: EngineConfig{
			BaseYear:                opts.BaseYear,
			FastConvergenceYears:    opts.FastConvergenceYears,
			GradualConvergenceYears: opts.GradualConvergenceYears,
			HeadshipEndYear:         opts.HeadshipEndYear,
			BaseHousingStock:        opts.BaseHousingStock,
			DefaultObsolescence:     opts.DefaultObsolescence,
			StartYear:               opts.StartYear,
			EndYear:                 opts.EndYear,
			ReferenceNeed:           opts.ReferenceNeed,
			ReferenceSupply:         opts.ReferenceSupply,
		},
		Logging: LoggingConfig{Level: "warn", Format: "console"},
		Output:  OutputConfig{DefaultFormat: FormatTable, Style: StyleAuto, Unit: 1},
		Cache:   CacheConfig{Enabled: false, TTLSeconds: defaultCacheTTLSeconds},
	}
}

// Load returns the defaults overlaid with the file at path. A missing
// file at the default path is not an error; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Engine.ToOptions().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}
	switch strings.ToLower(c.Output.DefaultFormat) {
	case FormatTable, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("output.default_format must be %q or %q, got %q",
			FormatTable, FormatJSON, c.Output.DefaultFormat))
	}
	switch strings.ToLower(c.Output.Style) {
	case StyleAuto, StyleAlways, StyleNever:
	default:
		errs = append(errs, fmt.Errorf("output.style must be auto, always or never, got %q", c.Output.Style))
	}
	if c.Output.Unit <= 0 {
		errs = append(errs, fmt.Errorf("output.unit must be positive, got %g", c.Output.Unit))
	}
	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl_seconds must be positive, got %d", c.Cache.TTLSeconds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ToOptions converts the engine section to engine.Options.
func (e EngineConfig) ToOptions() engine.Options {
	return engine.Options{
		BaseYear:                e.BaseYear,
		FastConvergenceYears:    e.FastConvergenceYears,
		GradualConvergenceYears: e.GradualConvergenceYears,
		HeadshipEndYear:         e.HeadshipEndYear,
		BaseHousingStock:        e.BaseHousingStock,
		DefaultObsolescence:     e.DefaultObsolescence,
		StartYear:               e.StartYear,
		EndYear:                 e.EndYear,
		ReferenceNeed:           e.ReferenceNeed,
		ReferenceSupply:         e.ReferenceSupply,
		Concurrency:             e.Concurrency,
	}
}

// CacheDirectory returns the configured cache directory or the default
// under the user's home.
func (c CacheConfig) CacheDirectory() string {
	if c.Directory != "" {
		return c.Directory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), dirName, cacheDirName)
	}
	return filepath.Join(home, dirName, cacheDirName)
}

// DefaultPath returns ~/.housingdemand/config.yaml, or "" when the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, dirName, configFileName)
}
