package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment overrides.
const (
	EnvLogLevel    = "HOUSINGDEMAND_LOG_LEVEL"
	EnvLogFormat   = "HOUSINGDEMAND_LOG_FORMAT"
	EnvCacheDir    = "HOUSINGDEMAND_CACHE_DIR"
	EnvConcurrency = "HOUSINGDEMAND_CONCURRENCY"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment overrides onto c. Unset or blank
// variables are ignored; a malformed number is an error.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := get(EnvLogFormat); ok {
		c.Logging.Format = v
	}
	if v, ok := get(EnvCacheDir); ok {
		c.Cache.Directory = v
		c.Cache.Enabled = true
	}
	if v, ok := get(EnvConcurrency); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvConcurrency, v)
		}
		c.Engine.Concurrency = n
	}
	return nil
}
