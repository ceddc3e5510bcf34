package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML keys; each maps to one Config section.
const (
	keyEngine  = "engine"
	keyLogging = "logging"
	keyOutput  = "output"
	keyCache   = "cache"
)

// ShallowMergeYAML overlays the YAML file at overlayPath onto target.
// Keys present in the file overwrite the matching fields of target;
// everything else keeps its current value. A failed section leaves
// target unchanged. Unknown keys are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// decodeSection decodes node onto a copy of the current section, so keys
// absent from the file keep their existing values.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyEngine:
		v := target.Engine
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Engine = v
	case keyLogging:
		v := target.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyOutput:
		v := target.Output
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyCache:
		v := target.Cache
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Cache = v
	}
	return nil
}
