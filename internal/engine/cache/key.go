package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// KeyParams identifies a cached computation. Options and Inputs must be
// JSON-serialisable; map keys are sorted by encoding/json so equal values
// always hash equally.
type KeyParams struct {
	Operation     string `json:"operation"`
	SchemaVersion string `json:"schema_version,omitempty"`
	Options       any    `json:"options,omitempty"`
	Inputs        any    `json:"inputs,omitempty"`
}

// GenerateKey returns the hex SHA-256 of the canonical JSON of p.
// Operation and SchemaVersion are compared case-insensitively.
func GenerateKey(p KeyParams) (string, error) {
	p.Operation = strings.ToLower(strings.TrimSpace(p.Operation))
	p.SchemaVersion = strings.ToLower(strings.TrimSpace(p.SchemaVersion))
	if p.Operation == "" {
		return "", ErrInvalidCacheKey
	}

	canonical, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding cache key params: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
