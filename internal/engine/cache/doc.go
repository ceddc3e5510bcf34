// Package cache memoises generated scenario matrices on disk.
//
// Entries are JSON files under a cache directory (by default
// ~/.housingdemand/cache), keyed by the SHA-256 of the canonical JSON of
// everything that determines a result: the operation, the engine options
// and the scenario inputs. Entries expire after a TTL that can be set in
// the config file or through HOUSINGDEMAND_CACHE_TTL_SECONDS.
package cache
