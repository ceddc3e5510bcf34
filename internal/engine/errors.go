package engine

import "errors"

// Engine errors. Only these abort a computation; degenerate scenarios,
// unknown selection keys and missing cohort data all resolve to a
// well-defined fallback value instead.
var (
	// ErrInvalidInput reports an empty or malformed input series.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateScenario reports a scenario key that is empty, repeated
	// within its set, or that produces a colliding scenario ID.
	ErrDuplicateScenario = errors.New("duplicate scenario")

	// ErrUnknownCohort reports an age-band label outside the fixed cohort set.
	ErrUnknownCohort = errors.New("unknown cohort")

	// ErrUnknownMigration reports a migration key other than M1, M2 or M3.
	ErrUnknownMigration = errors.New("unknown migration scenario")

	// ErrUnknownHeadshipPath reports a headship path other than current,
	// gradual or fast.
	ErrUnknownHeadshipPath = errors.New("unknown headship path")
)
