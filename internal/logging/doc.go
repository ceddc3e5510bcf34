// Package logging builds the zerolog loggers used across housingdemand
// and carries them, together with a per-run ID, in a context.Context.
package logging
