package ingest

import "errors"

var (
	// ErrInvalidDocument reports a scenario or rates document that does not
	// have the expected shape or fails validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrUnsupportedSchema reports a schema_version outside the supported range.
	ErrUnsupportedSchema = errors.New("unsupported schema version")

	// ErrMissingHousingStock reports that no housing stock figure exists for
	// the requested base year.
	ErrMissingHousingStock = errors.New("missing housing stock for base year")

	// ErrMalformedRow reports a CSV record that cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")

	// ErrNoPopulationData reports a population export without any usable rows.
	ErrNoPopulationData = errors.New("no population data")
)
