package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rshade/housingdemand/internal/engine"
	"github.com/rshade/housingdemand/internal/logging"
)

// DefaultCurrentRates returns the Irish 2022 headship rates by cohort.
func DefaultCurrentRates() engine.CohortRates {
	return engine.CohortRates{
		engine.Cohort15To19: 0,
		engine.Cohort20To24: 0.15,
		engine.Cohort25To29: 0.263,
		engine.Cohort30To34: 0.397,
		engine.Cohort35To39: 0.466,
		engine.Cohort40To44: 0.502,
		engine.Cohort45To49: 0.527,
		engine.Cohort50To54: 0.55,
		engine.Cohort55To59: 0.564,
		engine.Cohort60To64: 0.579,
		engine.Cohort65Plus: 0.62,
	}
}

// DefaultTargetRates returns the UK headship rates used as the
// convergence target.
func DefaultTargetRates() engine.CohortRates {
	return engine.CohortRates{
		engine.Cohort15To19: 0.03,
		engine.Cohort20To24: 0.15,
		engine.Cohort25To29: 0.38,
		engine.Cohort30To34: 0.52,
		engine.Cohort35To39: 0.56,
		engine.Cohort40To44: 0.58,
		engine.Cohort45To49: 0.59,
		engine.Cohort50To54: 0.60,
		engine.Cohort55To59: 0.61,
		engine.Cohort60To64: 0.62,
		engine.Cohort65Plus: 0.65,
	}
}

type ratesDocument struct {
	Current map[string]float64 `yaml:"current" validate:"omitempty,dive,gte=0,lte=1"`
	Target  map[string]float64 `yaml:"target" validate:"omitempty,dive,gte=0,lte=1"`
}

// LoadCohortRates reads a rates document from path.
func LoadCohortRates(ctx context.Context, path string) (current, target engine.CohortRates, err error) {
	logging.FromContext(ctx).Debug().
		Str("component", "ingest").
		Str("operation", "load_rates").
		Str("rates_path", path).
		Msg("loading cohort headship rates")

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening rates file: %w", err)
	}
	defer f.Close()

	current, target, err = ParseCohortRates(f)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing rates file %s: %w", path, err)
	}
	return current, target, nil
}

// ParseCohortRates parses a {current: {cohort: rate}, target: {...}}
// document. A missing section falls back to the built-in defaults.
// Unknown cohort labels fail with engine.ErrUnknownCohort.
func ParseCohortRates(r io.Reader) (current, target engine.CohortRates, err error) {
	var doc ratesDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := fileValidate.Struct(doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	current, err = cohortRatesOrDefault(doc.Current, DefaultCurrentRates)
	if err != nil {
		return nil, nil, fmt.Errorf("current rates: %w", err)
	}
	target, err = cohortRatesOrDefault(doc.Target, DefaultTargetRates)
	if err != nil {
		return nil, nil, fmt.Errorf("target rates: %w", err)
	}
	return current, target, nil
}

func cohortRatesOrDefault(raw map[string]float64, fallback func() engine.CohortRates) (engine.CohortRates, error) {
	if len(raw) == 0 {
		return fallback(), nil
	}
	out := make(engine.CohortRates, len(raw))
	for label, rate := range raw {
		c, err := engine.ParseCohort(label)
		if err != nil {
			return nil, err
		}
		out[c] = rate
	}
	return out, nil
}
