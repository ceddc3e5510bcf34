package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/housingdemand/internal/engine/batch"
	"github.com/rshade/housingdemand/internal/logging"
)

// Model variants reported to a Recorder.
const (
	VariantAggregate = "aggregate"
	VariantCohort    = "cohort"
)

// Recorder receives engine observations. internal/metrics provides a
// Prometheus implementation.
type Recorder interface {
	ObserveScenario(variant string, points int)
	ObserveFallback(dimension string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveScenario(string, int) {}
func (noopRecorder) ObserveFallback(string)      {}

// Engine evaluates scenario matrices under a fixed set of Options.
// It holds no mutable state; every call recomputes from its inputs.
type Engine struct {
	opts     Options
	recorder Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// New creates an Engine. It fails with ErrInvalidInput if opts are invalid.
func New(opts Options, options ...Option) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{opts: opts, recorder: noopRecorder{}}
	for _, o := range options {
		o(e)
	}
	return e, nil
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// GenerateMatrix projects the full aggregate cross-product, computing
// scenarios concurrently. The result is identical to GenerateMatrix(in):
// same order, same values.
func (e *Engine) GenerateMatrix(ctx context.Context, in MatrixInput) ([]ScenarioResult, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "GenerateMatrix").
		Logger()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := fanOut(ctx, logger, e.opts.workers(), in.combinations(), func(c combination) ScenarioResult {
		return in.project(c)
	})
	if err != nil {
		return nil, fmt.Errorf("generating scenario matrix: %w", err)
	}

	for _, r := range results {
		e.recorder.ObserveScenario(VariantAggregate, len(r.TimeSeries))
	}

	logger.Debug().
		Int("population_scenarios", len(in.Population)).
		Int("headship_scenarios", len(in.Headship)).
		Int("obsolescence_scenarios", len(in.Obsolescence)).
		Int("results", len(results)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("scenario matrix generated")

	return results, nil
}

// GenerateCohortMatrix projects every migration/headship-path pair
// concurrently using the engine's convergence horizons.
func (e *Engine) GenerateCohortMatrix(ctx context.Context, in CohortMatrixInput) ([]ScenarioResult, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "GenerateCohortMatrix").
		Logger()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := fanOut(ctx, logger, e.opts.workers(), in.combinations(), func(c cohortCombination) ScenarioResult {
		return in.projectCohort(e.opts, in.Population[c.population], c.path)
	})
	if err != nil {
		return nil, fmt.Errorf("generating cohort scenario matrix: %w", err)
	}

	for _, r := range results {
		e.recorder.ObserveScenario(VariantCohort, len(r.TimeSeries))
	}

	logger.Debug().
		Int("migration_scenarios", len(in.Population)).
		Int("results", len(results)).
		Float64("obsolescence_rate", in.ObsolescenceRate).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("cohort scenario matrix generated")

	return results, nil
}

// ProjectSelection projects the scenario named by sel. Fallbacks are
// returned, counted, and logged at debug level; surfacing them to the
// user is the caller's job.
func (e *Engine) ProjectSelection(ctx context.Context, in MatrixInput, sel Selection) (SelectedProjection, error) {
	out, err := SelectScenario(in, sel)
	if err != nil {
		return SelectedProjection{}, err
	}
	e.observeSelection(ctx, VariantAggregate, out)
	return out, nil
}

// ProjectCohortSelection projects the cohort scenario named by sel.
func (e *Engine) ProjectCohortSelection(
	ctx context.Context,
	in CohortMatrixInput,
	sel CohortSelection,
) (SelectedProjection, error) {
	out, err := SelectCohortScenario(e.opts, in, sel)
	if err != nil {
		return SelectedProjection{}, err
	}
	e.observeSelection(ctx, VariantCohort, out)
	return out, nil
}

func (e *Engine) observeSelection(ctx context.Context, variant string, out SelectedProjection) {
	logger := logging.FromContext(ctx)
	e.recorder.ObserveScenario(variant, len(out.Scenario.TimeSeries))
	for _, f := range out.Fallbacks {
		e.recorder.ObserveFallback(f.Dimension)
		logger.Debug().
			Str("component", "engine").
			Str("dimension", f.Dimension).
			Str("requested", f.Requested).
			Str("used", f.Used).
			Msg("selection key not found, using default")
	}
}

// progressStep is the completion percentage between progress log lines.
const progressStep = 25.0

// fanOut evaluates project for every combination with bounded
// concurrency, keeping results in input order. Progress is logged at
// debug level every progressStep percent.
func fanOut[C any](
	ctx context.Context,
	logger zerolog.Logger,
	workers int,
	combos []C,
	project func(C) ScenarioResult,
) ([]ScenarioResult, error) {
	return batch.MapWithProgress(ctx, workers, combos,
		func(_ context.Context, c C, _ int) (ScenarioResult, error) {
			return project(c), nil
		},
		progressLogger(logger))
}

// progressLogger returns a callback that logs each progressStep crossing
// and the final snapshot. Callbacks are serialised by batch, so the
// captured threshold needs no lock.
func progressLogger(logger zerolog.Logger) batch.ProgressCallback {
	next := progressStep
	return func(s batch.ProgressSnapshot) {
		if !s.IsComplete() && s.PercentComplete < next {
			return
		}
		for next <= s.PercentComplete {
			next += progressStep
		}
		logger.Debug().
			Int("processed", s.ProcessedItems).
			Int("total", s.TotalItems).
			Float64("percent_complete", s.PercentComplete).
			Float64("items_per_second", s.ItemsPerSecond).
			Dur("eta", s.EstimatedTimeRemaining()).
			Msg("scenario projection progress")
	}
}
