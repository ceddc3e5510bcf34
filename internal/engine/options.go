package engine

import (
	"errors"
	"fmt"
	"runtime"
)

// Default engine settings, calibrated to the Irish 2022 baseline.
const (
	// DefaultBaseYear anchors the housing stock and headship convergence.
	DefaultBaseYear = 2022

	// DefaultFastConvergenceYears is the horizon of the fast headship path (2022-2033).
	DefaultFastConvergenceYears = 11

	// DefaultGradualConvergenceYears is the horizon of the gradual headship path (2022-2048).
	DefaultGradualConvergenceYears = 26

	// DefaultHeadshipEndYear is the last year of materialised headship tables.
	DefaultHeadshipEndYear = 2057

	// DefaultBaseHousingStock is the dwelling stock in the base year.
	DefaultBaseHousingStock = 2_300_000

	// DefaultObsolescenceRate is the share of stock replaced each year.
	DefaultObsolescenceRate = 0.0025

	// DefaultReferenceNeed is the annual need estimate published alongside
	// the cohort projections, in dwellings.
	DefaultReferenceNeed = 52_000

	// DefaultReferenceSupply is the number of dwellings completed in 2023.
	DefaultReferenceSupply = 33_000

	// DefaultStartYear and DefaultEndYear bound the default reporting window.
	DefaultStartYear = 2024
	DefaultEndYear   = 2050
)

// Options is the immutable configuration of an Engine. Engines built
// from different options can be used side by side.
type Options struct {
	BaseYear                int
	FastConvergenceYears    int
	GradualConvergenceYears int
	HeadshipEndYear         int
	BaseHousingStock        float64
	DefaultObsolescence     float64
	StartYear               int
	EndYear                 int

	// ReferenceNeed and ReferenceSupply are fixed annual levels, in
	// dwellings, that projections are reported against.
	ReferenceNeed   float64
	ReferenceSupply float64

	// Concurrency bounds the per-scenario fan-out. Zero means GOMAXPROCS.
	Concurrency int
}

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		BaseYear:                DefaultBaseYear,
		FastConvergenceYears:    DefaultFastConvergenceYears,
		GradualConvergenceYears: DefaultGradualConvergenceYears,
		HeadshipEndYear:         DefaultHeadshipEndYear,
		BaseHousingStock:        DefaultBaseHousingStock,
		DefaultObsolescence:     DefaultObsolescenceRate,
		StartYear:               DefaultStartYear,
		EndYear:                 DefaultEndYear,
		ReferenceNeed:           DefaultReferenceNeed,
		ReferenceSupply:         DefaultReferenceSupply,
	}
}

// Validate checks horizons, the reporting window and the base stock.
func (o Options) Validate() error {
	var errs []error
	if o.FastConvergenceYears <= 0 {
		errs = append(errs, fmt.Errorf("fast convergence years must be positive, got %d", o.FastConvergenceYears))
	}
	if o.GradualConvergenceYears <= 0 {
		errs = append(errs, fmt.Errorf("gradual convergence years must be positive, got %d", o.GradualConvergenceYears))
	}
	if o.HeadshipEndYear < o.BaseYear {
		errs = append(errs, fmt.Errorf("headship end year %d is before base year %d", o.HeadshipEndYear, o.BaseYear))
	}
	if o.StartYear > o.EndYear {
		errs = append(errs, fmt.Errorf("start year %d is after end year %d", o.StartYear, o.EndYear))
	}
	if o.BaseHousingStock < 0 {
		errs = append(errs, fmt.Errorf("base housing stock must be >= 0, got %g", o.BaseHousingStock))
	}
	if o.DefaultObsolescence < 0 || o.DefaultObsolescence > 1 {
		errs = append(errs, fmt.Errorf("obsolescence rate must be between 0 and 1, got %g", o.DefaultObsolescence))
	}
	if o.ReferenceNeed < 0 || o.ReferenceSupply < 0 {
		errs = append(errs, fmt.Errorf("reference levels must be >= 0, got need %g, supply %g",
			o.ReferenceNeed, o.ReferenceSupply))
	}
	if o.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must be >= 0, got %d", o.Concurrency))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// ModelFor resolves a headship path to its convergence model.
func (o Options) ModelFor(path HeadshipPath, current, target CohortRates) ConvergenceModel {
	switch path {
	case PathGradual:
		return ConvergingModel(current, target, o.BaseYear, o.GradualConvergenceYears)
	case PathFast:
		return ConvergingModel(current, target, o.BaseYear, o.FastConvergenceYears)
	default:
		return StaticModel(current)
	}
}

// workers returns the effective fan-out width.
func (o Options) workers() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}
