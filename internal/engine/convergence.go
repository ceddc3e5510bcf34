package engine

import "fmt"

// HeadshipMode selects how a ConvergenceModel evolves over time.
type HeadshipMode int

const (
	// ModeStatic keeps the current rates for every year.
	ModeStatic HeadshipMode = iota

	// ModeConverging moves linearly from the current to the target rates
	// over the model horizon.
	ModeConverging
)

// String returns the mode name.
func (m HeadshipMode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeConverging:
		return "converging"
	default:
		return fmt.Sprintf("HeadshipMode(%d)", int(m))
	}
}

// ConvergeRate returns the rate in force in year when a single rate moves
// linearly from current (at baseYear) to target (at baseYear+horizon).
//
// Edge cases:
//   - year <= baseYear: returns current
//   - year >= baseYear+horizon: returns target
//
// The clamps run before any division, so a non-positive horizon simply
// snaps to target after the base year.
func ConvergeRate(current, target float64, baseYear, horizon, year int) float64 {
	if year <= baseYear {
		return current
	}
	if year >= baseYear+horizon {
		return target
	}
	t := float64(year-baseYear) / float64(horizon)
	return current + t*(target-current)
}

// ConvergenceModel describes how per-cohort headship rates evolve from a
// current set towards a target set. Each cohort converges independently:
// cohorts with different gaps move at different absolute speeds but all
// reach their targets at BaseYear+Horizon.
type ConvergenceModel struct {
	Mode     HeadshipMode
	Current  CohortRates
	Target   CohortRates
	BaseYear int
	Horizon  int
}

// StaticModel returns a model that always yields current.
func StaticModel(current CohortRates) ConvergenceModel {
	return ConvergenceModel{Mode: ModeStatic, Current: current}
}

// ConvergingModel returns a model that reaches target horizon years after
// baseYear.
func ConvergingModel(current, target CohortRates, baseYear, horizon int) ConvergenceModel {
	return ConvergenceModel{
		Mode:     ModeConverging,
		Current:  current,
		Target:   target,
		BaseYear: baseYear,
		Horizon:  horizon,
	}
}

// Validate rejects a converging model without a positive horizon.
func (m ConvergenceModel) Validate() error {
	switch m.Mode {
	case ModeStatic:
		return nil
	case ModeConverging:
		if m.Horizon <= 0 {
			return fmt.Errorf("%w: convergence horizon must be positive, got %d", ErrInvalidInput, m.Horizon)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown headship mode %d", ErrInvalidInput, int(m.Mode))
	}
}

// RatesFor returns the cohort rates in force for year. The result is
// always a fresh map.
func (m ConvergenceModel) RatesFor(year int) CohortRates {
	if m.Mode == ModeStatic || year <= m.BaseYear {
		return m.Current.Clone()
	}
	if year >= m.BaseYear+m.Horizon {
		return m.Target.Clone()
	}

	out := make(CohortRates, len(m.Current))
	for _, c := range AllCohorts() {
		current, hasCurrent := m.Current[c]
		target, hasTarget := m.Target[c]
		if !hasCurrent && !hasTarget {
			continue
		}
		out[c] = ConvergeRate(current, target, m.BaseYear, m.Horizon, year)
	}
	return out
}

// Series materialises the model as a per-year table for [from, to].
func (m ConvergenceModel) Series(from, to int) CohortRateSeries {
	out := make(CohortRateSeries)
	for year := from; year <= to; year++ {
		out[year] = m.RatesFor(year)
	}
	return out
}
