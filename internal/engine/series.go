package engine

import (
	"fmt"
	"math"
	"slices"
)

// YearSeries maps a calendar year to a single value: a population total
// or an aggregate rate. Input series may have gaps; Interpolate returns a
// series with one entry per year between the first and last year.
type YearSeries map[int]float64

// Years returns the series years in ascending order.
func (s YearSeries) Years() []int {
	years := make([]int, 0, len(s))
	for year := range s {
		years = append(years, year)
	}
	slices.Sort(years)
	return years
}

// Span returns the first and last year of the series.
// ok is false for an empty series.
func (s YearSeries) Span() (first, last int, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	years := s.Years()
	return years[0], years[len(years)-1], true
}

// IsContiguous reports whether every year between the first and last
// year is present.
func (s YearSeries) IsContiguous() bool {
	first, last, ok := s.Span()
	if !ok {
		return true
	}
	return last-first+1 == len(s)
}

// Clone returns an independent copy of the series.
func (s YearSeries) Clone() YearSeries {
	if s == nil {
		return nil
	}
	out := make(YearSeries, len(s))
	for year, v := range s {
		out[year] = v
	}
	return out
}

// Interpolate fills the gaps of a sparse series with piecewise-linear
// values and returns a dense series covering [first, last].
//
// Years present in the input keep their value exactly. A missing year y
// between known years lower < y < upper gets
//
//	v(lower) + t * (v(upper) - v(lower)),  t = (y - lower) / (upper - lower)
//
// There is no extrapolation beyond the first or last known year, and a
// single-year input yields that single year. An empty input, or a value
// that is NaN or infinite, fails with ErrInvalidInput.
func Interpolate(sparse YearSeries) (YearSeries, error) {
	if len(sparse) == 0 {
		return nil, fmt.Errorf("%w: empty year series", ErrInvalidInput)
	}

	years := sparse.Years()
	for _, year := range years {
		if v := sparse[year]; math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value %v for year %d", ErrInvalidInput, v, year)
		}
	}

	dense := make(YearSeries, years[len(years)-1]-years[0]+1)
	for i, upper := range years {
		dense[upper] = sparse[upper]
		if i == 0 {
			continue
		}

		lower := years[i-1]
		from, to := sparse[lower], sparse[upper]
		span := float64(upper - lower)
		for year := lower + 1; year < upper; year++ {
			t := float64(year-lower) / span
			dense[year] = from + t*(to-from)
		}
	}

	return dense, nil
}

// InterpolatePopulation interpolates sparse population totals into a
// dense PopulationSeries without cohort breakdowns.
func InterpolatePopulation(totals YearSeries) (PopulationSeries, error) {
	dense, err := Interpolate(totals)
	if err != nil {
		return nil, fmt.Errorf("interpolating population totals: %w", err)
	}

	out := make(PopulationSeries, len(dense))
	for year, total := range dense {
		out[year] = PopulationYear{Total: total}
	}
	return out, nil
}

// InterpolateCohorts interpolates each cohort of a sparse per-year
// breakdown independently. The result covers every year between the
// first and last input year; a cohort is only filled inside the span of
// years where it was observed, so outside that span it reads as zero.
func InterpolateCohorts(sparse map[int]CohortValues) (map[int]CohortValues, error) {
	if len(sparse) == 0 {
		return nil, fmt.Errorf("%w: empty cohort series", ErrInvalidInput)
	}

	years := make([]int, 0, len(sparse))
	for year := range sparse {
		years = append(years, year)
	}
	slices.Sort(years)

	out := make(map[int]CohortValues, years[len(years)-1]-years[0]+1)
	for year := years[0]; year <= years[len(years)-1]; year++ {
		out[year] = CohortValues{}
	}

	for _, cohort := range AllCohorts() {
		observed := YearSeries{}
		for _, year := range years {
			if v, ok := sparse[year][cohort]; ok {
				observed[year] = v
			}
		}
		if len(observed) == 0 {
			continue
		}

		dense, err := Interpolate(observed)
		if err != nil {
			return nil, fmt.Errorf("interpolating cohort %s: %w", cohort, err)
		}
		for year, v := range dense {
			out[year][cohort] = v
		}
	}

	return out, nil
}
