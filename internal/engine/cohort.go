package engine

import (
	"fmt"
	"slices"
)

// Cohort is a five-year age band of the household-forming population.
// The set is closed and ordered by lower age bound; Cohort65Plus is the
// open-ended top band.
type Cohort int

// Household-forming cohorts, youngest first.
const (
	Cohort15To19 Cohort = iota
	Cohort20To24
	Cohort25To29
	Cohort30To34
	Cohort35To39
	Cohort40To44
	Cohort45To49
	Cohort50To54
	Cohort55To59
	Cohort60To64
	Cohort65Plus
)

const (
	// youngestHouseholdAge is the lower bound of Cohort15To19.
	youngestHouseholdAge = 15

	// cohortWidth is the number of single years of age in a closed band.
	cohortWidth = 5
)

//nolint:gochecknoglobals // Fixed lookup table for the closed cohort set.
var cohortLabels = [...]string{
	"15-19", "20-24", "25-29", "30-34", "35-39", "40-44",
	"45-49", "50-54", "55-59", "60-64", "65+",
}

// AllCohorts returns every cohort in ascending age order.
func AllCohorts() []Cohort {
	out := make([]Cohort, len(cohortLabels))
	for i := range cohortLabels {
		out[i] = Cohort(i)
	}
	return out
}

// Valid reports whether c belongs to the cohort set.
func (c Cohort) Valid() bool {
	return c >= Cohort15To19 && c <= Cohort65Plus
}

// String returns the age-band label, e.g. "25-29" or "65+".
func (c Cohort) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Cohort(%d)", int(c))
	}
	return cohortLabels[c]
}

// LowerAge returns the youngest age in the band.
func (c Cohort) LowerAge() int {
	return youngestHouseholdAge + cohortWidth*int(c)
}

// UpperAge returns the oldest age in the band. ok is false for the
// open-ended top band.
func (c Cohort) UpperAge() (age int, ok bool) {
	if c.IsOpenEnded() {
		return 0, false
	}
	return c.LowerAge() + cohortWidth - 1, true
}

// IsOpenEnded reports whether c is the top band with no upper age.
func (c Cohort) IsOpenEnded() bool {
	return c == Cohort65Plus
}

// CohortForAge maps a single year of age to its cohort. Ages below the
// household-forming range return false.
func CohortForAge(age int) (Cohort, bool) {
	if age < youngestHouseholdAge {
		return 0, false
	}
	if age >= Cohort65Plus.LowerAge() {
		return Cohort65Plus, true
	}
	return Cohort((age - youngestHouseholdAge) / cohortWidth), true
}

// ParseCohort parses an age-band label. Unknown labels are rejected with
// ErrUnknownCohort rather than ignored.
func ParseCohort(label string) (Cohort, error) {
	idx := slices.Index(cohortLabels[:], label)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCohort, label)
	}
	return Cohort(idx), nil
}

// MarshalText implements encoding.TextMarshaler so cohort-keyed maps
// serialise with their labels.
func (c Cohort) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCohort, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cohort) UnmarshalText(text []byte) error {
	parsed, err := ParseCohort(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CohortValues holds one number per cohort: a population count or a
// headship rate. A missing cohort reads as zero.
type CohortValues map[Cohort]float64

// CohortRates is a per-cohort set of headship rates.
type CohortRates = CohortValues

// Get returns the value for c, or zero if c is absent.
func (v CohortValues) Get(c Cohort) float64 {
	return v[c]
}

// Clone returns an independent copy.
func (v CohortValues) Clone() CohortValues {
	if v == nil {
		return nil
	}
	out := make(CohortValues, len(v))
	for c, x := range v {
		out[c] = x
	}
	return out
}

// Sum adds the values of every cohort present.
func (v CohortValues) Sum() float64 {
	var total float64
	for _, c := range AllCohorts() {
		total += v[c]
	}
	return total
}

// PopulationYear is one year's population observation. The cohort
// breakdown is optional and is not required to sum to Total; the two
// usually come from independent aggregation pipelines.
type PopulationYear struct {
	Total   float64      `json:"total" yaml:"total"`
	Cohorts CohortValues `json:"cohorts,omitempty" yaml:"cohorts,omitempty"`
}

// PopulationSeries maps a year to its population observation.
type PopulationSeries map[int]PopulationYear

// Years returns the series years in ascending order.
func (s PopulationSeries) Years() []int {
	years := make([]int, 0, len(s))
	for year := range s {
		years = append(years, year)
	}
	slices.Sort(years)
	return years
}

// Totals projects the population totals into a YearSeries.
func (s PopulationSeries) Totals() YearSeries {
	out := make(YearSeries, len(s))
	for year, p := range s {
		out[year] = p.Total
	}
	return out
}

// RateSource yields the per-cohort headship rates in force for a year.
type RateSource interface {
	RatesFor(year int) CohortRates
}

// CohortRateSeries is a per-year table of cohort headship rates.
type CohortRateSeries map[int]CohortRates

// RatesFor returns the rates recorded for year. A year with no entry
// yields nil, which contributes zero households.
func (s CohortRateSeries) RatesFor(year int) CohortRates {
	return s[year]
}
