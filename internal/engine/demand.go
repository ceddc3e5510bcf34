package engine

import "slices"

// TimeSeriesPoint is one projected year of one scenario.
//
// NewHouseholds and Replacement always sum to Demand. Stock is the housing
// stock after Demand has been added, so for consecutive points
// Stock[y] = Stock[y-1] + Demand[y]. TotalHouseholds is only populated by
// the cohort projection.
type TimeSeriesPoint struct {
	Year            int     `json:"year"`
	Demand          float64 `json:"demand"`
	NewHouseholds   float64 `json:"newHouseholds"`
	Replacement     float64 `json:"replacement"`
	HouseholdGrowth float64 `json:"householdGrowth"`
	TotalHouseholds float64 `json:"totalHouseholds,omitempty"`
	Stock           float64 `json:"stock"`
}

// DemandComponents breaks one year of aggregate demand into its terms.
type DemandComponents struct {
	PopulationChange             float64
	NewHouseholdsFromPopGrowth   float64
	HeadshipChange               float64
	NewHouseholdsFromExistingPop float64
	NewHouseholds                float64
	Replacement                  float64
	Total                        float64
}

// AnnualDemand computes one year of demand under an aggregate headship
// rate.
//
// Formula:
//
//	newHouseholds = (population - prevPopulation) * headship
//	              + prevPopulation * (headship - prevHeadship)
//	replacement   = stock * obsolescenceRate
//	total         = newHouseholds + replacement
func AnnualDemand(
	population, prevPopulation float64,
	headship, prevHeadship float64,
	stock, obsolescenceRate float64,
) DemandComponents {
	populationChange := population - prevPopulation
	fromPopGrowth := populationChange * headship
	headshipChange := headship - prevHeadship
	fromExistingPop := prevPopulation * headshipChange
	newHouseholds := fromPopGrowth + fromExistingPop
	replacement := stock * obsolescenceRate

	return DemandComponents{
		PopulationChange:             populationChange,
		NewHouseholdsFromPopGrowth:   fromPopGrowth,
		HeadshipChange:               headshipChange,
		NewHouseholdsFromExistingPop: fromExistingPop,
		NewHouseholds:                newHouseholds,
		Replacement:                  replacement,
		Total:                        newHouseholds + replacement,
	}
}

// recurrence is the accumulator of the demand fold: the housing stock
// carried into the next year and the points emitted so far.
type recurrence struct {
	stock  float64
	points []TimeSeriesPoint
}

func newRecurrence(baseStock float64, capacity int) recurrence {
	return recurrence{stock: baseStock, points: make([]TimeSeriesPoint, 0, capacity)}
}

// advance emits the point for year and compounds the stock.
func (r recurrence) advance(year int, c DemandComponents, totalHouseholds float64) recurrence {
	r.stock += c.Total
	r.points = append(r.points, TimeSeriesPoint{
		Year:            year,
		Demand:          c.Total,
		NewHouseholds:   c.NewHouseholds,
		Replacement:     c.Replacement,
		HouseholdGrowth: c.NewHouseholds,
		TotalHouseholds: totalHouseholds,
		Stock:           r.stock,
	})
	return r
}

// ProjectAggregate runs the demand recurrence over a population series
// and an aggregate headship series.
//
// The projection walks the years present in both series in ascending
// order. The first year is the base: it emits no point and anchors
// baseStock. Every later year emits exactly one point, so n shared years
// yield n-1 points. Fewer than two shared years is a degenerate scenario
// and yields an empty result.
func ProjectAggregate(population, headship YearSeries, obsolescenceRate, baseStock float64) []TimeSeriesPoint {
	years := sharedYears(population, headship)
	if len(years) < 2 {
		return []TimeSeriesPoint{}
	}

	acc := newRecurrence(baseStock, len(years)-1)
	for i := 1; i < len(years); i++ {
		year, prevYear := years[i], years[i-1]
		c := AnnualDemand(
			population[year], population[prevYear],
			headship[year], headship[prevYear],
			acc.stock, obsolescenceRate,
		)
		acc = acc.advance(year, c, 0)
	}
	return acc.points
}

// TotalHouseholds sums population * rate over the cohort set. A cohort
// missing from either map contributes zero, as does a nil population.
func TotalHouseholds(population CohortValues, rates CohortRates) float64 {
	if population == nil {
		return 0
	}
	var total float64
	for _, c := range AllCohorts() {
		total += population.Get(c) * rates.Get(c)
	}
	return total
}

// ProjectCohort runs the demand recurrence with per-cohort headship.
//
// For each year t after the first:
//
//	demand[t] = (households[t] - households[t-1]) + stock[t-1] * obsolescenceRate
//
// where households[t] = TotalHouseholds(population[t].Cohorts, rates.RatesFor(t)).
// The base year is dropped exactly as in ProjectAggregate, and each point
// carries TotalHouseholds for breakdown views. A nil rate source behaves
// as all-zero rates.
func ProjectCohort(population PopulationSeries, rates RateSource, obsolescenceRate, baseStock float64) []TimeSeriesPoint {
	years := population.Years()
	if len(years) < 2 {
		return []TimeSeriesPoint{}
	}

	householdsFor := func(year int) float64 {
		if rates == nil {
			return 0
		}
		return TotalHouseholds(population[year].Cohorts, rates.RatesFor(year))
	}

	acc := newRecurrence(baseStock, len(years)-1)
	prevHouseholds := householdsFor(years[0])
	for _, year := range years[1:] {
		households := householdsFor(year)
		growth := households - prevHouseholds
		replacement := acc.stock * obsolescenceRate
		acc = acc.advance(year, DemandComponents{
			NewHouseholds: growth,
			Replacement:   replacement,
			Total:         growth + replacement,
		}, households)
		prevHouseholds = households
	}
	return acc.points
}

// sharedYears returns the ascending years present in both series.
func sharedYears(a, b YearSeries) []int {
	years := make([]int, 0, len(a))
	for year := range a {
		if _, ok := b[year]; ok {
			years = append(years, year)
		}
	}
	slices.Sort(years)
	return years
}
