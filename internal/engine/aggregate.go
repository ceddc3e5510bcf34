package engine

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RangePoint is the demand envelope for one year across a scenario set.
type RangePoint struct {
	Year int     `json:"year"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// PeriodStats summarises one series over an inclusive year window.
type PeriodStats struct {
	StartYear int     `json:"startYear"`
	EndYear   int     `json:"endYear"`
	Average   float64 `json:"average"`
	Total     float64 `json:"total"`
	Count     int     `json:"count"`
}

// Envelope returns the per-year minimum and maximum demand across the
// given series. Only years that appear in at least one series are
// reported, in ascending order; series may cover disjoint or partly
// overlapping ranges.
func Envelope(series ...[]TimeSeriesPoint) []RangePoint {
	byYear := make(map[int]*RangePoint)
	for _, points := range series {
		for _, p := range points {
			r, ok := byYear[p.Year]
			if !ok {
				r = &RangePoint{Year: p.Year, Min: math.Inf(1), Max: math.Inf(-1)}
				byYear[p.Year] = r
			}
			r.Min = math.Min(r.Min, p.Demand)
			r.Max = math.Max(r.Max, p.Demand)
		}
	}

	out := make([]RangePoint, 0, len(byYear))
	for _, r := range byYear {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b RangePoint) int { return a.Year - b.Year })
	return out
}

// ScenarioEnvelope returns the envelope of every scenario's time series.
func ScenarioEnvelope(results []ScenarioResult) []RangePoint {
	series := make([][]TimeSeriesPoint, len(results))
	for i, r := range results {
		series[i] = r.TimeSeries
	}
	return Envelope(series...)
}

// FilterYears returns the points whose year lies in [startYear, endYear].
func FilterYears(points []TimeSeriesPoint, startYear, endYear int) []TimeSeriesPoint {
	out := make([]TimeSeriesPoint, 0, len(points))
	for _, p := range points {
		if p.Year >= startYear && p.Year <= endYear {
			out = append(out, p)
		}
	}
	return out
}

// PeriodAverage returns the mean demand over [startYear, endYear].
// A window that selects no points yields 0.
func PeriodAverage(points []TimeSeriesPoint, startYear, endYear int) float64 {
	demand := demandValues(FilterYears(points, startYear, endYear))
	if len(demand) == 0 {
		return 0
	}
	return stat.Mean(demand, nil)
}

// PeriodTotal returns the summed demand over [startYear, endYear].
func PeriodTotal(points []TimeSeriesPoint, startYear, endYear int) float64 {
	return floats.Sum(demandValues(FilterYears(points, startYear, endYear)))
}

// PeriodStatistics returns the average, total and point count over
// [startYear, endYear].
func PeriodStatistics(points []TimeSeriesPoint, startYear, endYear int) PeriodStats {
	demand := demandValues(FilterYears(points, startYear, endYear))
	stats := PeriodStats{
		StartYear: startYear,
		EndYear:   endYear,
		Total:     floats.Sum(demand),
		Count:     len(demand),
	}
	if len(demand) > 0 {
		stats.Average = stat.Mean(demand, nil)
	}
	return stats
}

func demandValues(points []TimeSeriesPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Demand
	}
	return out
}
