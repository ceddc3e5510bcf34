package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demandPoints(demand map[int]float64) []TimeSeriesPoint {
	out := make([]TimeSeriesPoint, 0, len(demand))
	for _, year := range YearSeries(demand).Years() {
		out = append(out, TimeSeriesPoint{Year: year, Demand: demand[year]})
	}
	return out
}

func TestEnvelope(t *testing.T) {
	a := demandPoints(map[int]float64{2029: 28_000, 2030: 30_000})
	b := demandPoints(map[int]float64{2030: 45_000, 2031: 47_000})
	c := demandPoints(map[int]float64{2030: 38_000})

	env := Envelope(a, b, c)
	require.Equal(t, []RangePoint{
		{Year: 2029, Min: 28_000, Max: 28_000},
		{Year: 2030, Min: 30_000, Max: 45_000},
		{Year: 2031, Min: 47_000, Max: 47_000},
	}, env)

	assert.Empty(t, Envelope())
	assert.Empty(t, Envelope(nil, []TimeSeriesPoint{}))
}

func TestScenarioEnvelope(t *testing.T) {
	results, err := GenerateMatrix(testMatrixInput(t))
	require.NoError(t, err)

	env := ScenarioEnvelope(results)
	require.Len(t, env, 8)
	for _, r := range env {
		assert.LessOrEqual(t, r.Min, r.Max)
		for _, res := range results {
			for _, p := range res.TimeSeries {
				if p.Year == r.Year {
					assert.GreaterOrEqual(t, p.Demand, r.Min)
					assert.LessOrEqual(t, p.Demand, r.Max)
				}
			}
		}
	}
}

func TestPeriodStatistics(t *testing.T) {
	series := demandPoints(map[int]float64{2030: 10_000, 2031: 12_000, 2032: 14_000})

	tests := []struct {
		name        string
		start, end  int
		wantAverage float64
		wantTotal   float64
		wantCount   int
	}{
		{"full window", 2030, 2032, 12_000, 36_000, 3},
		{"wider window", 2020, 2040, 12_000, 36_000, 3},
		{"single year", 2031, 2031, 12_000, 12_000, 1},
		{"no matching points", 2035, 2040, 0, 0, 0},
		{"inverted window", 2032, 2030, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantAverage, PeriodAverage(series, tt.start, tt.end), 1e-9)
			assert.InDelta(t, tt.wantTotal, PeriodTotal(series, tt.start, tt.end), 1e-9)

			stats := PeriodStatistics(series, tt.start, tt.end)
			assert.Equal(t, tt.wantCount, stats.Count)
			assert.InDelta(t, tt.wantAverage, stats.Average, 1e-9)
			assert.InDelta(t, tt.wantTotal, stats.Total, 1e-9)
			assert.Equal(t, tt.start, stats.StartYear)
		})
	}
}

func TestFilterYears(t *testing.T) {
	series := demandPoints(map[int]float64{2023: 1, 2024: 2, 2025: 3, 2026: 4})
	got := FilterYears(series, 2024, 2025)
	require.Len(t, got, 2)
	assert.Equal(t, 2024, got[0].Year)
	assert.Equal(t, 2025, got[1].Year)
	assert.Empty(t, FilterYears(nil, 2024, 2025))
}
