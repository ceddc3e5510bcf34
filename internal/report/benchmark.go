package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rshade/housingdemand/internal/engine"
)

// ErrInvalidBenchmarks reports a benchmark document that cannot be used.
var ErrInvalidBenchmarks = errors.New("invalid benchmarks")

// Benchmark is a published reference value per window for one scenario.
type Benchmark struct {
	ID       string    `json:"id" yaml:"id"`
	Expected []float64 `json:"expected" yaml:"expected"`
}

// BenchmarkSet is a group of benchmarks checked under one scale and
// tolerance.
type BenchmarkSet struct {
	Name string `json:"name" yaml:"name"`

	// Scale converts projected demand into the units of Expected.
	Scale float64 `json:"scale" yaml:"scale"`

	// Tolerance is the largest accepted absolute difference, in the
	// units of Expected.
	Tolerance  float64     `json:"tolerance" yaml:"tolerance"`
	Windows    []Window    `json:"windows" yaml:"windows"`
	Benchmarks []Benchmark `json:"benchmarks" yaml:"benchmarks"`

	// ExpectedOverall is the published mean across all benchmarked
	// scenarios, per window. It is optional.
	ExpectedOverall []float64 `json:"expectedOverall,omitempty" yaml:"expected_overall,omitempty"`
}

// Validate checks that each benchmark has one value per window.
func (s BenchmarkSet) Validate() error {
	if len(s.Windows) == 0 {
		return fmt.Errorf("%w: no windows", ErrInvalidBenchmarks)
	}
	if s.Tolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %g", ErrInvalidBenchmarks, s.Tolerance)
	}
	if len(s.ExpectedOverall) > 0 && len(s.ExpectedOverall) != len(s.Windows) {
		return fmt.Errorf("%w: %d expected overall values for %d windows",
			ErrInvalidBenchmarks, len(s.ExpectedOverall), len(s.Windows))
	}
	for _, b := range s.Benchmarks {
		if len(b.Expected) != len(s.Windows) {
			return fmt.Errorf("%w: %s has %d expected values for %d windows",
				ErrInvalidBenchmarks, b.ID, len(b.Expected), len(s.Windows))
		}
	}
	return nil
}

// ESRIBenchmarks returns the ESRI Table 4.3 averages for 2023-2030 and
// 2031-2040, in dwellings per year. Projections are in thousands.
func ESRIBenchmarks() BenchmarkSet {
	const (
		thousands = 1000
		tolerance = 2000
	)
	return BenchmarkSet{
		Name:      "ESRI Table 4.3",
		Scale:     thousands,
		Tolerance: tolerance,
		Windows:   DefaultWindows(),
		Benchmarks: []Benchmark{
			{ID: "baseline-current-low", Expected: []float64{37900, 32000}},
			{ID: "baseline-current-high", Expected: []float64{42200, 37600}},
			{ID: "baseline-falling-low", Expected: []float64{45800, 41600}},
			{ID: "baseline-falling-high", Expected: []float64{50300, 47400}},
			{ID: "high-current-low", Expected: []float64{40700, 36300}},
			{ID: "high-current-high", Expected: []float64{45100, 41900}},
			{ID: "high-falling-low", Expected: []float64{48900, 44200}},
			{ID: "high-falling-high", Expected: []float64{53300, 52400}},
			{ID: "low-current-low", Expected: []float64{35000, 27800}},
			{ID: "low-current-high", Expected: []float64{39400, 33300}},
			{ID: "low-falling-low", Expected: []float64{42800, 36700}},
			{ID: "low-falling-high", Expected: []float64{47200, 42400}},
		},
		ExpectedOverall: []float64{44000, 39700},
	}
}

// ParseBenchmarks reads a BenchmarkSet from YAML or JSON. A missing scale
// defaults to 1.
func ParseBenchmarks(r io.Reader) (BenchmarkSet, error) {
	var set BenchmarkSet
	if err := yaml.NewDecoder(r).Decode(&set); err != nil {
		return BenchmarkSet{}, fmt.Errorf("%w: %w", ErrInvalidBenchmarks, err)
	}
	if set.Scale == 0 {
		set.Scale = 1
	}
	if err := set.Validate(); err != nil {
		return BenchmarkSet{}, err
	}
	return set, nil
}

// BenchmarkResult compares one scenario against its reference values.
type BenchmarkResult struct {
	ID       string    `json:"id"`
	Expected []float64 `json:"expected"`
	Actual   []float64 `json:"actual"`
	Diff     []float64 `json:"diff"`
	Missing  bool      `json:"missing,omitempty"`
	Passed   bool      `json:"passed"`
}

// BenchmarkReport is the outcome of CheckBenchmarks.
type BenchmarkReport struct {
	Name      string            `json:"name"`
	Valid     bool              `json:"valid"`
	Tolerance float64           `json:"tolerance"`
	Windows   []Window          `json:"windows"`
	Results   []BenchmarkResult `json:"results"`

	// Overall is the mean of Actual across every matched scenario, per window.
	Overall []float64 `json:"overall"`

	// OverallExpected and OverallDiff are set when the set publishes an
	// overall mean. OverallPassed is informational and does not affect
	// Valid.
	OverallExpected []float64 `json:"overallExpected,omitempty"`
	OverallDiff     []float64 `json:"overallDiff,omitempty"`
	OverallPassed   bool      `json:"overallPassed,omitempty"`

	Summary string `json:"summary"`
}

// CheckBenchmarks computes period averages of results for each benchmark
// and compares them with the expected values. A benchmark whose scenario
// is not among results fails.
func CheckBenchmarks(results []engine.ScenarioResult, set BenchmarkSet) BenchmarkReport {
	byID := make(map[string]engine.ScenarioResult, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}

	report := BenchmarkReport{
		Name:      set.Name,
		Valid:     true,
		Tolerance: set.Tolerance,
		Windows:   set.Windows,
		Results:   make([]BenchmarkResult, 0, len(set.Benchmarks)),
		Overall:   make([]float64, len(set.Windows)),
	}
	tolerance := decimal.NewFromFloat(set.Tolerance)
	matched := 0
	passed := 0

	for _, b := range set.Benchmarks {
		res := BenchmarkResult{ID: b.ID, Expected: b.Expected, Passed: true}
		r, ok := byID[b.ID]
		if !ok {
			res.Missing = true
			res.Passed = false
			report.Valid = false
			report.Results = append(report.Results, res)
			continue
		}
		matched++

		res.Actual = make([]float64, len(set.Windows))
		res.Diff = make([]float64, len(set.Windows))
		for i, w := range set.Windows {
			actual := Scale(engine.PeriodAverage(r.TimeSeries, w.Start, w.End), set.Scale)
			diff := decimal.NewFromFloat(actual).Sub(decimal.NewFromFloat(b.Expected[i]))
			res.Actual[i] = actual
			res.Diff[i] = diff.InexactFloat64()
			report.Overall[i] += actual
			if diff.Abs().GreaterThan(tolerance) {
				res.Passed = false
			}
		}
		if res.Passed {
			passed++
		} else {
			report.Valid = false
		}
		report.Results = append(report.Results, res)
	}

	if matched > 0 {
		for i := range report.Overall {
			report.Overall[i] /= float64(matched)
		}
	}
	if len(set.ExpectedOverall) == len(set.Windows) && matched > 0 {
		report.OverallExpected = set.ExpectedOverall
		report.OverallDiff = make([]float64, len(set.Windows))
		report.OverallPassed = true
		for i, want := range set.ExpectedOverall {
			diff := decimal.NewFromFloat(report.Overall[i]).Sub(decimal.NewFromFloat(want))
			report.OverallDiff[i] = diff.InexactFloat64()
			if diff.Abs().GreaterThan(tolerance) {
				report.OverallPassed = false
			}
		}
	}

	report.Summary = fmt.Sprintf("%d of %d benchmarks within ±%s", passed, len(set.Benchmarks), FormatNumber(set.Tolerance))
	return report
}

// RenderBenchmarks writes a benchmark report as a table followed by the
// overall verdict.
func RenderBenchmarks(w io.Writer, report BenchmarkReport, styled bool) error {
	headers := []string{"Scenario"}
	for _, win := range report.Windows {
		headers = append(headers, "Calc "+win.String(), "Exp "+win.String())
	}
	headers = append(headers, "Status")

	cells := make([][]string, len(report.Results))
	for i, r := range report.Results {
		line := []string{r.ID}
		for j := range report.Windows {
			actual := "-"
			if j < len(r.Actual) {
				actual = FormatNumber(r.Actual[j])
			}
			expected := "-"
			if j < len(r.Expected) {
				expected = FormatNumber(r.Expected[j])
			}
			line = append(line, actual, expected)
		}
		line = append(line, statusLabel(r))
		cells[i] = line
	}

	if err := renderGrid(w, headers, cells, styled); err != nil {
		return err
	}

	if len(report.Overall) == len(report.Windows) {
		if _, err := fmt.Fprintln(w, "\nOverall averages:"); err != nil {
			return err
		}
		for i, win := range report.Windows {
			line := fmt.Sprintf("  %s: %s", win, FormatNumber(report.Overall[i]))
			if i < len(report.OverallExpected) {
				line += fmt.Sprintf(" (expected: %s)", FormatNumber(report.OverallExpected[i]))
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	verdict := "ALL BENCHMARKS PASSED"
	if !report.Valid {
		verdict = "SOME BENCHMARKS FAILED"
	}
	_, err := fmt.Fprintf(w, "\n%s: %s\n", verdict, report.Summary)
	return err
}

func statusLabel(r BenchmarkResult) string {
	switch {
	case r.Missing:
		return "MISSING"
	case r.Passed:
		return "PASS"
	default:
		return "FAIL"
	}
}
