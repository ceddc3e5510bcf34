package report

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/rshade/housingdemand/internal/engine"
)

// Window is an inclusive reporting period.
type Window struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// String returns the window as "2023-2030".
func (w Window) String() string {
	return fmt.Sprintf("%d-%d", w.Start, w.End)
}

// DefaultWindows returns the two reporting periods of the ESRI comparison
// table.
func DefaultWindows() []Window {
	return []Window{{Start: 2023, End: 2030}, {Start: 2031, End: 2040}}
}

// SplitWindows returns [start, split-1] and [split, end]. A split outside
// (start, end] yields the single window [start, end].
func SplitWindows(start, split, end int) []Window {
	if split <= start || split > end {
		return []Window{{Start: start, End: end}}
	}
	return []Window{{Start: start, End: split - 1}, {Start: split, End: end}}
}

// ComparisonRow is one scenario's period averages, one per window.
type ComparisonRow struct {
	ID                string    `json:"id"`
	PopulationLabel   string    `json:"populationLabel"`
	HeadshipLabel     string    `json:"headshipLabel"`
	ObsolescenceLabel string    `json:"obsolescenceLabel,omitempty"`
	Averages          []float64 `json:"averages"`
}

// ComparisonRows computes the average annual demand of every result over
// each window, scaled by unit. Rows follow the order of results.
func ComparisonRows(results []engine.ScenarioResult, windows []Window, unit float64) []ComparisonRow {
	rows := make([]ComparisonRow, len(results))
	for i, r := range results {
		averages := make([]float64, len(windows))
		for j, w := range windows {
			averages[j] = Scale(engine.PeriodAverage(r.TimeSeries, w.Start, w.End), unit)
		}
		rows[i] = ComparisonRow{
			ID:                r.ID,
			PopulationLabel:   r.PopulationLabel,
			HeadshipLabel:     r.HeadshipLabel,
			ObsolescenceLabel: r.ObsolescenceLabel,
			Averages:          averages,
		}
	}
	return rows
}

// References are fixed annual levels, in dwellings, that projections are
// compared with.
type References struct {
	// Need is the published annual need estimate.
	Need float64 `json:"need"`
	// Supply is the number of dwellings completed in 2023.
	Supply float64 `json:"supply"`
}

// ReferencesFrom returns the reference levels configured on opts.
func ReferencesFrom(opts engine.Options) References {
	return References{Need: opts.ReferenceNeed, Supply: opts.ReferenceSupply}
}

// PeriodSummary is one window of a projection.
//
// Average, Total and the embedded statistics are in projection units.
// ScaledAverage, RangeMin, RangeMax and the gaps are in dwellings, i.e.
// scaled by the summary unit. RangeMin and RangeMax bound the period
// average of every scenario in the matrix.
type PeriodSummary struct {
	engine.PeriodStats

	ScaledAverage float64 `json:"scaledAverage"`
	RangeMin      float64 `json:"rangeMin"`
	RangeMax      float64 `json:"rangeMax"`
	SupplyGap     float64 `json:"supplyGap"`
	NeedGap       float64 `json:"needGap"`
}

// Summary is the machine-readable form of a single projection.
type Summary struct {
	Scenario   engine.ScenarioResult `json:"scenario"`
	Fallbacks  []engine.Fallback     `json:"fallbacks,omitempty"`
	Envelope   []engine.RangePoint   `json:"envelope,omitempty"`
	Periods    []PeriodSummary       `json:"periods"`
	References References            `json:"references"`
	Unit       float64               `json:"unit"`
}

// SummaryInput collects what NewSummary needs.
type SummaryInput struct {
	Selection engine.SelectedProjection
	// All is the scenario matrix the selection was drawn from. It feeds
	// the envelope and the per-window ranges; nil leaves both empty.
	All        []engine.ScenarioResult
	Windows    []Window
	Unit       float64
	References References
}

// NewSummary computes period statistics of the selected projection for
// each window, the range of period averages across in.All, and the gap
// to each reference level. The envelope covers the years spanned by the
// windows.
func NewSummary(in SummaryInput) Summary {
	unit := in.Unit
	if unit == 0 {
		unit = 1
	}

	rows := ComparisonRows(in.All, in.Windows, unit)
	periods := make([]PeriodSummary, len(in.Windows))
	for i, w := range in.Windows {
		stats := engine.PeriodStatistics(in.Selection.Scenario.TimeSeries, w.Start, w.End)
		scaled := Scale(stats.Average, unit)
		p := PeriodSummary{
			PeriodStats:   stats,
			ScaledAverage: scaled,
			SupplyGap:     scaled - in.References.Supply,
			NeedGap:       scaled - in.References.Need,
		}
		if len(rows) > 0 {
			averages := make([]float64, len(rows))
			for j, r := range rows {
				averages[j] = r.Averages[i]
			}
			p.RangeMin = floats.Min(averages)
			p.RangeMax = floats.Max(averages)
		}
		periods[i] = p
	}

	return Summary{
		Scenario:   in.Selection.Scenario,
		Fallbacks:  in.Selection.Fallbacks,
		Envelope:   envelopeWithin(engine.ScenarioEnvelope(in.All), in.Windows),
		Periods:    periods,
		References: in.References,
		Unit:       unit,
	}
}

// envelopeWithin keeps the envelope years between the first window's
// start and the last window's end.
func envelopeWithin(envelope []engine.RangePoint, windows []Window) []engine.RangePoint {
	if len(windows) == 0 || len(envelope) == 0 {
		return nil
	}
	start, end := windows[0].Start, windows[0].End
	for _, w := range windows[1:] {
		start = min(start, w.Start)
		end = max(end, w.End)
	}

	out := make([]engine.RangePoint, 0, len(envelope))
	for _, p := range envelope {
		if p.Year >= start && p.Year <= end {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
