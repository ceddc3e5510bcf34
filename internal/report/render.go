package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rshade/housingdemand/internal/engine"
)

const tabPadding = 2

// Table colours.
const (
	ColorHeader = lipgloss.Color("39")
	ColorLabel  = lipgloss.Color("245")
	ColorValue  = lipgloss.Color("255")
	ColorPass   = lipgloss.Color("42")
	ColorFail   = lipgloss.Color("196")
	ColorBorder = lipgloss.Color("240")
)

// RenderTable writes the comparison table. Styled output uses a lipgloss
// table; plain output is tab-aligned for pipes and files.
func RenderTable(w io.Writer, rows []ComparisonRow, windows []Window, styled bool) error {
	headers := []string{"Scenario", "Population", "Headship", "Obsolescence"}
	for _, win := range windows {
		headers = append(headers, "Avg "+win.String())
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		line := []string{r.ID, r.PopulationLabel, r.HeadshipLabel, r.ObsolescenceLabel}
		for _, avg := range r.Averages {
			line = append(line, FormatNumber(avg))
		}
		cells[i] = line
	}

	return renderGrid(w, headers, cells, styled)
}

// RenderEnvelope writes the per-year minimum and maximum demand.
func RenderEnvelope(w io.Writer, envelope []engine.RangePoint, unit float64, styled bool) error {
	headers := []string{"Year", "Min", "Max"}
	cells := make([][]string, len(envelope))
	for i, p := range envelope {
		cells[i] = []string{
			fmt.Sprintf("%d", p.Year),
			FormatNumber(Scale(p.Min, unit)),
			FormatNumber(Scale(p.Max, unit)),
		}
	}
	return renderGrid(w, headers, cells, styled)
}

// RenderSeries writes one scenario's time series. The households column
// is only shown for cohort projections.
func RenderSeries(w io.Writer, result engine.ScenarioResult, unit float64, styled bool) error {
	withHouseholds := false
	for _, p := range result.TimeSeries {
		if p.TotalHouseholds != 0 {
			withHouseholds = true
			break
		}
	}

	headers := []string{"Year", "Demand", "New Households", "Replacement", "Stock"}
	if withHouseholds {
		headers = append(headers, "Households")
	}

	cells := make([][]string, len(result.TimeSeries))
	for i, p := range result.TimeSeries {
		line := []string{
			fmt.Sprintf("%d", p.Year),
			FormatNumber(Scale(p.Demand, unit)),
			FormatNumber(Scale(p.NewHouseholds, unit)),
			FormatNumber(Scale(p.Replacement, unit)),
			FormatNumber(Scale(p.Stock, unit)),
		}
		if withHouseholds {
			line = append(line, FormatNumber(Scale(p.TotalHouseholds, unit)))
		}
		cells[i] = line
	}

	title := result.ID
	if result.PopulationLabel != "" {
		title = fmt.Sprintf("%s (%s / %s", result.ID, result.PopulationLabel, result.HeadshipLabel)
		if result.ObsolescenceLabel != "" {
			title += " / " + result.ObsolescenceLabel
		}
		title += ")"
	}
	if styled {
		title = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader).Render(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	return renderGrid(w, headers, cells, styled)
}

// RenderPeriods writes period statistics, one line per window, with the
// range of period averages across all scenarios and the gap to the 2023
// supply level.
func RenderPeriods(w io.Writer, periods []PeriodSummary, unit float64, styled bool) error {
	headers := []string{"Period", "Average", "Total", "Years", "All Scenarios", "Gap vs 2023 Supply"}
	cells := make([][]string, len(periods))
	for i, p := range periods {
		cells[i] = []string{
			Window{Start: p.StartYear, End: p.EndYear}.String(),
			FormatNumber(Scale(p.Average, unit)),
			FormatNumber(Scale(p.Total, unit)),
			fmt.Sprintf("%d", p.Count),
			FormatNumber(p.RangeMin) + " - " + FormatNumber(p.RangeMax),
			FormatSigned(p.SupplyGap),
		}
	}
	return renderGrid(w, headers, cells, styled)
}

// RenderReferences writes the reference levels a projection is read
// against.
func RenderReferences(w io.Writer, refs References, styled bool) error {
	headers := []string{"Reference", "Dwellings/year"}
	cells := [][]string{
		{"Report estimate", FormatNumber(refs.Need)},
		{"2023 supply", FormatNumber(refs.Supply)},
	}
	return renderGrid(w, headers, cells, styled)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func renderGrid(w io.Writer, headers []string, cells [][]string, styled bool) error {
	if styled {
		return renderStyledGrid(w, headers, cells)
	}
	return renderPlainGrid(w, headers, cells)
}

func renderStyledGrid(w io.Writer, headers []string, cells [][]string) error {
	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel).Padding(0, 1)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Padding(0, 1).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return valueStyle
			}
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func renderPlainGrid(w io.Writer, headers []string, cells [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	writeTabRow(tw, headers)
	for _, row := range cells {
		writeTabRow(tw, row)
	}
	return tw.Flush()
}

func writeTabRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}
