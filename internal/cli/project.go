package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/housingdemand/internal/config"
	"github.com/rshade/housingdemand/internal/engine"
	"github.com/rshade/housingdemand/internal/report"
)

type projectParams struct {
	scenarios    string
	population   string
	headship     string
	obsolescence string
	baseYear     int
	startYear    int
	endYear      int
}

// NewProjectCmd creates the project command, which projects one scenario
// of the aggregate model.
func NewProjectCmd() *cobra.Command {
	var params projectParams

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project one aggregate scenario",
		Long: "Project annual housing demand for one population, headship and obsolescence " +
			"scenario. Unknown scenario keys fall back to the first scenario in the file.",
		Example: `  housingdemand project --scenarios scenarios.yaml --population high --headship falling --obsolescence low
  housingdemand project --scenarios scenarios.yaml --start 2025 --end 2035 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProject(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.scenarios, "scenarios", "", "scenario file (YAML or JSON)")
	cmd.Flags().StringVar(&params.population, "population", "", "population scenario key")
	cmd.Flags().StringVar(&params.headship, "headship", "", "headship scenario key")
	cmd.Flags().StringVar(&params.obsolescence, "obsolescence", "", "obsolescence scenario key")
	cmd.Flags().IntVar(&params.baseYear, "base-year", 0, "housing stock anchor year (default: file base_year)")
	cmd.Flags().IntVar(&params.startYear, "start", 0, "first reported year (default: engine.start_year)")
	cmd.Flags().IntVar(&params.endYear, "end", 0, "last reported year (default: engine.end_year)")
	addOutputFlags(cmd)
	_ = cmd.MarkFlagRequired("scenarios")

	return cmd
}

func runProject(cmd *cobra.Command, params projectParams) error {
	ctx := cmd.Context()
	state := stateFromContext(ctx)

	format, err := outputFormat(cmd, state.cfg)
	if err != nil {
		return err
	}
	eng, err := newEngine(state)
	if err != nil {
		return err
	}
	_, in, err := loadScenarios(ctx, params.scenarios, params.baseYear)
	if err != nil {
		return err
	}

	sel, err := eng.ProjectSelection(ctx, in, engine.Selection{
		Population:   params.population,
		Headship:     params.headship,
		Obsolescence: params.obsolescence,
	})
	if err != nil {
		return err
	}
	warnFallbacks(cmd, sel.Fallbacks)

	all, err := eng.GenerateMatrix(ctx, in)
	if err != nil {
		return err
	}

	start, end := reportWindow(state.cfg, params.startYear, params.endYear)
	sel.Scenario.TimeSeries = engine.FilterYears(sel.Scenario.TimeSeries, start, end)

	return writeProjection(cmd, format, report.SummaryInput{
		Selection:  sel,
		All:        all,
		Windows:    []report.Window{{Start: start, End: end}},
		Unit:       outputUnit(cmd, state.cfg),
		References: report.ReferencesFrom(eng.Options()),
	}, styledOutput(cmd, state.cfg))
}

// reportWindow resolves the reported years, defaulting to the engine
// configuration.
func reportWindow(cfg *config.Config, start, end int) (int, int) {
	if start == 0 {
		start = cfg.Engine.StartYear
	}
	if end == 0 {
		end = cfg.Engine.EndYear
	}
	return start, end
}

// writeProjection renders a selected projection with its period
// statistics, the envelope of the whole matrix and the reference levels.
func writeProjection(cmd *cobra.Command, format string, in report.SummaryInput, styled bool) error {
	summary := report.NewSummary(in)
	out := cmd.OutOrStdout()
	if format == config.FormatJSON {
		return report.WriteJSON(out, summary)
	}

	unit := summary.Unit
	if err := report.RenderSeries(out, summary.Scenario, unit, styled); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := report.RenderPeriods(out, summary.Periods, unit, styled); err != nil {
		return err
	}
	if len(summary.Envelope) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Scenario envelope:")
		if err := report.RenderEnvelope(out, summary.Envelope, unit, styled); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)
	return report.RenderReferences(out, summary.References, styled)
}
