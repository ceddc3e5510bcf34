package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/housingdemand/internal/config"
	"github.com/rshade/housingdemand/internal/engine"
	"github.com/rshade/housingdemand/internal/ingest"
	"github.com/rshade/housingdemand/internal/report"
)

type cohortParams struct {
	population   string
	rates        string
	migration    string
	headship     string
	obsolescence float64
	baseStock    float64
	startYear    int
	endYear      int
	all          bool
}

// NewCohortCmd creates the cohort command, which projects demand from a
// CSO population export with per-cohort headship rates.
func NewCohortCmd() *cobra.Command {
	var params cohortParams

	cmd := &cobra.Command{
		Use:   "cohort",
		Short: "Project a cohort scenario from CSO population projections",
		Long: "Project annual housing demand from cohort population projections and per-cohort " +
			"headship rates converging from current to target rates along the chosen path.",
		Example: `  housingdemand cohort --population cso-projections.csv --migration M3 --headship fast
  housingdemand cohort --population cso-projections.csv --rates rates.yaml --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCohort(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.population, "population", "", "CSO population projection CSV")
	cmd.Flags().StringVar(&params.rates, "rates", "", "cohort rates file (default: built-in Irish and UK rates)")
	cmd.Flags().StringVar(&params.migration, "migration", "M2", "migration scenario: M1, M2 or M3")
	cmd.Flags().StringVar(&params.headship, "headship", "gradual", "headship path: current, gradual or fast")
	cmd.Flags().Float64Var(&params.obsolescence, "obsolescence", 0, "annual obsolescence rate (default: engine.default_obsolescence)")
	cmd.Flags().Float64Var(&params.baseStock, "base-stock", 0, "housing stock in the base year (default: engine.base_housing_stock)")
	cmd.Flags().IntVar(&params.startYear, "start", 0, "first reported year (default: engine.start_year)")
	cmd.Flags().IntVar(&params.endYear, "end", 0, "last reported year (default: engine.end_year)")
	cmd.Flags().BoolVar(&params.all, "all", false, "compare every migration and headship path instead")
	addOutputFlags(cmd)
	_ = cmd.MarkFlagRequired("population")

	return cmd
}

func runCohort(cmd *cobra.Command, params cohortParams) error {
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

	population, err := ingest.LoadCSOPopulation(ctx, params.population)
	if err != nil {
		return err
	}
	current, target := ingest.DefaultCurrentRates(), ingest.DefaultTargetRates()
	if params.rates != "" {
		if current, target, err = ingest.LoadCohortRates(ctx, params.rates); err != nil {
			return err
		}
	}

	opts := eng.Options()
	in := engine.CohortMatrixInput{
		Population:       population,
		Current:          current,
		Target:           target,
		ObsolescenceRate: opts.DefaultObsolescence,
		BaseStock:        opts.BaseHousingStock,
	}
	if cmd.Flags().Changed("obsolescence") {
		in.ObsolescenceRate = params.obsolescence
	}
	if cmd.Flags().Changed("base-stock") {
		in.BaseStock = params.baseStock
	}

	all, err := eng.GenerateCohortMatrix(ctx, in)
	if err != nil {
		return err
	}
	start, end := reportWindow(state.cfg, params.startYear, params.endYear)

	if params.all {
		return writeComparison(cmd, state.cfg, format, all, report.SplitWindows(start, opts.BaseYear+opts.FastConvergenceYears, end))
	}

	sel, err := eng.ProjectCohortSelection(ctx, in, engine.CohortSelection{
		Migration: params.migration,
		Headship:  params.headship,
	})
	if err != nil {
		return err
	}
	warnFallbacks(cmd, sel.Fallbacks)

	sel.Scenario.TimeSeries = engine.FilterYears(sel.Scenario.TimeSeries, start, end)
	return writeProjection(cmd, format, report.SummaryInput{
		Selection:  sel,
		All:        all,
		Windows:    []report.Window{{Start: start, End: end}},
		Unit:       outputUnit(cmd, state.cfg),
		References: report.ReferencesFrom(opts),
	}, styledOutput(cmd, state.cfg))
}

// writeComparison renders the period averages of every result.
func writeComparison(
	cmd *cobra.Command,
	cfg *config.Config,
	format string,
	results []engine.ScenarioResult,
	windows []report.Window,
) error {
	rows := report.ComparisonRows(results, windows, outputUnit(cmd, cfg))
	if format == config.FormatJSON {
		return report.WriteJSON(cmd.OutOrStdout(), rows)
	}
	return report.RenderTable(cmd.OutOrStdout(), rows, windows, styledOutput(cmd, cfg))
}
