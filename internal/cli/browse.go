package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/housingdemand/internal/report"
	"github.com/rshade/housingdemand/internal/tui"
)

// NewBrowseCmd creates the browse command, an interactive scenario browser.
func NewBrowseCmd() *cobra.Command {
	var (
		scenarios string
		baseYear  int
	)

	cmd := &cobra.Command{
		Use:     "browse",
		Short:   "Browse the scenario matrix interactively",
		Example: `  housingdemand browse --scenarios scenarios.yaml --unit 1000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			state := stateFromContext(ctx)

			eng, err := newEngine(state)
			if err != nil {
				return err
			}
			file, in, err := loadScenarios(ctx, scenarios, baseYear)
			if err != nil {
				return err
			}
			results, err := generateMatrix(ctx, state, eng, in, file.SchemaVersion, true)
			if err != nil {
				return err
			}
			return tui.Run(ctx, results, report.DefaultWindows(), outputUnit(cmd, state.cfg))
		},
	}

	cmd.Flags().StringVar(&scenarios, "scenarios", "", "scenario file (YAML or JSON)")
	cmd.Flags().IntVar(&baseYear, "base-year", 0, "housing stock anchor year (default: file base_year)")
	cmd.Flags().Float64("unit", 1, "multiplier applied to projected values")
	_ = cmd.MarkFlagRequired("scenarios")

	return cmd
}
