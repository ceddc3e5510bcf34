package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/housingdemand/internal/report"
)

// NewCompareCmd creates the compare command, which tabulates period
// averages for every scenario combination.
func NewCompareCmd() *cobra.Command {
	var (
		scenarios string
		baseYear  int
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare every scenario combination",
		Long: "Generate the full population x headship x obsolescence matrix and show the " +
			"average annual demand of each scenario for 2023-2030 and 2031-2040.",
		Example: `  housingdemand compare --scenarios scenarios.yaml --unit 1000
  housingdemand compare --scenarios scenarios.json --output json --no-cache`,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			file, in, err := loadScenarios(ctx, scenarios, baseYear)
			if err != nil {
				return err
			}

			results, err := generateMatrix(ctx, state, eng, in, file.SchemaVersion, !noCache)
			if err != nil {
				return err
			}
			return writeComparison(cmd, state.cfg, format, results, report.DefaultWindows())
		},
	}

	cmd.Flags().StringVar(&scenarios, "scenarios", "", "scenario file (YAML or JSON)")
	cmd.Flags().IntVar(&baseYear, "base-year", 0, "housing stock anchor year (default: file base_year)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	addOutputFlags(cmd)
	_ = cmd.MarkFlagRequired("scenarios")

	return cmd
}
