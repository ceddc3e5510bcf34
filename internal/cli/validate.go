package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/housingdemand/internal/config"
	"github.com/rshade/housingdemand/internal/report"
)

// NewValidateCmd creates the validate command, which checks projected
// period averages against published benchmarks.
func NewValidateCmd() *cobra.Command {
	var (
		scenarios  string
		benchmarks string
		baseYear   int
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check projections against published benchmarks",
		Long: "Project every scenario and compare its period averages with reference values. " +
			"Without --benchmarks the ESRI Table 4.3 values are used. Exits non-zero on any failure.",
		Example: `  housingdemand validate --scenarios scenarios.yaml
  housingdemand validate --scenarios scenarios.yaml --benchmarks benchmarks.yaml --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			state := stateFromContext(ctx)

			format, err := outputFormat(cmd, state.cfg)
			if err != nil {
				return err
			}
			set := report.ESRIBenchmarks()
			if benchmarks != "" {
				if set, err = loadBenchmarks(benchmarks); err != nil {
					return err
				}
			}
			eng, err := newEngine(state)
			if err != nil {
				return err
			}
			_, in, err := loadScenarios(ctx, scenarios, baseYear)
			if err != nil {
				return err
			}
			results, err := eng.GenerateMatrix(ctx, in)
			if err != nil {
				return err
			}

			result := report.CheckBenchmarks(results, set)
			if format == config.FormatJSON {
				err = report.WriteJSON(cmd.OutOrStdout(), result)
			} else {
				err = report.RenderBenchmarks(cmd.OutOrStdout(), result, styledOutput(cmd, state.cfg))
			}
			if err != nil {
				return err
			}

			if !result.Valid {
				return &ExitError{ExitCode: 1, Reason: "benchmark check failed: " + result.Summary}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarios, "scenarios", "", "scenario file (YAML or JSON)")
	cmd.Flags().StringVar(&benchmarks, "benchmarks", "", "benchmark file (default: ESRI Table 4.3)")
	cmd.Flags().IntVar(&baseYear, "base-year", 0, "housing stock anchor year (default: file base_year)")
	cmd.Flags().String("output", config.FormatTable, "output format: table or json")
	_ = cmd.MarkFlagRequired("scenarios")

	return cmd
}

func loadBenchmarks(path string) (report.BenchmarkSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return report.BenchmarkSet{}, fmt.Errorf("opening benchmark file: %w", err)
	}
	defer f.Close()

	set, err := report.ParseBenchmarks(f)
	if err != nil {
		return report.BenchmarkSet{}, fmt.Errorf("parsing benchmark file %s: %w", path, err)
	}
	return set, nil
}
