package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/housingdemand/internal/config"
	"github.com/rshade/housingdemand/internal/logging"
	"github.com/rshade/housingdemand/internal/metrics"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// runState is the per-invocation state built by the root command and
// carried to subcommands through the command context.
type runState struct {
	cfg      *config.Config
	registry *prometheus.Registry
	recorder *metrics.Recorder
	logs     *logging.Result
}

type runStateKey struct{}

func stateFromContext(ctx context.Context) *runState {
	if s, ok := ctx.Value(runStateKey{}).(*runState); ok && s != nil {
		return s
	}
	return &runState{cfg: config.New()}
}

// NewRootCmd creates the root Cobra command for the housingdemand CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit environment
// lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv config.LookupFunc) *cobra.Command {
	var state *runState

	cmd := &cobra.Command{
		Use:   "housingdemand",
		Short: "Housing demand projections and scenario analysis",
		Long: "housingdemand projects annual housing demand from population, headship and " +
			"obsolescence scenarios and compares the full scenario matrix.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err = cfg.ApplyEnv(lookupEnv); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return err
			}

			state = &runState{cfg: cfg}
			if withMetrics, _ := cmd.Flags().GetBool("metrics"); withMetrics {
				state.registry = prometheus.NewRegistry()
				if state.recorder, err = metrics.NewRecorder(state.registry); err != nil {
					return err
				}
			}

			state.logs = setupLogging(cmd, state)
			return nil
		},
	}

	// finish dumps metrics and closes the logs once the subcommand has
	// run, whether or not it failed.
	finish := func(cmd *cobra.Command) error {
		if state == nil {
			return nil
		}
		s := state
		state = nil
		if s.registry != nil {
			if err := writeMetrics(cmd.ErrOrStderr(), s.registry); err != nil {
				_ = s.logs.Close()
				return err
			}
		}
		return s.logs.Close()
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default ~/.housingdemand/config.yaml)")
	cmd.PersistentFlags().Bool("metrics", false, "print engine metrics to stderr when the command finishes")
	cmd.AddCommand(
		NewProjectCmd(), NewCohortCmd(), NewCompareCmd(),
		NewValidateCmd(), NewBrowseCmd(),
	)
	for _, sub := range cmd.Commands() {
		runThenFinish(sub, finish)
	}

	return cmd
}

// runThenFinish wraps cmd.RunE so finish runs after it, also on error.
// cobra skips post-run hooks when RunE fails. The command's own error
// takes precedence over a finish error.
func runThenFinish(cmd *cobra.Command, finish func(*cobra.Command) error) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		err := run(c, args)
		if finishErr := finish(c); err == nil {
			err = finishErr
		}
		return err
	}
}

// writeMetrics dumps every gathered metric family in the Prometheus text
// exposition format.
func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

const rootCmdExample = `  # Project one scenario from an ESRI-style scenario file
  housingdemand project --scenarios scenarios.yaml --population high --headship falling

  # Compare every scenario combination
  housingdemand compare --scenarios scenarios.yaml

  # Project a cohort scenario from a CSO population export
  housingdemand cohort --population cso-projections.csv --migration M2 --headship gradual

  # Check projections against the ESRI Table 4.3 benchmarks
  housingdemand validate --scenarios scenarios.yaml

  # Browse the scenario matrix interactively
  housingdemand browse --scenarios scenarios.yaml`
