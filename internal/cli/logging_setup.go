package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rshade/housingdemand/internal/logging"
)

// setupLogging configures logging from the config file, environment and
// CLI flags, and stores the logger, run ID and run state in the command
// context.
func setupLogging(cmd *cobra.Command, state *runState) *logging.Result {
	loggingCfg := state.cfg.Logging.ToLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.Output = logging.OutputStderr
		loggingCfg.File = ""
	}

	result := logging.NewLogger(loggingCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runID := logging.GetOrGenerateRunID(ctx)
	ctx = logging.ContextWithRunID(ctx, runID)
	ctx = logger.WithContext(ctx)
	ctx = context.WithValue(ctx, runStateKey{}, state)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}
