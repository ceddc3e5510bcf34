package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/housingdemand/internal/config"
	"github.com/rshade/housingdemand/internal/engine"
	"github.com/rshade/housingdemand/internal/engine/cache"
	"github.com/rshade/housingdemand/internal/ingest"
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	ExitCode int
	Reason   string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// ErrInvalidOutputFormat reports an --output value other than table or json.
var ErrInvalidOutputFormat = errors.New("invalid output format")

// isWriterTerminal reports whether w is a terminal file.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// styledOutput resolves output.style against the command's writer.
func styledOutput(cmd *cobra.Command, cfg *config.Config) bool {
	switch strings.ToLower(cfg.Output.Style) {
	case config.StyleAlways:
		return true
	case config.StyleNever:
		return false
	default:
		return isWriterTerminal(cmd.OutOrStdout())
	}
}

// outputFormat returns --output when set, else the configured default.
func outputFormat(cmd *cobra.Command, cfg *config.Config) (string, error) {
	format := cfg.Output.DefaultFormat
	if cmd.Flags().Changed("output") {
		format, _ = cmd.Flags().GetString("output")
	}
	format = strings.ToLower(format)
	switch format {
	case config.FormatTable, config.FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q (use table or json)", ErrInvalidOutputFormat, format)
	}
}

// outputUnit returns --unit when set, else the configured unit.
func outputUnit(cmd *cobra.Command, cfg *config.Config) float64 {
	if cmd.Flags().Changed("unit") {
		unit, _ := cmd.Flags().GetFloat64("unit")
		return unit
	}
	return cfg.Output.Unit
}

// addOutputFlags registers --output and --unit.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("output", config.FormatTable, "output format: table or json")
	cmd.Flags().Float64("unit", 1, "multiplier applied to projected values (e.g. 1000 for inputs in thousands)")
}

// newEngine builds an engine from the configured options.
func newEngine(state *runState) (*engine.Engine, error) {
	var opts []engine.Option
	if state.recorder != nil {
		opts = append(opts, engine.WithRecorder(state.recorder))
	}
	return engine.New(state.cfg.Engine.ToOptions(), opts...)
}

// loadScenarios reads a scenario file and resolves its matrix input.
func loadScenarios(ctx context.Context, path string, baseYear int) (*ingest.ScenarioFile, engine.MatrixInput, error) {
	file, err := ingest.LoadScenarioFile(ctx, path)
	if err != nil {
		return nil, engine.MatrixInput{}, err
	}
	in, err := file.MatrixInput(baseYear)
	if err != nil {
		return nil, engine.MatrixInput{}, err
	}
	return file, in, nil
}

// warnFallbacks tells the user which selection keys were replaced.
func warnFallbacks(cmd *cobra.Command, fallbacks []engine.Fallback) {
	for _, f := range fallbacks {
		logger.Warn().Ctx(cmd.Context()).
			Str("dimension", f.Dimension).
			Str("requested", f.Requested).
			Str("used", f.Used).
			Msg("unknown scenario key, using default")
		cmd.PrintErrf("Warning: unknown %s scenario %q, using %q\n", f.Dimension, f.Requested, f.Used)
	}
}

// generateMatrix evaluates the scenario matrix, reading and writing the
// file cache when it is enabled.
func generateMatrix(
	ctx context.Context,
	state *runState,
	eng *engine.Engine,
	in engine.MatrixInput,
	schemaVersion string,
	useCache bool,
) ([]engine.ScenarioResult, error) {
	enabled := useCache && cache.EnabledFromEnv(state.cfg.Cache.Enabled)
	if !enabled {
		return eng.GenerateMatrix(ctx, in)
	}

	store, err := cache.NewFileStore(
		state.cfg.Cache.CacheDirectory(), true, cache.TTLFromEnv(state.cfg.Cache.TTLSeconds))
	if err != nil {
		logger.Warn().Ctx(ctx).Err(err).Msg("cache unavailable, computing without it")
		return eng.GenerateMatrix(ctx, in)
	}

	key, err := cache.GenerateKey(cache.KeyParams{
		Operation:     "generate_matrix",
		SchemaVersion: schemaVersion,
		Options:       eng.Options(),
		Inputs:        in,
	})
	if err != nil {
		return nil, fmt.Errorf("building cache key: %w", err)
	}

	if entry, getErr := store.Get(key); getErr == nil {
		var cached []engine.ScenarioResult
		if decodeErr := entry.Decode(&cached); decodeErr == nil {
			logger.Debug().Ctx(ctx).Str("cache_key", key).Msg("scenario matrix served from cache")
			return cached, nil
		}
	}

	results, err := eng.GenerateMatrix(ctx, in)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(results)
	if err == nil {
		err = store.Set(key, data)
	}
	if err != nil {
		logger.Warn().Ctx(ctx).Err(err).Msg("could not cache scenario matrix")
	}
	return results, nil
}
