package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Persistent flag names registered by AddGlobalFlags.
const (
	flagVerbose = "verbose"
	flagLogJSON = "log-json"
)

// AddGlobalFlags registers the logging flags on root.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().BoolP(flagVerbose, "v", false, "Enable debug logging")
	root.PersistentFlags().Bool(flagLogJSON, false, "Emit logs as JSON")
}

// newLogger builds the run logger from the global flags. Logs go to stderr so
// stdout stays clean for command output.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool(flagVerbose)
	asJSON, _ := cmd.Flags().GetBool(flagLogJSON)
	return buildLogger(cmd.ErrOrStderr(), verbose, asJSON)
}

func buildLogger(w io.Writer, verbose, asJSON bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
