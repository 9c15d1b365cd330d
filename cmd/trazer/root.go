package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "trazer",
	Short: "Analyze execution traces and export Trace Event Format JSON",
	Long: `trazer analyzes execution traces recorded as ordered sequences of
timestamped events (begin/end/instant/counter).

It can locate recurring event subsequences with a compact pattern language,
merge the matched chains back into the trace, and export everything as
Trace Event Format JSON for chrome://tracing or Perfetto.

Pattern language:
  <event-name>+   the named event begins
  <event-name>-   the named event ends
  <event-name>!   the named event occurs (instant, counter, ...)
  *               any events in between

Example pattern: "receive_request+*send_response-"`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

// newLogger returns the CLI logger, writing to stderr so command output on
// stdout stays machine-readable.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
