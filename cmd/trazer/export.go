package main

import (
	"github.com/spf13/cobra"

	"github.com/trazer/trazer-go/internal/tracefile"
	"github.com/trazer/trazer-go/pkg/trazer"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <trace-file>",
	Short: "Convert a trace to a Trace Event Format JSON document",
	Long: `Convert a trace to a Trace Event Format JSON document.

Reads a Trace Event Format document or a JSON Lines event stream and writes
a normalized, indented Trace Event Format document suitable for
chrome://tracing or Perfetto. No pattern matching is performed; use
"trazer analyze" to annotate the trace with matched chains.

Examples:
  trazer export trace.jsonl -o trace.json
  trazer export trace.jsonl | jq '.traceEvents | length'`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	events, skipped, err := tracefile.ReadFile(args[0])
	if err != nil {
		return err
	}
	if skipped > 0 {
		logger.Warn("skipped unparsable trace entries", "count", skipped)
	}

	t := trazer.NewTrace()
	t.AddEvents(events...)

	out, closeOut, err := openOutput(exportOutput)
	if err != nil {
		return err
	}
	defer closeOut()

	return t.WriteTEF(out)
}
