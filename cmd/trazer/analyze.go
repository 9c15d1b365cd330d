package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/trazer/trazer-go/internal/tracefile"
	"github.com/trazer/trazer-go/pkg/trazer"
	"github.com/trazer/trazer-go/pkg/trazer/rules"
)

var (
	// analyze flags
	analyzeRules    string
	analyzeChainPID int
	analyzeOutput   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <trace-file>",
	Short: "Match chain rules against a trace and export the merged result",
	Long: `Match chain rules against a trace and export the merged result.

The trace file may be a Trace Event Format JSON document or a JSON Lines
stream (one event object per line). Rules come from a YAML file:

  version: 1
  chains:
    - name: request
      pattern: receive_request+*send_response-
    - name: gc_while_request
      pattern: receive_request+*gc_pause!*send_response-
      exclusive: false

Every matched chain is merged into the output as a begin/end pair under the
process ID given by --chain-pid, so visualizers show chains as their own
track next to the original events. Rules naming events that never occur in
the trace match nothing; they are reported but not fatal.

Examples:
  # Annotate a trace and open the result in chrome://tracing
  trazer analyze trace.json --rules chains.yaml -o annotated.json

  # Write to stdout
  trazer analyze trace.jsonl --rules chains.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeRules, "rules", "r", "",
		"YAML file with chain rules (required)")
	analyzeCmd.Flags().IntVar(&analyzeChainPID, "chain-pid", 1000,
		"Process ID assigned to matched chains in the output")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "",
		"Output file (default: stdout)")
	_ = analyzeCmd.MarkFlagRequired("rules")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	analyzer, err := loadAnalyzer(args[0], logger)
	if err != nil {
		return err
	}

	ruleFile, err := rules.Load(analyzeRules)
	if err != nil {
		return err
	}

	for _, rule := range ruleFile.Chains {
		var opts []trazer.MatchOption
		if !rule.ExclusiveWildcard() {
			opts = append(opts, trazer.WithNonExclusiveWildcard())
		}
		chains, err := analyzer.Match(rule.Pattern, rule.Name, opts...)
		if err != nil {
			return fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		logger.Info("applied chain rule", "rule", rule.Name, "matches", len(chains))
	}

	out, closeOut, err := openOutput(analyzeOutput)
	if err != nil {
		return err
	}
	defer closeOut()

	return analyzer.WriteTEF(out, analyzeChainPID)
}

// loadAnalyzer reads a trace file and builds an analyzer over it.
func loadAnalyzer(path string, logger *slog.Logger) (*trazer.Analyzer, error) {
	events, skipped, err := tracefile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Warn("skipped unparsable trace entries", "count", skipped)
	}

	t := trazer.NewTrace()
	t.AddEvents(events...)
	return trazer.NewAnalyzer(t)
}

// openOutput opens the output target, defaulting to stdout. The returned
// close function is always non-nil.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
