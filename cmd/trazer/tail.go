package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"github.com/trazer/trazer-go/internal/tracefile"
	"github.com/trazer/trazer-go/internal/tracefinder"
)

var (
	// tail flags
	tailFormat    string
	tailFromStart bool
	tailDir       string
)

var tailCmd = &cobra.Command{
	Use:   "tail [trace-file]",
	Short: "Follow a growing JSON Lines trace stream and print events",
	Long: `Follow a growing JSON Lines trace stream and print events.

The file must contain one Trace Event Format event object per line, appended
as the trace is recorded. Events are printed as JSON Lines by default, which
makes them easy to process with tools like jq.

When no file is given, the newest trace file in --dir (or the directory named
by the TRAZER_TRACEDIR environment variable) is followed.

Examples:
  # Follow new events
  trazer tail trace.jsonl

  # Follow the newest trace file in a directory
  trazer tail --dir /var/log/traces

  # Human-readable output, starting from the beginning of the file
  trazer tail trace.jsonl --format pretty --from-start

  # Pipe to jq for filtering
  trazer tail trace.jsonl | jq 'select(.type == "duration_begin")'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	tailCmd.Flags().BoolVar(&tailFromStart, "from-start", false,
		"Read from the beginning of the file instead of only new lines")
	tailCmd.Flags().StringVarP(&tailDir, "dir", "d", "",
		"Directory to pick the newest trace file from when no file is given")
	rootCmd.AddCommand(tailCmd)
}

// resolveTailTarget returns the file to follow: the explicit argument, or the
// newest trace file discovered via tracefinder.
func resolveTailTarget(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	dir, err := tracefinder.FindTraceDir(tailDir)
	if err != nil {
		return "", err
	}
	return tracefinder.FindLatestTraceFile(dir)
}

func runTail(cmd *cobra.Command, args []string) error {
	if !ValidFormats[tailFormat] {
		return fmt.Errorf("unknown format: %s", tailFormat)
	}

	path, err := resolveTailTarget(args)
	if err != nil {
		return err
	}

	logger := newLogger()
	logger.Debug("following trace file", "path", path)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	}
	if !tailFromStart {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return fmt.Errorf("tail trace file: %w", err)
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				logger.Warn("tail error", "error", line.Err)
				continue
			}
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}
			ev, err := tracefile.ParseEvent(text)
			if err != nil {
				logger.Debug("skipping unparsable line", "error", err)
				continue
			}
			if err := OutputEvent(tailFormat, ev, os.Stdout); err != nil {
				return err
			}
		}
	}
}
