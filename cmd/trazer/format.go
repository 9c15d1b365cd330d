package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/trazer/trazer-go/pkg/trazer/event"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// OutputEvent writes an event in the specified format to the writer.
func OutputEvent(format string, ev *event.Event, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(ev, out)
	case "pretty":
		return OutputPretty(ev, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes an event as JSON Lines format.
func OutputJSON(ev *event.Event, out io.Writer) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// markers maps event types to the one-character prefix used in pretty
// output, mirroring the pattern language where it has a counterpart.
var markers = map[event.Type]string{
	event.DurationBegin: "+",
	event.DurationEnd:   "-",
	event.Instant:       "!",
	event.Counter:       "#",
	event.Metadata:      "M",
	event.FlowStart:     ">",
	event.FlowEnd:       "<",
}

// OutputPretty writes an event in human-readable format.
func OutputPretty(ev *event.Event, out io.Writer) error {
	marker, ok := markers[ev.Type]
	if !ok {
		marker = "?"
	}

	var err error
	if ev.Type == event.Metadata {
		// Metadata events carry no timestamp.
		_, err = fmt.Fprintf(out, "[        --] %s %s %s\n", marker, ev.Name, formatArgs(ev.Args))
	} else if len(ev.Args) > 0 {
		_, err = fmt.Fprintf(out, "[%10.3f] %s %s %s\n", ev.Timestamp, marker, ev.Name, formatArgs(ev.Args))
	} else {
		_, err = fmt.Fprintf(out, "[%10.3f] %s %s\n", ev.Timestamp, marker, ev.Name)
	}
	return err
}

// formatArgs formats an args map as sorted key=value pairs.
func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(args))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, " ")
}
