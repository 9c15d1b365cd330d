// Package tracefile reads trace events from files: either a complete Trace
// Event Format JSON document, or a JSON Lines stream with one event object
// per line (the natural format for a trace that is still being appended to).
package tracefile

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/trazer/trazer-go/internal/safefile"
	"github.com/trazer/trazer-go/pkg/trazer/event"
)

// MaxFileSize caps how much of a trace file is read into memory (64MB).
const MaxFileSize = 64 * 1024 * 1024

// typesByPhase maps Trace Event Format phase characters to type tags.
// "I" is a legacy spelling of the instant phase emitted by some tracers.
var typesByPhase = map[string]event.Type{
	"B": event.DurationBegin,
	"E": event.DurationEnd,
	"i": event.Instant,
	"I": event.Instant,
	"C": event.Counter,
	"M": event.Metadata,
	"s": event.FlowStart,
	"f": event.FlowEnd,
}

// ParseEvent parses one Trace Event Format event object. Timestamps are in
// microseconds on the wire and stored as milliseconds.
func ParseEvent(data string) (*event.Event, error) {
	if !gjson.Valid(data) {
		return nil, errors.New("not valid JSON")
	}
	v := gjson.Parse(data)
	if !v.IsObject() {
		return nil, errors.New("not a JSON object")
	}

	name := v.Get("name")
	if !name.Exists() || name.String() == "" {
		return nil, errors.New("missing event name")
	}
	ph := v.Get("ph").String()
	typ, ok := typesByPhase[ph]
	if !ok {
		return nil, fmt.Errorf("unknown phase %q", ph)
	}

	e := &event.Event{
		Name:      name.String(),
		Timestamp: v.Get("ts").Float() / 1e3,
		Type:      typ,
		PID:       int(v.Get("pid").Int()),
		TID:       int(v.Get("tid").Int()),
		FlowID:    int(v.Get("id").Int()),
	}
	if args := v.Get("args"); args.IsObject() {
		if m, ok := args.Value().(map[string]any); ok {
			e.Args = m
		}
	}
	return e, nil
}

// parseDocument extracts the events of a complete Trace Event Format
// document ({"traceEvents": [...]}).
func parseDocument(data string) ([]*event.Event, int, error) {
	traceEvents := gjson.Get(data, "traceEvents")
	if !traceEvents.IsArray() {
		return nil, 0, errors.New("document has no traceEvents array")
	}

	var events []*event.Event
	skipped := 0
	traceEvents.ForEach(func(_, value gjson.Result) bool {
		e, err := ParseEvent(value.Raw)
		if err != nil {
			skipped++
			return true
		}
		events = append(events, e)
		return true
	})
	return events, skipped, nil
}

// parseLines extracts events from a JSON Lines stream, one event object per
// line. Blank lines are ignored; unparsable lines are counted, not fatal.
func parseLines(data string) ([]*event.Event, int) {
	var events []*event.Event
	skipped := 0
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		e, err := ParseEvent(line)
		if err != nil {
			skipped++
			continue
		}
		events = append(events, e)
	}
	return events, skipped
}

// Read parses trace events from raw file content, auto-detecting the format:
// content whose first JSON value is an object with a traceEvents array is
// treated as a full document, everything else as JSON Lines.
//
// Returns the events in file order and the number of skipped (unparsable)
// entries.
func Read(data []byte) ([]*event.Event, int, error) {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return nil, 0, nil
	}
	if strings.HasPrefix(s, "{") && gjson.Get(s, "traceEvents").Exists() {
		return parseDocument(s)
	}
	events, skipped := parseLines(s)
	return events, skipped, nil
}

// ReadFile loads trace events from a file. Non-regular files are rejected
// and reads are capped at MaxFileSize.
func ReadFile(path string) ([]*event.Event, int, error) {
	f, info, err := safefile.OpenRegular(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open trace file: %w", err)
	}
	defer f.Close()

	if info.Size() > MaxFileSize {
		return nil, 0, fmt.Errorf("trace file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, 0, fmt.Errorf("read trace file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, 0, fmt.Errorf("trace file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	return Read(data)
}
