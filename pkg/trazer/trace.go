package trazer

import (
	"io"
	"sort"
	"strings"

	"github.com/trazer/trazer-go/pkg/trazer/event"
	"github.com/trazer/trazer-go/pkg/trazer/tef"
)

// Trace is an ordered, append-only collection of trace events. Insertion
// order is semantically meaningful and is the only ordering the analyzer
// relies on; events are never reordered or removed.
//
// A Trace additionally holds process/thread name registries and flow
// bookkeeping, all of which surface as metadata or flow events on export.
type Trace struct {
	// Events in insertion order.
	Events []*event.Event

	processNames map[int]string
	threadNames  map[threadKey]string
	flowIDs      map[string]int
}

type threadKey struct {
	pid int
	tid int
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{
		processNames: map[int]string{},
		threadNames:  map[threadKey]string{},
		flowIDs:      map[string]int{},
	}
}

// AddEvent appends one event to the trace.
func (t *Trace) AddEvent(e *event.Event) {
	t.Events = append(t.Events, e)
}

// AddEvents appends events to the trace, preserving order.
func (t *Trace) AddEvents(events ...*event.Event) {
	t.Events = append(t.Events, events...)
}

// SetProcessName names the process identified by pid.
func (t *Trace) SetProcessName(pid int, name string) {
	t.processNames[pid] = name
}

// SetThreadName names the thread identified by pid and tid.
func (t *Trace) SetThreadName(pid, tid int, name string) {
	t.threadNames[threadKey{pid, tid}] = name
}

// MetadataEvents returns the metadata events for the registered process and
// thread names, in a deterministic order (process names by pid, then thread
// names by pid/tid).
func (t *Trace) MetadataEvents() []*event.Event {
	events := make([]*event.Event, 0, len(t.processNames)+len(t.threadNames))

	pids := make([]int, 0, len(t.processNames))
	for pid := range t.processNames {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	for _, pid := range pids {
		e := event.NewMetadata("process_name", map[string]any{"name": t.processNames[pid]})
		e.PID = pid
		events = append(events, e)
	}

	keys := make([]threadKey, 0, len(t.threadNames))
	for k := range t.threadNames {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].pid != keys[j].pid {
			return keys[i].pid < keys[j].pid
		}
		return keys[i].tid < keys[j].tid
	})
	for _, k := range keys {
		e := event.NewMetadata("thread_name", map[string]any{"name": t.threadNames[k]})
		e.PID = k.pid
		e.TID = k.tid
		events = append(events, e)
	}

	return events
}

// AddFlow connects two durations with a named flow arrow. Flow IDs are
// assigned per name from a simple counter, so repeated flows with the same
// name share an ID.
//
// The flow end is timestamped a hair before the destination begin: the
// visualizer binds a flow end to the next slice that starts, and (at least
// in Perfetto) the end timestamp must be strictly smaller than that slice's.
func (t *Trace) AddFlow(name string, src, dest *event.Event) {
	flowID, ok := t.flowIDs[name]
	if !ok {
		flowID = len(t.flowIDs)
		t.flowIDs[name] = flowID
	}
	t.AddEvent(event.NewFlowStart(name, src.Timestamp, flowID))
	t.AddEvent(event.NewFlowEnd(name, dest.Timestamp-1e-9, flowID))
}

// TEF returns the trace as a Trace Event Format document, metadata events
// included.
func (t *Trace) TEF() *tef.Document {
	return tef.NewDocument(t.Events, t.MetadataEvents())
}

// WriteTEF writes the trace as an indented Trace Event Format JSON document.
func (t *Trace) WriteTEF(w io.Writer) error {
	return tef.Write(w, t.TEF())
}

// String renders one event per line.
func (t *Trace) String() string {
	lines := make([]string, len(t.Events))
	for i, e := range t.Events {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
