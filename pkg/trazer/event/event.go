// Package event defines the trace event model: timestamped events with an
// enumerated type tag, and chains of matched events.
package event

import "fmt"

// Type classifies a trace event. The type tag determines the phase character
// used in Trace Event Format exports and the suffix used when a trace is
// linearized for pattern matching.
type Type string

const (
	// DurationBegin marks the start of an event with a duration.
	DurationBegin Type = "duration_begin"

	// DurationEnd marks the end of an event with a duration.
	DurationEnd Type = "duration_end"

	// Instant is an instantaneous event without a duration.
	Instant Type = "instant"

	// Counter is a utility event carrying a sampled value that changes
	// over time.
	Counter Type = "counter"

	// Metadata associates extra information (process/thread names) with
	// the events in a trace. Metadata events carry no timestamp.
	Metadata Type = "metadata"

	// FlowStart marks the start of a flow connecting two durations.
	FlowStart Type = "flow_start"

	// FlowEnd marks the end of a flow connecting two durations.
	FlowEnd Type = "flow_end"
)

// Event is a single timestamped record in a trace.
//
// Timestamps are in milliseconds. Names are not required to be unique within
// a trace; a duration is identified by its begin/end pair. Events are
// immutable once added to a trace, except that exports may patch copies
// (e.g. reassigning the process ID of a synthesized chain event).
type Event struct {
	// Name of the event. Duration begin/end pairs share the same name.
	Name string `json:"name"`

	// Timestamp of the event in milliseconds. Unused for metadata events.
	Timestamp float64 `json:"ts"`

	// Type is the event classification tag.
	Type Type `json:"type"`

	// PID and TID identify the process and thread the event belongs to.
	PID int `json:"pid,omitempty"`
	TID int `json:"tid,omitempty"`

	// FlowID links flow_start/flow_end pairs. Only meaningful for flow
	// events.
	FlowID int `json:"flow_id,omitempty"`

	// Args holds free-form attributes attached to the event.
	Args map[string]any `json:"args,omitempty"`
}

// NewDurationBegin returns a duration-begin event.
func NewDurationBegin(name string, ts float64) *Event {
	return &Event{Name: name, Timestamp: ts, Type: DurationBegin}
}

// NewDurationEnd returns a duration-end event.
func NewDurationEnd(name string, ts float64) *Event {
	return &Event{Name: name, Timestamp: ts, Type: DurationEnd}
}

// NewInstant returns an instant event.
func NewInstant(name string, ts float64) *Event {
	return &Event{Name: name, Timestamp: ts, Type: Instant}
}

// NewCounter returns a counter event. The sampled value is stored in Args
// under the event name, as required by the Trace Event Format counter
// representation.
func NewCounter(name string, ts float64, value float64) *Event {
	return &Event{
		Name:      name,
		Timestamp: ts,
		Type:      Counter,
		Args:      map[string]any{name: value},
	}
}

// NewMetadata returns a metadata event with the given args.
func NewMetadata(name string, args map[string]any) *Event {
	return &Event{Name: name, Type: Metadata, Args: args}
}

// NewFlowStart returns a flow-start event bound to the given flow ID.
func NewFlowStart(name string, ts float64, flowID int) *Event {
	return &Event{Name: name, Timestamp: ts, Type: FlowStart, FlowID: flowID}
}

// NewFlowEnd returns a flow-end event bound to the given flow ID.
func NewFlowEnd(name string, ts float64, flowID int) *Event {
	return &Event{Name: name, Timestamp: ts, Type: FlowEnd, FlowID: flowID}
}

// Clone returns a shallow copy of the event. Args is shared with the
// original; callers that patch Args must replace the map.
func (e *Event) Clone() *Event {
	c := *e
	return &c
}

// String renders the event as "[<ts> ms]: <name> (<type>)".
func (e *Event) String() string {
	return fmt.Sprintf("[%v ms]: %s (%s)", e.Timestamp, e.Name, e.Type)
}
