// Package tef serializes traces to the Trace Event Format, the JSON format
// consumed by chrome://tracing, Perfetto and compatible visualizers.
//
// See https://docs.google.com/document/d/1CvAClvFfyA5R-PhYUmn5OOQtYMH4h6I0nSsKchNAySU
// for the format reference.
package tef

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trazer/trazer-go/pkg/trazer/event"
)

// DisplayTimeUnit is the unit visualizers use to display timestamps.
const DisplayTimeUnit = "ms"

// Event is one entry of a Trace Event Format document. Timestamps are in
// microseconds, as the format requires; metadata events carry none.
type Event struct {
	Name      string         `json:"name"`
	Phase     string         `json:"ph"`
	Timestamp *float64       `json:"ts,omitempty"`
	PID       int            `json:"pid,omitempty"`
	TID       int            `json:"tid,omitempty"`
	FlowID    *int           `json:"id,omitempty"`
	Scope     string         `json:"s,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}

// Document is a complete Trace Event Format JSON document.
type Document struct {
	TraceEvents     []Event `json:"traceEvents"`
	DisplayTimeUnit string  `json:"displayTimeUnit"`
}

// phases maps event type tags to Trace Event Format phase characters.
// Instant events additionally carry the global scope "g".
var phases = map[event.Type]string{
	event.DurationBegin: "B",
	event.DurationEnd:   "E",
	event.Instant:       "i",
	event.Counter:       "C",
	event.Metadata:      "M",
	event.FlowStart:     "s",
	event.FlowEnd:       "f",
}

// FromEvent converts a trace event to its wire representation. Model
// timestamps are milliseconds and are scaled to the microseconds the format
// prescribes. Types without a dedicated phase fall back to instant.
func FromEvent(e *event.Event) Event {
	ph, ok := phases[e.Type]
	if !ok {
		ph = phases[event.Instant]
	}

	te := Event{
		Name:  e.Name,
		Phase: ph,
		PID:   e.PID,
		TID:   e.TID,
		Args:  e.Args,
	}
	if e.Type != event.Metadata {
		ts := e.Timestamp * 1e3
		te.Timestamp = &ts
	}
	if e.Type == event.FlowStart || e.Type == event.FlowEnd {
		id := e.FlowID
		te.FlowID = &id
	}
	if ph == "i" {
		te.Scope = "g"
	}
	return te
}

// NewDocument builds a document from event groups, concatenated in order.
// An empty document still carries an empty (not null) traceEvents array.
func NewDocument(groups ...[]*event.Event) *Document {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	events := make([]Event, 0, n)
	for _, g := range groups {
		for _, e := range g {
			events = append(events, FromEvent(e))
		}
	}
	return &Document{TraceEvents: events, DisplayTimeUnit: DisplayTimeUnit}
}

// Write serializes the document as indented JSON.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write trace event format: %w", err)
	}
	return nil
}
