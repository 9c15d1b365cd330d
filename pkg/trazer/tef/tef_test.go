package tef_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trazer/trazer-go/pkg/trazer/event"
	"github.com/trazer/trazer-go/pkg/trazer/tef"
)

func TestFromEvent_Duration(t *testing.T) {
	e := event.NewDurationBegin("work", 1.5)
	e.PID = 3
	e.TID = 4

	te := tef.FromEvent(e)
	assert.Equal(t, "work", te.Name)
	assert.Equal(t, "B", te.Phase)
	require.NotNil(t, te.Timestamp)
	assert.Equal(t, 1500.0, *te.Timestamp)
	assert.Equal(t, 3, te.PID)
	assert.Equal(t, 4, te.TID)
	assert.Nil(t, te.FlowID)
	assert.Empty(t, te.Scope)

	assert.Equal(t, "E", tef.FromEvent(event.NewDurationEnd("work", 2)).Phase)
}

func TestFromEvent_InstantHasGlobalScope(t *testing.T) {
	te := tef.FromEvent(event.NewInstant("tick", 1))

	assert.Equal(t, "i", te.Phase)
	assert.Equal(t, "g", te.Scope)
}

func TestFromEvent_Counter(t *testing.T) {
	te := tef.FromEvent(event.NewCounter("memory", 2, 42))

	assert.Equal(t, "C", te.Phase)
	assert.Equal(t, map[string]any{"memory": 42.0}, te.Args)
}

func TestFromEvent_MetadataHasNoTimestamp(t *testing.T) {
	te := tef.FromEvent(event.NewMetadata("process_name", map[string]any{"name": "app"}))

	assert.Equal(t, "M", te.Phase)
	assert.Nil(t, te.Timestamp)
}

func TestFromEvent_FlowCarriesID(t *testing.T) {
	// A flow ID of zero is still emitted.
	start := tef.FromEvent(event.NewFlowStart("handoff", 1, 0))
	assert.Equal(t, "s", start.Phase)
	require.NotNil(t, start.FlowID)
	assert.Equal(t, 0, *start.FlowID)

	end := tef.FromEvent(event.NewFlowEnd("handoff", 2, 0))
	assert.Equal(t, "f", end.Phase)
	require.NotNil(t, end.FlowID)
}

func TestFromEvent_UnknownTypeFallsBackToInstant(t *testing.T) {
	te := tef.FromEvent(&event.Event{Name: "odd", Timestamp: 1, Type: "mystery"})

	assert.Equal(t, "i", te.Phase)
	assert.Equal(t, "g", te.Scope)
}

func TestNewDocument(t *testing.T) {
	doc := tef.NewDocument(
		[]*event.Event{event.NewDurationBegin("work", 0), event.NewDurationEnd("work", 1)},
		[]*event.Event{event.NewMetadata("process_name", map[string]any{"name": "app"})},
	)

	require.Len(t, doc.TraceEvents, 3)
	assert.Equal(t, "B", doc.TraceEvents[0].Phase)
	assert.Equal(t, "E", doc.TraceEvents[1].Phase)
	assert.Equal(t, "M", doc.TraceEvents[2].Phase)
	assert.Equal(t, "ms", doc.DisplayTimeUnit)
}

func TestNewDocument_Empty(t *testing.T) {
	doc := tef.NewDocument()

	assert.NotNil(t, doc.TraceEvents)
	assert.Empty(t, doc.TraceEvents)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	doc := tef.NewDocument([]*event.Event{event.NewInstant("tick", 1)})
	require.NoError(t, tef.Write(&buf, doc))

	assert.JSONEq(t, `{
		"traceEvents": [
			{"name": "tick", "ph": "i", "ts": 1000, "s": "g"}
		],
		"displayTimeUnit": "ms"
	}`, buf.String())

	// Indented output.
	assert.Contains(t, buf.String(), "\n    \"traceEvents\"")
}

func TestWrite_EmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tef.Write(&buf, tef.NewDocument()))

	assert.Contains(t, buf.String(), `"traceEvents": []`)
	assert.NotContains(t, buf.String(), "null")
}
