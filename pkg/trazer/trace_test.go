package trazer_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trazer/trazer-go/pkg/trazer"
	"github.com/trazer/trazer-go/pkg/trazer/event"
)

func TestTrace_AddEvents(t *testing.T) {
	tr := trazer.NewTrace()
	begin := event.NewDurationBegin("work", 0)
	end := event.NewDurationEnd("work", 5)
	tr.AddEvents(begin, end)
	tr.AddEvent(event.NewInstant("tick", 6))

	require.Len(t, tr.Events, 3)
	assert.Same(t, begin, tr.Events[0])
	assert.Same(t, end, tr.Events[1])
}

func TestTrace_MetadataEvents(t *testing.T) {
	tr := trazer.NewTrace()
	tr.SetThreadName(2, 7, "worker")
	tr.SetProcessName(2, "backend")
	tr.SetProcessName(1, "frontend")
	tr.SetThreadName(1, 1, "main")

	meta := tr.MetadataEvents()
	require.Len(t, meta, 4)

	// Process names sorted by pid, then thread names by pid/tid.
	assert.Equal(t, "process_name", meta[0].Name)
	assert.Equal(t, 1, meta[0].PID)
	assert.Equal(t, map[string]any{"name": "frontend"}, meta[0].Args)

	assert.Equal(t, "process_name", meta[1].Name)
	assert.Equal(t, 2, meta[1].PID)

	assert.Equal(t, "thread_name", meta[2].Name)
	assert.Equal(t, 1, meta[2].PID)
	assert.Equal(t, 1, meta[2].TID)
	assert.Equal(t, map[string]any{"name": "main"}, meta[2].Args)

	assert.Equal(t, "thread_name", meta[3].Name)
	assert.Equal(t, 2, meta[3].PID)
	assert.Equal(t, 7, meta[3].TID)
}

func TestTrace_AddFlow(t *testing.T) {
	tr := trazer.NewTrace()
	src1 := event.NewDurationBegin("produce", 0)
	dest1 := event.NewDurationBegin("consume", 10)
	src2 := event.NewDurationBegin("produce", 20)
	dest2 := event.NewDurationBegin("consume", 30)
	tr.AddEvents(src1, dest1, src2, dest2)

	tr.AddFlow("handoff", src1, dest1)
	tr.AddFlow("handoff", src2, dest2)
	tr.AddFlow("other", src1, dest2)

	require.Len(t, tr.Events, 10)

	start1, end1 := tr.Events[4], tr.Events[5]
	assert.Equal(t, event.FlowStart, start1.Type)
	assert.Equal(t, 0.0, start1.Timestamp)
	assert.Equal(t, event.FlowEnd, end1.Type)
	assert.Equal(t, 10-1e-9, end1.Timestamp)
	assert.Equal(t, start1.FlowID, end1.FlowID)

	// Same name reuses the flow ID, a new name gets the next one.
	start2 := tr.Events[6]
	assert.Equal(t, start1.FlowID, start2.FlowID)
	start3 := tr.Events[8]
	assert.NotEqual(t, start1.FlowID, start3.FlowID)
}

func TestTrace_WriteTEF_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, trazer.NewTrace().WriteTEF(&buf))

	assert.JSONEq(t, `{"traceEvents": [], "displayTimeUnit": "ms"}`, buf.String())
	assert.Contains(t, buf.String(), `"traceEvents": []`)
}

func TestTrace_TEF_IncludesMetadata(t *testing.T) {
	tr := trazer.NewTrace()
	tr.AddEvent(event.NewDurationBegin("work", 1))
	tr.SetProcessName(1, "app")

	doc := tr.TEF()
	require.Len(t, doc.TraceEvents, 2)
	assert.Equal(t, "B", doc.TraceEvents[0].Phase)
	assert.Equal(t, "M", doc.TraceEvents[1].Phase)
	assert.Nil(t, doc.TraceEvents[1].Timestamp)
}

func TestTrace_String(t *testing.T) {
	tr := trazer.NewTrace()
	tr.AddEvent(event.NewDurationBegin("work", 1.5))
	tr.AddEvent(event.NewDurationEnd("work", 2))

	assert.Equal(t, "[1.5 ms]: work (duration_begin)\n[2 ms]: work (duration_end)", tr.String())
}
