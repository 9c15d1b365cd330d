package event

import "fmt"

// EmptyChainError is returned when a derived property (start time, duration,
// first/last event) is requested from a chain with no events. It is a
// distinct type so caller bugs surface early instead of silently reading
// zero values.
type EmptyChainError struct {
	// Chain is the name of the offending chain.
	Chain string

	// Property is the accessor that was called.
	Property string
}

func (e *EmptyChainError) Error() string {
	return fmt.Sprintf("event chain %q is empty: %s has no value", e.Chain, e.Property)
}

// Chain is a named, ordered subsequence of trace events captured by one
// pattern match. Chains are owned independently of the trace they were
// matched against; the contained events are shared, not copied.
//
// A chain is uniquely identified by its (first event, last event) pair, so
// re-running the same match renames the existing chain rather than
// duplicating it.
type Chain struct {
	// Name of the chain. Renamed in place when the same event span is
	// matched again under a different name.
	Name string

	// Events in trace order, including events swallowed by wildcards.
	Events []*Event
}

// NewChain returns an empty chain with the given name.
func NewChain(name string) *Chain {
	return &Chain{Name: name}
}

// AddEvents appends events to the chain, preserving order.
func (c *Chain) AddEvents(events ...*Event) {
	c.Events = append(c.Events, events...)
}

// First returns the first event in the chain.
func (c *Chain) First() (*Event, error) {
	if len(c.Events) == 0 {
		return nil, &EmptyChainError{Chain: c.Name, Property: "First"}
	}
	return c.Events[0], nil
}

// Last returns the last event in the chain.
func (c *Chain) Last() (*Event, error) {
	if len(c.Events) == 0 {
		return nil, &EmptyChainError{Chain: c.Name, Property: "Last"}
	}
	return c.Events[len(c.Events)-1], nil
}

// Start returns the timestamp of the first event in the chain.
func (c *Chain) Start() (float64, error) {
	if len(c.Events) == 0 {
		return 0, &EmptyChainError{Chain: c.Name, Property: "Start"}
	}
	return c.Events[0].Timestamp, nil
}

// Duration returns the time between the last and the first event.
func (c *Chain) Duration() (float64, error) {
	if len(c.Events) == 0 {
		return 0, &EmptyChainError{Chain: c.Name, Property: "Duration"}
	}
	return c.Events[len(c.Events)-1].Timestamp - c.Events[0].Timestamp, nil
}

// AsEventPair synthesizes a duration begin/end pair representing the whole
// chain. Both events carry the chain name; their timestamps are those of the
// first and last chained event. Visualizers render the pair as one slice
// spanning the chain.
func (c *Chain) AsEventPair() (*Event, *Event, error) {
	if len(c.Events) == 0 {
		return nil, nil, &EmptyChainError{Chain: c.Name, Property: "AsEventPair"}
	}
	begin := NewDurationBegin(c.Name, c.Events[0].Timestamp)
	end := NewDurationEnd(c.Name, c.Events[len(c.Events)-1].Timestamp)
	return begin, end, nil
}

// String renders the chain as "[<start> - <end> ms]: <name> (<n> events)".
func (c *Chain) String() string {
	if len(c.Events) == 0 {
		return fmt.Sprintf("[empty]: %s (0 events)", c.Name)
	}
	return fmt.Sprintf("[%v - %v ms]: %s (%d events)",
		c.Events[0].Timestamp, c.Events[len(c.Events)-1].Timestamp, c.Name, len(c.Events))
}
