package trazer

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/trazer/trazer-go/pkg/trazer/event"
	"github.com/trazer/trazer-go/pkg/trazer/pattern"
	"github.com/trazer/trazer-go/pkg/trazer/tef"
)

// Analyzer matches event patterns against a trace snapshot and accumulates
// the resulting event chains.
//
// The analyzer encodes the trace once at construction time: every distinct
// event name gets a fixed-width alphabetic code, and the event sequence is
// linearized into a single string of code+suffix slots. Matching is then a
// regular expression search over that string, and mapping matches back to
// events is integer arithmetic on the slot width.
//
// An Analyzer is bound to the trace snapshot it was built from; events added
// to the trace afterwards are not visible until a new Analyzer is built.
// It is not safe for concurrent use; concurrent analyses must each own their
// own Analyzer.
type Analyzer struct {
	trace        *Trace
	codebook     *pattern.Codebook
	eventsString string

	chains     []*event.Chain
	chainIndex map[chainKey]*event.Chain
}

// chainKey identifies a chain by the identity of its first and last event.
type chainKey struct {
	first *event.Event
	last  *event.Event
}

// NewAnalyzer builds an analyzer for the given trace. A trace with no events
// is valid and trivially matches nothing.
//
// Returns a pattern.NameConflictError if any event name contains a reserved
// pattern character.
func NewAnalyzer(t *Trace) (*Analyzer, error) {
	names := make([]string, len(t.Events))
	for i, e := range t.Events {
		names[i] = e.Name
	}
	cb, err := pattern.NewCodebook(names)
	if err != nil {
		return nil, fmt.Errorf("encode event names: %w", err)
	}
	eventsString, err := pattern.Linearize(t.Events, cb)
	if err != nil {
		return nil, fmt.Errorf("linearize trace: %w", err)
	}

	return &Analyzer{
		trace:        t,
		codebook:     cb,
		eventsString: eventsString,
		chainIndex:   map[chainKey]*event.Chain{},
	}, nil
}

// Trace returns the analyzed trace.
func (a *Analyzer) Trace() *Trace {
	return a.trace
}

// EventsString returns the linearized trace the analyzer matches against.
func (a *Analyzer) EventsString() string {
	return a.eventsString
}

// Codes returns a copy of the event-name-to-code mapping.
func (a *Analyzer) Codes() map[string]string {
	return a.codebook.Codes()
}

// Chains returns all accumulated event chains, sorted by start timestamp.
func (a *Analyzer) Chains() []*event.Chain {
	return a.chains
}

// MatchOption configures a single Match call.
type MatchOption func(*matchConfig)

type matchConfig struct {
	exclusive bool
}

// WithNonExclusiveWildcard lets wildcards match any event run, including
// begins and ends of the events pinned down by the explicit tokens around
// them. The default is exclusive wildcards.
func WithNonExclusiveWildcard() MatchOption {
	return func(c *matchConfig) {
		c.exclusive = false
	}
}

// Match finds every occurrence of eventPattern in the trace and records each
// as an event chain named chainName. A chain spans all events from the first
// to the last matched token, inclusive of events swallowed by wildcards.
//
// Matching is idempotent per event span: when a match resolves to a
// (first event, last event) pair that already has a chain, that chain is
// renamed to chainName instead of being duplicated. The accumulated chain
// list stays sorted by start timestamp.
//
// A well-formed pattern that references event names absent from this trace
// is a soft miss: Match returns an empty result and no error. Malformed
// patterns return a pattern.SyntaxError.
func (a *Analyzer) Match(eventPattern, chainName string, opts ...MatchOption) ([]*event.Chain, error) {
	cfg := matchConfig{exclusive: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	compiled, err := pattern.Compile(a.codebook, eventPattern, cfg.exclusive)
	if err != nil {
		var notFound *pattern.NameNotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}

	spans, err := compiled.FindAll(a.eventsString)
	if err != nil {
		return nil, err
	}

	stride := a.codebook.Width() + 1
	matched := make([]*event.Chain, 0, len(spans))
	for _, span := range spans {
		firstIndex := span.First / stride
		lastIndex := span.Last / stride

		key := chainKey{first: a.trace.Events[firstIndex], last: a.trace.Events[lastIndex]}
		chain, ok := a.chainIndex[key]
		if ok {
			// Same span matched before: keep the chain, take the new name.
			chain.Name = chainName
		} else {
			chain = event.NewChain(chainName)
			chain.AddEvents(a.trace.Events[firstIndex : lastIndex+1]...)
			a.chainIndex[key] = chain
			a.chains = append(a.chains, chain)
		}
		matched = append(matched, chain)
	}

	sort.SliceStable(a.chains, func(i, j int) bool {
		return a.chains[i].Events[0].Timestamp < a.chains[j].Events[0].Timestamp
	})

	return matched, nil
}

// TEF merges the original trace with the accumulated event chains into one
// Trace Event Format document. Each chain contributes a synthesized
// begin/end pair carrying the chain name and its first/last timestamps,
// tagged with chainPID so visualizers group chains separately from the
// source events.
func (a *Analyzer) TEF(chainPID int) (*tef.Document, error) {
	chainEvents := make([]*event.Event, 0, 2*len(a.chains))
	for _, chain := range a.chains {
		begin, end, err := chain.AsEventPair()
		if err != nil {
			return nil, err
		}
		begin.PID = chainPID
		end.PID = chainPID
		chainEvents = append(chainEvents, begin, end)
	}
	return tef.NewDocument(a.trace.Events, a.trace.MetadataEvents(), chainEvents), nil
}

// WriteTEF writes the merged trace and chains as indented Trace Event Format
// JSON.
func (a *Analyzer) WriteTEF(w io.Writer, chainPID int) error {
	doc, err := a.TEF(chainPID)
	if err != nil {
		return err
	}
	return tef.Write(w, doc)
}
