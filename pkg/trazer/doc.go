// Package trazer analyzes execution traces recorded as ordered sequences of
// timestamped events.
//
// This package allows you to:
//   - Collect begin/end/instant/counter events in a [Trace]
//   - Locate recurring event subsequences with a compact pattern language
//   - Merge matched chains with the original trace and export everything as
//     Trace Event Format JSON for chrome://tracing or Perfetto
//
// # Basic Usage
//
// Build a trace, match a pattern, export the result:
//
//	t := trazer.NewTrace()
//	t.AddEvents(
//	    event.NewDurationBegin("receive_request", 1),
//	    event.NewDurationBegin("process_request", 2),
//	    event.NewDurationEnd("process_request", 3),
//	    event.NewDurationEnd("receive_request", 4),
//	)
//
//	a, err := trazer.NewAnalyzer(t)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	chains, err := a.Match("receive_request+*process_request-", "request")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = chains
//	if err := a.WriteTEF(os.Stdout, 1000); err != nil {
//	    log.Fatal(err)
//	}
//
// # Pattern Language
//
// A pattern is a sequence of <event-name><marker> tokens:
//
//	'+'  the named event begins
//	'-'  the named event ends
//	'!'  the named event occurs (instant, counter, ...)
//	'*'  any events in between
//
// "request+*response-" reads as: request begins, anything in between,
// response ends. By default the wildcard is exclusive: it refuses to
// re-match begins still open from the tokens before it and ends claimed by
// the tokens after it, so nested repetitions of the anchoring events do not
// collapse into one oversized match. [WithNonExclusiveWildcard] disables
// this.
//
// Patterns that reference event names never seen in the trace simply match
// nothing; malformed patterns fail with a [pattern.SyntaxError].
//
// # Rule Files
//
// For pattern matching without code, the [rules] subpackage loads YAML files
// of named chain rules that the trazer CLI applies to a trace.
//
// # Caveats
//
// Pattern execution uses a backtracking regular expression engine.
// Pathological patterns (many unions, deeply nested exclusions) can
// backtrack superlinearly on adversarial traces; bounding such patterns is
// the caller's responsibility.
package trazer
