package pattern

import "fmt"

// NameConflictError reports an event name that contains one of the reserved
// pattern characters ('+', '-', '!', '*'). Such names cannot be encoded
// because the linearized trace could no longer be tokenized unambiguously.
type NameConflictError struct {
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("invalid event name %q: characters %q are reserved", e.Name, reservedChars)
}

// SyntaxError reports a malformed event pattern: an unparsable token stream,
// trailing free text, an unknown marker character, or an unanchored wildcard.
type SyntaxError struct {
	Pattern string
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid event pattern %q: %s", e.Pattern, e.Message)
}

// NameNotFoundError reports a pattern that references an event name absent
// from the trace. It is deliberately distinct from SyntaxError: a pattern
// that is well formed but names events that never occurred is a normal
// "pattern does not apply" outcome, which the matcher converts into an empty
// result instead of a failure.
type NameNotFoundError struct {
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("event name %q not found in the trace", e.Name)
}
