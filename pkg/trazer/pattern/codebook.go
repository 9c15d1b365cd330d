// Package pattern implements the string domain of trace analysis: encoding
// event names into compact alphabetic codes, linearizing an event sequence
// into a single string, and compiling event patterns into executable regular
// expressions over that string.
//
// Event names are mapped to fixed-width base-52 codes over [A-Z a-z]. Each
// event then occupies exactly code-width+1 characters of the linearized
// string (code plus a one-character type suffix), which makes mapping match
// offsets back to event indices pure arithmetic.
package pattern

import (
	"sort"
	"strings"

	"github.com/trazer/trazer-go/pkg/trazer/event"
)

// Reserved pattern characters. They double as the type suffixes of the
// linearized trace, so event names must not contain them.
const (
	// MarkerBegin follows an event name that begins.
	MarkerBegin byte = '+'

	// MarkerEnd follows an event name that ends.
	MarkerEnd byte = '-'

	// MarkerFallback is the suffix for all non-duration events (instant,
	// counter, metadata, flow). Finer-grained suffixes may be added later
	// as long as they stay disjoint from [A-Z a-z] and the wildcard.
	MarkerFallback byte = '!'

	// Wildcard matches an arbitrary run of events in a pattern.
	Wildcard byte = '*'
)

const reservedChars = "+-!*"

// codeBase is the size of the code alphabet: 26 uppercase plus 26 lowercase
// letters, treated as one contiguous 52-symbol alphabet (digit 0 is 'A',
// digit 25 is 'Z', digit 26 is 'a', digit 51 is 'z').
const codeBase = 52

// Codebook is an injective mapping from the distinct event names of one
// trace snapshot to fixed-width alphabetic codes. It is built once per
// analysis session and never mutated afterwards, so it is safe for
// concurrent readers.
type Codebook struct {
	codes map[string]string
	width int
}

// NewCodebook builds a codebook for the given event names. Duplicates are
// collapsed; names are assigned codes in sorted order starting at index 0.
// The code width is the minimum number of base-52 digits needed to represent
// count-1, with a floor of one digit. An empty name set yields a valid,
// empty codebook.
//
// Returns a NameConflictError if any name contains a reserved character; no
// partially built codebook is returned in that case.
func NewCodebook(names []string) (*Codebook, error) {
	distinct := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		distinct = append(distinct, name)
	}
	sort.Strings(distinct)

	if len(distinct) == 0 {
		return &Codebook{codes: map[string]string{}}, nil
	}

	for _, name := range distinct {
		if strings.ContainsAny(name, reservedChars) {
			return nil, &NameConflictError{Name: name}
		}
	}

	width := codeWidth(len(distinct))
	codes := make(map[string]string, len(distinct))
	for i, name := range distinct {
		codes[name] = encodeIndex(i, width)
	}

	return &Codebook{codes: codes, width: width}, nil
}

// codeWidth returns the minimum number of base-52 digits needed to encode
// the indices 0..n-1, at least 1.
func codeWidth(n int) int {
	width := 1
	for limit := codeBase; limit < n; limit *= codeBase {
		width++
	}
	return width
}

// encodeIndex converts a name index to its fixed-width base-52 code.
func encodeIndex(i, width int) string {
	buf := make([]byte, width)
	q := i
	for j := width - 1; j >= 0; j-- {
		r := q % codeBase
		q /= codeBase
		if r < 26 {
			buf[j] = 'A' + byte(r)
		} else {
			buf[j] = 'a' + byte(r-26)
		}
	}
	return string(buf)
}

// Code returns the code assigned to an event name.
func (cb *Codebook) Code(name string) (string, bool) {
	code, ok := cb.codes[name]
	return code, ok
}

// Width returns the constant code width of this codebook. Zero for an empty
// codebook.
func (cb *Codebook) Width() int {
	return cb.width
}

// Len returns the number of encoded names.
func (cb *Codebook) Len() int {
	return len(cb.codes)
}

// Codes returns a copy of the name-to-code mapping.
func (cb *Codebook) Codes() map[string]string {
	codes := make(map[string]string, len(cb.codes))
	for name, code := range cb.codes {
		codes[name] = code
	}
	return codes
}

// suffixFor maps an event type tag to its linearized suffix character.
func suffixFor(t event.Type) byte {
	switch t {
	case event.DurationBegin:
		return MarkerBegin
	case event.DurationEnd:
		return MarkerEnd
	default:
		return MarkerFallback
	}
}

// Linearize concatenates, in order, each event's code and type suffix into a
// single string. The result always has length len(events) * (width+1); the
// substring starting at i*(width+1) corresponds exactly to events[i].
//
// Returns a NameNotFoundError if an event's name is not in the codebook,
// which only happens when the codebook was built from a different event
// sequence.
func Linearize(events []*event.Event, cb *Codebook) (string, error) {
	var b strings.Builder
	b.Grow(len(events) * (cb.width + 1))
	for _, e := range events {
		code, ok := cb.codes[e.Name]
		if !ok {
			return "", &NameNotFoundError{Name: e.Name}
		}
		b.WriteString(code)
		b.WriteByte(suffixFor(e.Type))
	}
	return b.String(), nil
}
