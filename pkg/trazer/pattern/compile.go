package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// tokenRe recognizes one pattern token: an event name (word run) followed by
// exactly one non-word marker character. Tokenization itself only needs this
// simple left-to-right scan; the stdlib engine is sufficient here.
var tokenRe = regexp.MustCompile(`(\w+)(\W)`)

// token is one resolved pattern token: an event name code and its marker.
type token struct {
	code   string
	marker byte
}

// Compiled is an executable event pattern. Execution uses the regexp2
// engine: the exclusion semantics of exclusive wildcards require negative
// lookahead, and the wildcard repetition must be lazy, neither of which the
// stdlib RE2 engine supports.
//
// A Compiled pattern is immutable and safe for concurrent use.
type Compiled struct {
	source string
	re     *regexp2.Regexp
}

// Compile translates an event pattern into an executable regular expression
// over a linearized trace.
//
// The pattern is a sequence of <event-name><marker> tokens, where the marker
// is '+' (begins), '-' (ends) or '!' (non-duration), optionally interspersed
// with '*' wildcards. With exclusive=true (the usual mode) each wildcard
// refuses to re-match events pinned down by the explicit tokens around it;
// with exclusive=false a wildcard matches any event run lazily.
//
// Compilation is deterministic: the same pattern against the same codebook
// always yields the same regular expression text.
//
// Errors: SyntaxError for malformed patterns (no tokens in a subpattern,
// trailing unparsable text, unknown marker, lone wildcard) and
// NameNotFoundError when the pattern references a name the codebook does not
// contain.
func Compile(cb *Codebook, eventPattern string, exclusive bool) (*Compiled, error) {
	subpatterns := strings.Split(eventPattern, string(Wildcard))

	// A trailing wildcard is valid: the final subpattern is empty and the
	// closing exclusion set stays open-ended. A wildcard with no anchoring
	// tokens before it is not.
	trailingWildcard := false
	if n := len(subpatterns); n > 1 && subpatterns[n-1] == "" {
		trailingWildcard = true
		subpatterns = subpatterns[:n-1]
	}

	// Structural validation first, across all subpatterns, so a malformed
	// pattern is always reported as a SyntaxError even when it also names
	// unknown events.
	tokenized := make([][][]int, len(subpatterns))
	for i, sub := range subpatterns {
		matches := tokenRe.FindAllStringSubmatchIndex(sub, -1)
		if len(matches) == 0 {
			return nil, &SyntaxError{
				Pattern: eventPattern,
				Message: fmt.Sprintf("use <event_name> and one of the markers (%c, %c, %c) to compose an event pattern",
					MarkerBegin, MarkerEnd, MarkerFallback),
			}
		}

		// The final subpattern must end exactly at its last token;
		// anything after it is unparsable trailing text.
		if i == len(subpatterns)-1 {
			if end := matches[len(matches)-1][1]; end < len(sub) {
				return nil, &SyntaxError{
					Pattern: eventPattern,
					Message: fmt.Sprintf("unparsable trailing text %q", sub[end:]),
				}
			}
		}
		tokenized[i] = matches
	}

	encoded := make([][]token, len(subpatterns))
	for i, matches := range tokenized {
		sub := subpatterns[i]
		tokens := make([]token, 0, len(matches))
		for _, m := range matches {
			name := sub[m[2]:m[3]]
			marker := sub[m[4]]

			code, ok := cb.Code(name)
			if !ok {
				return nil, &NameNotFoundError{Name: name}
			}
			if marker != MarkerBegin && marker != MarkerEnd && marker != MarkerFallback {
				return nil, &SyntaxError{
					Pattern: eventPattern,
					Message: fmt.Sprintf("unknown marker character %q", string(marker)),
				}
			}
			tokens = append(tokens, token{code: code, marker: marker})
		}
		encoded[i] = tokens
	}

	var b strings.Builder
	for i, tokens := range encoded {
		for _, t := range tokens {
			fmt.Fprintf(&b, `(%s)\%c`, t.code, t.marker)
		}

		gapFollows := i < len(encoded)-1 || trailingWildcard
		if !gapFollows {
			continue
		}
		var exclusions []string
		if exclusive {
			var after []token
			if i < len(encoded)-1 {
				after = encoded[i+1]
			}
			exclusions = wildcardExclusions(tokens, after)
		}
		b.WriteString(wildcardFragment(cb.Width(), exclusions))
	}
	source := b.String()

	re, err := regexp2.Compile(source, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile generated pattern %q: %w", source, err)
	}

	return &Compiled{source: source, re: re}, nil
}

// Source returns the generated regular expression text.
func (c *Compiled) Source() string {
	return c.source
}

// Span locates one match within a linearized trace: the string offsets of
// the first and the last captured token. Offsets are starts of event slots,
// so dividing by the slot width maps them back to event indices.
type Span struct {
	First int
	Last  int
}

// FindAll runs the pattern over a linearized trace and returns the spans of
// all non-overlapping matches, in order.
func (c *Compiled) FindAll(eventsString string) ([]Span, error) {
	var spans []Span
	m, err := c.re.FindStringMatch(eventsString)
	for err == nil && m != nil {
		groups := m.Groups()
		// groups[0] is the whole match; explicit tokens are 1..n and
		// always participate, so first and last are well defined.
		first := groups[1]
		last := groups[len(groups)-1]
		spans = append(spans, Span{First: first.Index, Last: last.Index})
		m, err = c.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("match pattern %q: %w", c.source, err)
	}
	return spans, nil
}
