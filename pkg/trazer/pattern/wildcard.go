package pattern

import (
	"fmt"
	"strings"
)

// wildcardExclusions computes the (code, marker) pairs a wildcard must not
// match, given the explicit tokens immediately before and after the gap.
//
// Two rules apply:
//
//   - A code that begins in the preceding subpattern without a matching end
//     there is still in progress across the gap, so the wildcard must not
//     let it begin again. Open/close counts are tracked per code, in order.
//
//   - A code whose end in the following subpattern is not the closing of a
//     begin occurring earlier in that subpattern belongs to the explicit
//     suffix, so the wildcard must not swallow it. An end is exposed when it
//     is seen while the code has no currently open begins.
//
// The result lists excluded begins first, then excluded ends, each in
// first-seen order, so the rendered pattern is deterministic.
func wildcardExclusions(before, after []token) []string {
	var exclusions []string

	openCounts := make(map[string]int)
	var openOrder []string
	for _, t := range before {
		switch t.marker {
		case MarkerBegin:
			if openCounts[t.code] == 0 {
				openOrder = append(openOrder, t.code)
			}
			openCounts[t.code]++
		case MarkerEnd:
			if openCounts[t.code] > 0 {
				openCounts[t.code]--
			}
		}
	}
	for _, code := range openOrder {
		if openCounts[code] > 0 {
			exclusions = append(exclusions, code+`\`+string(MarkerBegin))
		}
	}

	opens := make(map[string]int)
	exposed := make(map[string]bool)
	var exposedOrder []string
	for _, t := range after {
		switch t.marker {
		case MarkerBegin:
			opens[t.code]++
		case MarkerEnd:
			if opens[t.code] > 0 {
				opens[t.code]--
			} else if !exposed[t.code] {
				exposed[t.code] = true
				exposedOrder = append(exposedOrder, t.code)
			}
		}
	}
	for _, code := range exposedOrder {
		exclusions = append(exclusions, code+`\`+string(MarkerEnd))
	}

	return exclusions
}

// wildcardFragment renders one wildcard as a lazy repetition of a single
// encoded event (a width-sized alphabetic run plus one non-word marker).
// A non-empty exclusion set is rendered as a negative lookahead at each
// repetition step (a tempered greedy token).
func wildcardFragment(width int, exclusions []string) string {
	run := fmt.Sprintf(`[a-zA-Z]{%d}\W`, width)
	if len(exclusions) == 0 {
		return `(?:` + run + `)*?`
	}
	return `(?:(?!` + strings.Join(exclusions, "|") + `)` + run + `)*?`
}
