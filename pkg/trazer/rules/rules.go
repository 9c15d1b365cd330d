// Package rules loads chain-rule files: YAML documents declaring named event
// patterns that are applied to a trace in one sweep.
package rules

// File represents the structure of a YAML rule file.
//
// Example:
//
//	version: 1
//	chains:
//	  - name: request
//	    pattern: receive_request+*send_response-
//	  - name: gc_while_request
//	    pattern: receive_request+*gc_pause!*send_response-
//	    exclusive: false
type File struct {
	// Version is the rule file format version. Currently only version 1
	// is supported.
	Version int `yaml:"version"`

	// Chains is the list of chain rules, applied in order.
	Chains []Rule `yaml:"chains"`
}

// Rule is a single chain rule: the name given to matched chains and the
// event pattern to match. Rule names must be unique within a file.
type Rule struct {
	// Name is the chain name recorded for every match of this rule.
	Name string `yaml:"name"`

	// Pattern is the event pattern, e.g. "request+*response-".
	Pattern string `yaml:"pattern"`

	// Exclusive selects exclusive wildcard semantics. Unset means true.
	Exclusive *bool `yaml:"exclusive"`
}

// ExclusiveWildcard reports whether this rule uses exclusive wildcards.
func (r Rule) ExclusiveWildcard() bool {
	return r.Exclusive == nil || *r.Exclusive
}
