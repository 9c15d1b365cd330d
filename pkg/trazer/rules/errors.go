package rules

import "fmt"

// ValidationError represents a schema-level problem with a rule file
// (unsupported version, no rules at all, too many rules).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// RuleError represents a problem with an individual rule (missing fields,
// duplicate name, oversized pattern).
type RuleError struct {
	Index   int    // 0-based index of the rule in the file
	Name    string // Rule name (may be empty if the name field is missing)
	Field   string
	Message string
	Cause   error
}

func (e *RuleError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("rule %q: %s: %s", e.Name, e.Field, e.Message)
	}
	return fmt.Sprintf("rule[%d]: %s: %s", e.Index, e.Field, e.Message)
}

// Unwrap returns the underlying cause, enabling errors.Is/errors.As.
func (e *RuleError) Unwrap() error {
	return e.Cause
}
