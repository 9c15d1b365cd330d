package rules

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/trazer/trazer-go/internal/safefile"
)

const (
	// MaxFileSize is the maximum allowed size for a rule file (1MB).
	MaxFileSize = 1 * 1024 * 1024

	// MaxPatternLength is the maximum allowed length for one event
	// pattern. Long machine-generated patterns compile into regexes whose
	// backtracking cost the analyzer cannot bound.
	MaxPatternLength = 512

	// MaxRuleCount is the maximum number of rules in one file.
	MaxRuleCount = 1000

	// SupportedVersion is the currently supported rule file format version.
	SupportedVersion = 1
)

// Load reads and parses a rule file from the given path.
//
// The file is opened through safefile.OpenRegular, so FIFOs, devices and
// other special files are rejected, and reads are capped at MaxFileSize.
func Load(path string) (*File, error) {
	f, info, err := safefile.OpenRegular(path)
	if err != nil {
		return nil, fmt.Errorf("open rule file: %w", err)
	}
	defer f.Close()

	if info.Size() == 0 {
		return nil, errors.New("rule file is empty")
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("rule file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	// Read one byte past the limit to notice the file growing under us.
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("rule file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	return LoadBytes(data)
}

// LoadBytes parses a rule file from a byte slice.
func LoadBytes(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("rule file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("rule file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate performs schema-level validation: version, rule count, required
// fields, unique names and pattern length. Patterns are not compiled here;
// compilation needs the event names of a concrete trace.
func (f *File) Validate() error {
	if f.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", f.Version, SupportedVersion),
		}
	}
	if len(f.Chains) == 0 {
		return &ValidationError{
			Field:   "chains",
			Message: "at least one chain rule is required",
		}
	}
	if len(f.Chains) > MaxRuleCount {
		return &ValidationError{
			Field:   "chains",
			Message: fmt.Sprintf("too many rules (%d), maximum allowed is %d", len(f.Chains), MaxRuleCount),
		}
	}

	seen := make(map[string]int, len(f.Chains))
	for i, r := range f.Chains {
		if r.Name == "" {
			return &RuleError{Index: i, Field: "name", Message: "name is required"}
		}
		if r.Pattern == "" {
			return &RuleError{Index: i, Name: r.Name, Field: "pattern", Message: "pattern is required"}
		}
		if len(r.Pattern) > MaxPatternLength {
			return &RuleError{
				Index: i, Name: r.Name, Field: "pattern",
				Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(r.Pattern), MaxPatternLength),
			}
		}
		if prev, dup := seen[r.Name]; dup {
			return &RuleError{
				Index: i, Name: r.Name, Field: "name",
				Message: fmt.Sprintf("duplicate name (first used by rule[%d])", prev),
			}
		}
		seen[r.Name] = i
	}

	return nil
}
