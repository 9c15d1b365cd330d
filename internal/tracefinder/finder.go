// Package tracefinder locates trace files on disk: resolving a trace
// directory and picking the most recently written trace file in it.
package tracefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnvTraceDir is the environment variable naming the default trace directory.
const EnvTraceDir = "TRAZER_TRACEDIR"

// Sentinel errors.
var (
	ErrTraceDirNotFound = errors.New("trace directory not found")
	ErrNoTraceFiles     = errors.New("no trace files found")
)

// globs are the file name patterns recognized as trace files, in match order.
var globs = []string{"*.jsonl", "*.json"}

// FindTraceDir resolves the trace directory.
//
// Priority:
//  1. explicit (if non-empty)
//  2. TRAZER_TRACEDIR environment variable
//
// Returns ErrTraceDirNotFound if neither names a directory containing trace
// files. The returned path has symlinks resolved for consistency.
func FindTraceDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveTraceDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: directory is invalid or contains no trace files", ErrTraceDirNotFound)
	}

	if envDir := os.Getenv(EnvTraceDir); envDir != "" {
		if resolved := resolveTraceDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s points to an invalid directory", ErrTraceDirNotFound, EnvTraceDir)
	}

	return "", ErrTraceDirNotFound
}

// candidate pairs a trace file path with its cached modification time, so a
// file deleted between stat and sort cannot skew the ordering.
type candidate struct {
	path    string
	modTime int64
}

// FindLatestTraceFile returns the most recently modified trace file in dir.
//
// Returns ErrNoTraceFiles if the directory contains none.
func FindLatestTraceFile(dir string) (string, error) {
	matches, err := globTraceFiles(dir)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", ErrNoTraceFiles
	}

	candidates := make([]candidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, candidate{
			path:    m,
			modTime: info.ModTime().UnixNano(),
		})
	}
	if len(candidates) == 0 {
		return "", ErrNoTraceFiles
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})
	return candidates[0].path, nil
}

// globTraceFiles returns all trace files in dir.
func globTraceFiles(dir string) ([]string, error) {
	var matches []string
	for _, g := range globs {
		m, err := filepath.Glob(filepath.Join(dir, g))
		if err != nil {
			return nil, fmt.Errorf("globbing trace files: %w", err)
		}
		matches = append(matches, m...)
	}
	return matches, nil
}

// resolveTraceDir resolves symlinks and verifies the directory holds at least
// one trace file. Returns the resolved path, or "" when invalid.
func resolveTraceDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}

	matches, err := globTraceFiles(resolved)
	if err != nil || len(matches) == 0 {
		return ""
	}
	return resolved
}
