package rules_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trazer/trazer-go/pkg/trazer/rules"
)

func TestLoad_Valid(t *testing.T) {
	f, err := rules.Load(filepath.Join("testdata", "valid.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.Version)
	require.Len(t, f.Chains, 3)

	assert.Equal(t, "request", f.Chains[0].Name)
	assert.Equal(t, "receive_request+*send_response-", f.Chains[0].Pattern)
	assert.True(t, f.Chains[0].ExclusiveWildcard(), "unset exclusive defaults to true")

	assert.False(t, f.Chains[1].ExclusiveWildcard())
	assert.True(t, f.Chains[2].ExclusiveWildcard())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := rules.Load(filepath.Join("testdata", "no_such_file.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := rules.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	_, err := rules.Load(filepath.Join("testdata", "bad_version.yaml"))
	require.Error(t, err)

	var verr *rules.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "version", verr.Field)
}

func TestLoad_DuplicateNames(t *testing.T) {
	_, err := rules.Load(filepath.Join("testdata", "duplicate_names.yaml"))
	require.Error(t, err)

	var rerr *rules.RuleError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "request", rerr.Name)
	assert.Equal(t, "name", rerr.Field)
	assert.Equal(t, 1, rerr.Index)
}

func TestLoadBytes_InvalidYAML(t *testing.T) {
	_, err := rules.LoadBytes([]byte("chains: ["))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse YAML")
}

func TestLoadBytes_NoRules(t *testing.T) {
	_, err := rules.LoadBytes([]byte("version: 1\nchains: []\n"))
	require.Error(t, err)

	var verr *rules.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "chains", verr.Field)
}

func TestLoadBytes_MissingFields(t *testing.T) {
	_, err := rules.LoadBytes([]byte("version: 1\nchains:\n  - pattern: a+\n"))
	require.Error(t, err)
	var rerr *rules.RuleError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "name", rerr.Field)

	_, err = rules.LoadBytes([]byte("version: 1\nchains:\n  - name: a\n"))
	require.Error(t, err)
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "pattern", rerr.Field)
}

func TestLoadBytes_PatternTooLong(t *testing.T) {
	pattern := strings.Repeat("a", rules.MaxPatternLength) + "+"
	doc := "version: 1\nchains:\n  - name: long\n    pattern: " + pattern + "\n"

	_, err := rules.LoadBytes([]byte(doc))
	require.Error(t, err)

	var rerr *rules.RuleError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "pattern", rerr.Field)
	assert.Contains(t, rerr.Message, "too long")
}

func TestLoad_RejectsNonRegularFile(t *testing.T) {
	_, err := rules.Load(t.TempDir())
	assert.Error(t, err)
}
