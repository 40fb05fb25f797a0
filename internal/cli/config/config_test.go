package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hurley/pkg/db"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, db.DefaultBackend, cfg.Backend)
	assert.Equal(t, DefaultPath, cfg.Path)
	assert.Equal(t, db.IsolationImmediate, cfg.Isolation)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.False(t, cfg.Safe)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Adapters)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hurley.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: duckdb
path: /tmp/test.db
safe: true
adapters:
  - memtable
  - csvfile
params:
  csvfile:
    comma: ";"
`), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Backend)
	assert.Equal(t, "/tmp/test.db", cfg.Path)
	assert.True(t, cfg.Safe)
	assert.Equal(t, []string{"memtable", "csvfile"}, cfg.Adapters)
	assert.Equal(t, ";", cfg.Params["csvfile"]["comma"])

	// Unset keys keep their defaults.
	assert.Equal(t, db.IsolationImmediate, cfg.Isolation)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load("/nope/missing.yaml", nil)
	require.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HURLEY_BACKEND", "duckdb")
	t.Setenv("HURLEY_FORMAT", "json")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Backend)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, DefaultPath, cfg.Path)
}

func TestLoadFlagOverrides(t *testing.T) {
	t.Setenv("HURLEY_BACKEND", "duckdb")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	flags.String("isolation", "", "")
	require.NoError(t, flags.Set("backend", "sqlite"))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	// Explicitly-set flags win over the environment; untouched flags
	// do not clobber lower layers.
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, db.IsolationImmediate, cfg.Isolation)
}

func TestOptions(t *testing.T) {
	cfg := &Config{
		Backend:   "duckdb",
		Adapters:  []string{"memtable"},
		Safe:      true,
		Isolation: db.IsolationDeferred,
		Params:    map[string]map[string]any{"memtable": {"k": "v"}},
	}

	opts := cfg.Options()
	assert.Equal(t, "duckdb", opts.Backend)
	assert.Equal(t, []string{"memtable"}, opts.Adapters)
	assert.True(t, opts.Safe)
	assert.Equal(t, db.IsolationDeferred, opts.IsolationLevel)
	assert.Equal(t, "v", opts.AdapterArgs["memtable"]["k"])

	// An empty adapters list stays nil so resolution sees "all".
	opts = (&Config{}).Options()
	assert.Nil(t, opts.Adapters)
}
