// Package config loads CLI configuration for hurley.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/hurley/pkg/db"
)

// Config holds all CLI configuration options.
type Config struct {
	// Backend names the engine backend ("sqlite" or "duckdb").
	Backend string `koanf:"backend"`

	// Path is the data-source locator, conventionally ":memory:".
	Path string `koanf:"path"`

	// Adapters restricts the adapter set; empty means all available,
	// subject to Safe.
	Adapters []string `koanf:"adapters"`

	// Safe enables the safety policy.
	Safe bool `koanf:"safe"`

	// Isolation is the transaction isolation level, or "none".
	Isolation string `koanf:"isolation"`

	// Params holds adapter-specific configuration keyed by adapter
	// name.
	Params map[string]map[string]any `koanf:"params"`

	// Format is the default output format (table, json, csv, md).
	Format string `koanf:"format"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultPath   = ":memory:"
	DefaultFormat = "table"
)

// ConfigFileName is the config file looked up in the working directory.
const ConfigFileName = "hurley.yaml"

// ConfigFileNameAlt is the alternate config file name.
const ConfigFileNameAlt = "hurley.yml"

// Load builds the configuration from defaults, an optional config file,
// HURLEY_-prefixed environment variables, and explicitly-set flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"backend":   db.DefaultBackend,
		"path":      DefaultPath,
		"isolation": db.IsolationImmediate,
		"format":    DefaultFormat,
		"verbose":   false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		cfgFile = findConfigFile()
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider("HURLEY_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "HURLEY_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// Options converts the configuration into connection options.
func (c *Config) Options() db.Options {
	var adapters []string
	if len(c.Adapters) > 0 {
		adapters = c.Adapters
	}
	return db.Options{
		Adapters:       adapters,
		AdapterArgs:    c.Params,
		Safe:           c.Safe,
		IsolationLevel: c.Isolation,
		Backend:        c.Backend,
	}
}

func findConfigFile() string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
