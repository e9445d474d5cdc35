// Package config loads server configuration with layered precedence:
// built-in defaults, then a YAML config file, then TAPDECK_-prefixed
// environment variables, then explicitly set command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "tapdeck.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "tapdeck.yml"

// envPrefix namespaces environment variables: TAPDECK_LISTEN_ADDR sets
// listen_addr.
const envPrefix = "TAPDECK_"

// Default configuration values.
const (
	DefaultListenAddr = ":8080"
	DefaultDatabase   = "tapdeck.db"
	DefaultLockFile   = "locks.yaml"
	DefaultLogLevel   = "info"
)

// Config holds the resolved server configuration.
type Config struct {
	ListenAddr string `koanf:"listen_addr"`
	Database   string `koanf:"database"`
	LockFile   string `koanf:"lock_file"`
	LogLevel   string `koanf:"log_level"`
}

// Load resolves configuration from all layers. cfgFile may be empty, in
// which case tapdeck.yaml/tapdeck.yml in the working directory is used if
// present. flags may be nil; only flags the user actually set override
// lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"listen_addr": DefaultListenAddr,
		"database":    DefaultDatabase,
		"lock_file":   DefaultLockFile,
		"log_level":   DefaultLogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file.
	if cfgFile == "" {
		cfgFile = findConfigFile(".")
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment variables: TAPDECK_DATABASE -> database.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, highest priority. Only explicitly set flags count.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
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

// findConfigFile looks for tapdeck.yaml or tapdeck.yml in the given
// directory. Returns empty string if neither exists.
func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
