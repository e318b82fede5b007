// Package config loads user settings from ~/.config/vibeselect/config.json.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avitaltamir/vibeselect/internal/lsp"
)

const (
	configDirName  = ".config"
	appDirName     = "vibeselect"
	configFileName = "config.json"
)

// Config holds user settings. Zero fields mean "use the default".
type Config struct {
	// ProviderTimeoutMS bounds one selection range request.
	ProviderTimeoutMS int `json:"provider_timeout_ms,omitempty"`
	// PruneIntervalSec is how often stale cache entries are evicted.
	PruneIntervalSec int `json:"prune_interval_sec,omitempty"`
	// Servers overrides or extends the built-in language server table.
	// An entry with an empty command disables that language.
	Servers map[string]lsp.ServerConfig `json:"servers,omitempty"`
	// DisableLSP uses only the local syntax selector.
	DisableLSP bool `json:"disable_lsp,omitempty"`
	// LogLevel is one of none, critical, error, warning, notice, info, debug.
	LogLevel string `json:"log_level,omitempty"`
	// Theme names the color theme.
	Theme string `json:"theme,omitempty"`
}

// Default returns the settings used on first run.
func Default() Config {
	return Config{
		ProviderTimeoutMS: 1000,
		PruneIntervalSec:  60,
		LogLevel:          "warning",
	}
}

var verbosities = map[string]int{
	"none":     -4,
	"critical": -3,
	"error":    -2,
	"warning":  -1,
	"notice":   0,
	"info":     1,
	"debug":    2,
}

// ProviderTimeout returns the request timeout.
func (c Config) ProviderTimeout() time.Duration {
	if c.ProviderTimeoutMS <= 0 {
		return time.Duration(Default().ProviderTimeoutMS) * time.Millisecond
	}
	return time.Duration(c.ProviderTimeoutMS) * time.Millisecond
}

// PruneInterval returns the cache pruning period.
func (c Config) PruneInterval() time.Duration {
	if c.PruneIntervalSec <= 0 {
		return time.Duration(Default().PruneIntervalSec) * time.Second
	}
	return time.Duration(c.PruneIntervalSec) * time.Second
}

// EffectiveServers merges the configured servers over the built-in table.
func (c Config) EffectiveServers() map[string]lsp.ServerConfig {
	return lsp.MergeServers(lsp.DefaultServers(), c.Servers)
}

// Verbosity maps LogLevel to a commonlog verbosity.
func (c Config) Verbosity() int {
	if v, ok := verbosities[strings.ToLower(c.LogLevel)]; ok {
		return v
	}
	return verbosities[Default().LogLevel]
}

// Validate reports settings that cannot be honoured.
func (c Config) Validate() error {
	if c.LogLevel != "" {
		if _, ok := verbosities[strings.ToLower(c.LogLevel)]; !ok {
			return fmt.Errorf("unknown log level %q", c.LogLevel)
		}
	}
	if c.ProviderTimeoutMS < 0 {
		return fmt.Errorf("provider_timeout_ms must not be negative")
	}
	if c.PruneIntervalSec < 0 {
		return fmt.Errorf("prune_interval_sec must not be negative")
	}
	return nil
}

// configDir returns the path to the config directory (~/.config/vibeselect).
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, appDirName), nil
}

// Path returns the global path to the config file.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the global config file.
// Returns defaults if the file doesn't exist or can't be read.
func Load() Config {
	path, err := Path()
	if err != nil {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads a config file over the defaults.
// Returns defaults if the file doesn't exist or is invalid.
func LoadFile(path string) Config {
	f, err := os.Open(path)
	if err != nil {
		return Default()
	}
	defer f.Close()

	c, err := LoadFrom(f)
	if err != nil {
		return Default()
	}
	return c
}

// LoadFrom decodes JSON settings over the defaults.
func LoadFrom(r io.Reader) (Config, error) {
	c := Default()
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return Default(), fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Default(), err
	}
	return c, nil
}

// Save writes c to path, creating its directory.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
