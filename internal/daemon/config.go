// Package daemon wires the credit-book service together: configuration,
// storage, change feed, metrics, and the HTTP API server.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ─── Configuration ──────────────────────────────────────────────────────────

// Config is the daemon configuration, loaded from ~/.tallybook/config.toml.
type Config struct {
	API   APIConfig   `toml:"api"`
	Store StoreConfig `toml:"store"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// StoreConfig configures persistence.
type StoreConfig struct {
	// Dir is the data directory; empty means <home>/data.
	Dir string `toml:"dir"`
}

// DefaultConfig returns the configuration a fresh install runs with.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    7680,
			Metrics: true,
		},
		Store: StoreConfig{},
	}
}

// Addr returns the host:port the API server binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// DataDir resolves the storage directory against the tallybook home.
func (c Config) DataDir() string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	return filepath.Join(Home(), "data")
}

// Home returns the tallybook home directory. TALLYBOOK_HOME overrides the
// default ~/.tallybook.
func Home() string {
	if home := os.Getenv("TALLYBOOK_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".tallybook"
	}
	return filepath.Join(userHome, ".tallybook")
}

// ConfigPath returns the path of the config file inside the home directory.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// LoadConfig reads the config file, falling back to defaults when it does
// not exist. Unset fields keep their default values.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config file, creating the home directory if needed.
func SaveConfig(cfg Config) error {
	if err := os.MkdirAll(Home(), 0700); err != nil {
		return fmt.Errorf("create home directory: %w", err)
	}

	f, err := os.Create(ConfigPath())
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
