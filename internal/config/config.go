// Package config loads client configuration from an optional YAML file with
// environment overrides. Command-line flags are layered on top by the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the client settings.
type Config struct {
	// ServerURL is the backend base URL.
	ServerURL string `yaml:"server_url"`
	// Timeout bounds every HTTP call at the transport level.
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ServerURL: "http://localhost:8080",
		Timeout:   30 * time.Second,
	}
}

// DefaultPath returns the standard config file location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "shopcart", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shopcart", "config.yaml")
}

// UnmarshalYAML parses Timeout from a duration string ("30s", "1m").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ServerURL string `yaml:"server_url"`
		Timeout   string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.ServerURL != "" {
		c.ServerURL = raw.ServerURL
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

// Load merges defaults, the YAML file at path (DefaultPath when empty; a
// missing file is fine) and environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if v := os.Getenv("SHOP_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("SHOP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SHOP_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
