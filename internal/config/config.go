// Package config loads the CLI configuration: a YAML file, overridden by
// environment variables, overridden by flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultEndpoint = "https://sourcegraph.com"

const (
	envEndpoint    = "SRC_ENDPOINT"
	envAccessToken = "SRC_ACCESS_TOKEN"
)

type Config struct {
	// Endpoint is the code search instance, without the API path.
	Endpoint    string `yaml:"endpoint"`
	AccessToken string `yaml:"access_token"`
	// LightTheme forces light styles instead of detecting the terminal
	// background.
	LightTheme *bool `yaml:"light_theme,omitempty"`
}

func Default() *Config {
	return &Config{Endpoint: DefaultEndpoint}
}

// DefaultPath is $XDG_CONFIG_HOME/indexconf/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".indexconf", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "indexconf", "config.yaml")
}

// Load reads path if it exists and applies environment overrides. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(envAccessToken); v != "" {
		c.AccessToken = v
	}
}

// Save writes c to path, creating the directory. The file holds a token, so
// it is only readable by the owner.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
