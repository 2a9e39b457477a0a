package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL = "http://localhost:8080/api"
	DefaultTheme  = "classic"

	fileName = "config.toml"
)

type Config struct {
	APIURL  string
	Timeout time.Duration // zero means requests never time out
	Theme   string
	Debug   bool
	Dir     string // where config.toml, credentials.json and debug.log live
}

type tomlConfig struct {
	APIURL  string `toml:"api_url"`
	Timeout string `toml:"timeout"`
	Theme   string `toml:"theme"`
	Debug   *bool  `toml:"debug"`
}

// Dir returns the configuration directory, ~/.config/checklist unless
// CHECKLIST_CONFIG_DIR points elsewhere.
func Dir() string {
	if d := strings.TrimSpace(os.Getenv("CHECKLIST_CONFIG_DIR")); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "checklist")
}

// Load builds the configuration from defaults, config.toml, a .env file in
// the working directory and CHECKLIST_* environment variables, in that order.
func Load() (*Config, error) {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		APIURL: DefaultAPIURL,
		Theme:  DefaultTheme,
		Dir:    Dir(),
	}

	path := filepath.Join(cfg.Dir, fileName)
	if _, err := os.Stat(path); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(path, &tc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := cfg.apply(tc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(tc tomlConfig) error {
	if tc.APIURL != "" {
		c.APIURL = tc.APIURL
	}
	if tc.Timeout != "" {
		d, err := time.ParseDuration(tc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	if tc.Theme != "" {
		c.Theme = tc.Theme
	}
	if tc.Debug != nil {
		c.Debug = *tc.Debug
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("CHECKLIST_API_URL")); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKLIST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHECKLIST_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv("CHECKLIST_THEME")); v != "" {
		c.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKLIST_DEBUG")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHECKLIST_DEBUG: %w", err)
		}
		c.Debug = b
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return nil
}

// LogPath is the debug log written while the TUI owns the terminal.
func (c *Config) LogPath() string { return filepath.Join(c.Dir, "debug.log") }

// CredentialsPath is where the file session store keeps tokens.
func (c *Config) CredentialsPath() string { return filepath.Join(c.Dir, "credentials.json") }
