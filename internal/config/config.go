// Package config provides unified configuration management for rehabai.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → env vars → local file → CLI flags
package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wholes0meglock/rehab-ai/internal/dirs"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// Config holds all configuration settings for rehabai.
// Fields ending in *Set track whether that field was explicitly set in config.
// This allows distinguishing explicit false/0 from "not set", enabling proper
// merge behavior where local config can override global config with zero values.
type Config struct {
	// ServerURL is the base URL of the plan-generation service.
	ServerURL string `yaml:"server_url"`

	// Timeout is the client-side deadline for a generation request, seconds.
	Timeout int `yaml:"timeout"`

	// HideTips hides the tips section in the TUI.
	HideTips bool `yaml:"hide_tips"`

	// Set tracking for merge behavior
	TimeoutSet  bool `yaml:"-"`
	HideTipsSet bool `yaml:"-"`

	// Private: track where config was loaded from
	configDir string
	localDir  string
	sources   []string
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// LocalDir returns the local project config directory if one was detected.
func (c *Config) LocalDir() string {
	return c.localDir
}

// Load loads all configuration from the default locations.
// It auto-detects .rehabai/ in the current working directory for local
// overrides and installs defaults if needed.
func Load() (*Config, error) {
	globalDir := DefaultConfigDir()

	var localDir string
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, ".rehabai")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			localDir = candidate
		}
	}

	return LoadWithDirs(globalDir, localDir)
}

// LoadWithDirs loads configuration with explicit global and local directories.
// Local config (.rehabai/) overrides global config (~/.config/rehabai/)
// per-field. If localDir is empty, only global config is used.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	if err := InstallDefaults(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	// Load in order: embedded → global → env → local
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	globalPath := filepath.Join(globalDir, "config.yaml")
	if globalCfg, err := loadFile(globalPath); err == nil {
		cfg.mergeFrom(globalCfg)
		cfg.sources = append(cfg.sources, globalPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	cfg.applyEnv()

	if localDir != "" {
		localPath := filepath.Join(localDir, "config.yaml")
		if localCfg, err := loadFile(localPath); err == nil {
			cfg.mergeFrom(localCfg)
			cfg.sources = append(cfg.sources, localPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir

	return cfg, nil
}

// DefaultConfigDir returns the default global configuration directory path.
func DefaultConfigDir() string {
	return dirs.ConfigDir()
}

// InstallDefaults creates the config directory and installs the default
// config file if not exists.
func InstallDefaults(configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := defaultsFS.ReadFile("defaults/config.yaml")
		if err != nil {
			return fmt.Errorf("read embedded config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	return nil
}

// Validate checks that the resolved configuration is usable.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url must not be empty")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server_url %q is not a valid URL", c.ServerURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	return nil
}

func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML config and tracks which fields were set.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if _, ok := raw["timeout"]; ok {
		cfg.TimeoutSet = true
	}
	if _, ok := raw["hide_tips"]; ok {
		cfg.HideTipsSet = true
	}

	return cfg, nil
}

// applyEnv applies environment variables to the config.
// Env vars sit between global and local config in precedence.
func (c *Config) applyEnv() {
	if v := os.Getenv("REHABAI_SERVER_URL"); v != "" {
		c.ServerURL = v
		c.sources = append(c.sources, "env:REHABAI_SERVER_URL")
	}

	if v := os.Getenv("REHABAI_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Timeout = n
			c.TimeoutSet = true
			c.sources = append(c.sources, "env:REHABAI_TIMEOUT")
		}
	}

	if v := os.Getenv("REHABAI_HIDE_TIPS"); v != "" {
		c.HideTips = v == "true" || v == "1"
		c.HideTipsSet = true
		c.sources = append(c.sources, "env:REHABAI_HIDE_TIPS")
	}
}

// mergeFrom merges non-empty/set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if src.ServerURL != "" {
		c.ServerURL = src.ServerURL
	}
	if src.TimeoutSet {
		c.Timeout = src.Timeout
		c.TimeoutSet = true
	}
	if src.HideTipsSet {
		c.HideTips = src.HideTips
		c.HideTipsSet = true
	}
}

// ApplyCLIFlags applies CLI flag overrides to the config.
// CLI flags have the highest precedence.
func (c *Config) ApplyCLIFlags(serverURL string, timeout int) {
	if serverURL != "" {
		c.ServerURL = serverURL
		c.sources = append(c.sources, "cli:server")
	}
	if timeout > 0 {
		c.Timeout = timeout
		c.TimeoutSet = true
		c.sources = append(c.sources, "cli:timeout")
	}
}
