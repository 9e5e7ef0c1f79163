package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/gerunddev/mdsite/internal/logger"
	"gopkg.in/yaml.v3"
)

// LocalConfigFile is picked up from the working directory before the XDG path
const LocalConfigFile = "mdsite.yaml"

// Config represents the mdsite configuration
type Config struct {
	ContentDir   string        `yaml:"content_dir"`
	StaticDir    string        `yaml:"static_dir"`
	PublicDir    string        `yaml:"public_dir"`
	Template     string        `yaml:"template"`
	ManifestFile string        `yaml:"manifest_file"`
	LogFile      string        `yaml:"log_file,omitempty"`
	LogLevel     string        `yaml:"log_level"`
	Interval     time.Duration `yaml:"-"` // Custom YAML handling below
	Incremental  bool          `yaml:"incremental"`
	Sanitize     bool          `yaml:"sanitize"`
}

// rawConfig mirrors Config on disk, with the interval as a duration string
type rawConfig struct {
	ContentDir   string `yaml:"content_dir"`
	StaticDir    string `yaml:"static_dir"`
	PublicDir    string `yaml:"public_dir"`
	Template     string `yaml:"template"`
	ManifestFile string `yaml:"manifest_file"`
	LogFile      string `yaml:"log_file,omitempty"`
	LogLevel     string `yaml:"log_level"`
	Interval     string `yaml:"interval"`
	Incremental  bool   `yaml:"incremental"`
	Sanitize     bool   `yaml:"sanitize"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		ContentDir:   "content",
		StaticDir:    "static",
		PublicDir:    "public",
		Template:     "template.html",
		ManifestFile: filepath.Join(".mdsite", "manifest.json"),
		LogLevel:     "info",
		Interval:     2 * time.Second,
	}
}

// ConfigPath returns the path to the config file.
// A mdsite.yaml in the working directory wins over the XDG config path.
// Can be overridden for testing.
var ConfigPath = func() string {
	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile
	}
	return filepath.Join(xdg.ConfigHome, "mdsite", "config.yaml")
}

// Load reads configuration from ConfigPath
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads configuration from path.
// A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		raw := cfg.raw()
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}

		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
		}

		cfg = &Config{
			ContentDir:   raw.ContentDir,
			StaticDir:    raw.StaticDir,
			PublicDir:    raw.PublicDir,
			Template:     raw.Template,
			ManifestFile: raw.ManifestFile,
			LogFile:      raw.LogFile,
			LogLevel:     raw.LogLevel,
			Interval:     interval,
			Incremental:  raw.Incremental,
			Sanitize:     raw.Sanitize,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.CheckPublicDir(path); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) raw() rawConfig {
	return rawConfig{
		ContentDir:   c.ContentDir,
		StaticDir:    c.StaticDir,
		PublicDir:    c.PublicDir,
		Template:     c.Template,
		ManifestFile: c.ManifestFile,
		LogFile:      c.LogFile,
		LogLevel:     c.LogLevel,
		Interval:     c.Interval.String(),
		Incremental:  c.Incremental,
		Sanitize:     c.Sanitize,
	}
}

// Save writes configuration to ConfigPath
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

// SaveFile writes configuration to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c.raw())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir cannot be empty")
	}
	if c.StaticDir == "" {
		return fmt.Errorf("static_dir cannot be empty")
	}
	if c.PublicDir == "" {
		return fmt.Errorf("public_dir cannot be empty")
	}
	switch filepath.Clean(c.PublicDir) {
	case ".", "..", "~", string(filepath.Separator):
		return fmt.Errorf("public_dir '%s' would clean the site itself", c.PublicDir)
	}
	if c.Template == "" {
		return fmt.Errorf("template cannot be empty")
	}
	if c.ManifestFile == "" {
		return fmt.Errorf("manifest_file cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// Level returns the configured log level
func (c *Config) Level() log.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

type guardedPath struct {
	name string
	path string
}

// CheckPublicDir rejects a public_dir that equals or contains anything a
// full build must keep: the sources, the template, the manifest, the log
// and config files, the working directory and the home directory.
func (c *Config) CheckPublicDir(configPath string) error {
	public, err := filepath.Abs(c.PublicDir)
	if err != nil {
		return err
	}

	guarded := []guardedPath{
		{"content_dir", c.ContentDir},
		{"static_dir", c.StaticDir},
		{"template", c.Template},
		{"manifest_file", c.ManifestFile},
		{"log_file", c.LogFile},
		{"config file", configPath},
	}
	if wd, err := os.Getwd(); err == nil {
		guarded = append(guarded, guardedPath{"working directory", wd})
	}
	if home, err := os.UserHomeDir(); err == nil {
		guarded = append(guarded, guardedPath{"home directory", home})
	}

	for _, g := range guarded {
		if g.path == "" {
			continue
		}
		p, err := filepath.Abs(g.path)
		if err != nil {
			return err
		}
		if Within(public, p) {
			return fmt.Errorf("public_dir %s must not contain the %s (%s)", public, g.name, p)
		}
	}

	return nil
}

// Within reports whether path is dir itself or lies below it
func Within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	paths := []struct {
		name string
		path *string
	}{
		{"content_dir", &c.ContentDir},
		{"static_dir", &c.StaticDir},
		{"public_dir", &c.PublicDir},
		{"template", &c.Template},
		{"manifest_file", &c.ManifestFile},
		{"log_file", &c.LogFile},
	}

	for _, p := range paths {
		expanded, err := expandPath(*p.path)
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", p.name, err)
		}
		*p.path = expanded
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	return filepath.Abs(path)
}
