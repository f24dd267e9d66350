// Package config provides configuration management for the gogo driver.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the driver configuration.
type Config struct {
	Driver  DriverConfig  `yaml:"driver"`
	Monitor MonitorConfig `yaml:"monitor"`
	Logging LoggingConfig `yaml:"logging"`
}

// DriverConfig contains the iteration driver settings.
type DriverConfig struct {
	// LogsDir is where per-run jsonl logs are written.
	LogsDir string `yaml:"logs_dir"`

	// PromptsDir holds the built-in prompt files.
	PromptsDir string `yaml:"prompts_dir"`

	// WorkDir is the working directory for the claude child process.
	WorkDir string `yaml:"work_dir"`

	// ClaudeBin is the claude executable name or path.
	ClaudeBin string `yaml:"claude_bin"`

	// HappyBin is the happy launcher executable name or path.
	HappyBin string `yaml:"happy_bin"`

	// SentinelFile is the error file checked after each run.
	SentinelFile string `yaml:"sentinel_file"`

	// SessionTitleFile holds the optional session title.
	SessionTitleFile string `yaml:"session_title_file"`
}

// MonitorConfig contains the status API settings.
type MonitorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains diagnostic logging settings.
type LoggingConfig struct {
	Level      string   `yaml:"level"`
	Format     string   `yaml:"format"`
	Output     []string `yaml:"output"`
	TimeFormat string   `yaml:"time_format"`
	MaxSizeMB  int      `yaml:"max_size_mb"`
	MaxBackups int      `yaml:"max_backups"`
}

// DefaultConfig returns the default configuration. Paths that are empty
// here are resolved against the driver's own directory by ResolvePaths.
func DefaultConfig() *Config {
	return &Config{
		Driver: DriverConfig{
			WorkDir:          ".",
			ClaudeBin:        "claude",
			HappyBin:         "happy",
			SentinelFile:     "error.txt",
			SessionTitleFile: ".session_title.txt",
		},
		Monitor: MonitorConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8420,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout"},
		},
	}
}

// DriverDir returns the directory containing the driver executable. Falls
// back to the current directory when the executable path is unavailable.
func DriverDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DriverDir(), "gogo.yaml")
}

// Load loads configuration from a file, merged over defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.Driver.LogsDir = expandTilde(cfg.Driver.LogsDir)
	cfg.Driver.PromptsDir = expandTilde(cfg.Driver.PromptsDir)
	cfg.Driver.WorkDir = expandTilde(cfg.Driver.WorkDir)

	return cfg, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ResolvePaths fills in the directory defaults relative to baseDir. The
// logs and prompts directories live next to the driver unless configured.
func (c *Config) ResolvePaths(baseDir string) {
	if c.Driver.LogsDir == "" {
		c.Driver.LogsDir = filepath.Join(baseDir, "logs")
	}
	if c.Driver.PromptsDir == "" {
		c.Driver.PromptsDir = filepath.Join(baseDir, "prompts")
	}
	if !filepath.IsAbs(c.Driver.SessionTitleFile) {
		c.Driver.SessionTitleFile = filepath.Join(baseDir, c.Driver.SessionTitleFile)
	}
}

// Address returns the host:port string for the status API.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Monitor.Host, c.Monitor.Port)
}

// EnsureDirectories creates the logs and prompts directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Driver.LogsDir, c.Driver.PromptsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
