// Package config loads quicknotes settings from a YAML file.
// Environment variables in the form ${VAR} are expanded before parsing and
// duration strings are parsed after.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongodb"
)

// Config is the complete quicknotes configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Watch   WatchConfig   `yaml:"watch"`
	Backup  BackupConfig  `yaml:"backup"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects and locates the note store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path is the SQLite database file.
	Path string `yaml:"path"`
	// DSN is the connection string for postgres, mysql and mongodb.
	DSN string `yaml:"dsn"`
	// Database is the MongoDB database name.
	Database string `yaml:"database"`
}

// WatchConfig controls detection of writes made by other processes.
type WatchConfig struct {
	Enabled      bool          `yaml:"enabled"`
	PollInterval time.Duration `yaml:"-"`

	PollIntervalRaw string `yaml:"poll_interval"`
}

// BackupConfig controls scheduled SQLite backups.
type BackupConfig struct {
	// Schedule is a cron spec; empty disables scheduled backups.
	Schedule string `yaml:"schedule"`
	Dir      string `yaml:"dir"`
	Keep     int    `yaml:"keep"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives logs instead of stderr. The TUI discards logs unless set.
	File string `yaml:"file"`
}

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// DefaultPath is ~/.config/quicknotes/config.yaml.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".config", "quicknotes", "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	data := filepath.Join(homeDir(), ".local", "share", "quicknotes")
	return &Config{
		Store: StoreConfig{
			Driver:   DriverSQLite,
			Path:     filepath.Join(data, "notes.db"),
			Database: "quicknotes",
		},
		Watch: WatchConfig{
			Enabled:         true,
			PollInterval:    2 * time.Second,
			PollIntervalRaw: "2s",
		},
		Backup: BackupConfig{
			Dir:  filepath.Join(data, "backups"),
			Keep: 7,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads the configuration file at path. Values missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML configuration over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}
	cfg.Store.Path = ExpandHome(cfg.Store.Path)
	cfg.Backup.Dir = ExpandHome(cfg.Backup.Dir)
	cfg.Logging.File = ExpandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envVar = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	return envVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}"))
	})
}

func parseDurations(cfg *Config) error {
	if cfg.Watch.PollIntervalRaw == "" {
		cfg.Watch.PollInterval = 0
		return nil
	}
	d, err := time.ParseDuration(cfg.Watch.PollIntervalRaw)
	if err != nil {
		return fmt.Errorf("watch.poll_interval: %w", err)
	}
	cfg.Watch.PollInterval = d
	return nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	case DriverPostgres, DriverMySQL, DriverMongo:
		if c.Store.DSN == "" {
			problems = append(problems, fmt.Sprintf("store.dsn is required for the %s driver", c.Store.Driver))
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver must be one of sqlite, postgres, mysql, mongodb (got %q)", c.Store.Driver))
	}

	if c.Watch.PollInterval < 0 {
		problems = append(problems, "watch.poll_interval must not be negative")
	}

	if c.Backup.Schedule != "" {
		if c.Store.Driver != DriverSQLite {
			problems = append(problems, "backup.schedule is only supported with the sqlite driver")
		}
		if _, err := cron.ParseStandard(c.Backup.Schedule); err != nil {
			problems = append(problems, fmt.Sprintf("backup.schedule is not a valid cron spec: %v", err))
		}
		if c.Backup.Dir == "" {
			problems = append(problems, "backup.dir is required when backup.schedule is set")
		}
	}
	if c.Backup.Keep < 0 {
		problems = append(problems, "backup.keep must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json (got %q)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return &ValidationError{Errors: problems}
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
