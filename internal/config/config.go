// ABOUTME: Configuration loading and parsing for simplemarker
// ABOUTME: Supports YAML or TOML files with environment variable expansion and defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultMarkingsKey is the preference entry holding the marked program ids.
const DefaultMarkingsKey = "PREF_MARKINGS"

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendBlob   = "blob"
	BackendMemory = "memory"
)

// Config represents the complete simplemarker configuration
type Config struct {
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Labels  LabelsConfig  `yaml:"labels" toml:"labels"`
	Replay  ReplayConfig  `yaml:"replay" toml:"replay"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// StorageConfig selects and configures the preference backend
type StorageConfig struct {
	Backend   string `yaml:"backend" toml:"backend"`
	Path      string `yaml:"path" toml:"path"`             // sqlite database file
	BucketURL string `yaml:"bucket_url" toml:"bucket_url"` // gocloud bucket URL, e.g. file:///var/lib/marker or mem://
	Prefix    string `yaml:"prefix" toml:"prefix"`
	Key       string `yaml:"key" toml:"key"`
}

// LabelsConfig holds the context menu labels shown by the host
type LabelsConfig struct {
	Mark   string `yaml:"mark" toml:"mark"`
	Unmark string `yaml:"unmark" toml:"unmark"`
}

// ReplayConfig bounds the cache that answers resubmitted host requests
type ReplayConfig struct {
	TTLSeconds int `yaml:"ttl_seconds" toml:"ttl_seconds"`
	MaxEntries int `yaml:"max_entries" toml:"max_entries"`
}

// TTL returns TTLSeconds as a duration.
func (r ReplayConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns a configuration using the sqlite backend stored under dataDir.
func Default(dataDir string) *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(dataDir, "markings.db"),
			Key:     DefaultMarkingsKey,
		},
		Labels: LabelsConfig{
			Mark:   "Mark",
			Unmark: "Unmark",
		},
		Replay: ReplayConfig{
			TTLSeconds: 300,
			MaxEntries: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded before decoding.
// Unset fields fall back to Default(dataDir).
func Load(path, dataDir string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	cfg := Default(dataDir)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expandedData, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite backend")
		}
	case BackendBlob:
		if c.Storage.BucketURL == "" {
			return fmt.Errorf("storage.bucket_url is required for the blob backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q is not one of sqlite, blob, memory", c.Storage.Backend)
	}

	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}

	if c.Labels.Mark == "" || c.Labels.Unmark == "" {
		return fmt.Errorf("labels.mark and labels.unmark must not be empty")
	}

	if c.Replay.TTLSeconds <= 0 || c.Replay.MaxEntries <= 0 {
		return fmt.Errorf("replay.ttl_seconds and replay.max_entries must be positive")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	return nil
}
