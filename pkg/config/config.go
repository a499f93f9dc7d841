package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/virtualviews/pkg/errors"
	"github.com/odvcencio/virtualviews/pkg/logging"
)

const (
	dirName  = ".virtualviews"
	fileName = "config.yaml"
)

// Apps that can be hosted by the CLI.
var knownApps = map[string]bool{
	"hello":   true,
	"counter": true,
	"todos":   true,
	"gif":     true,
}

// Config represents the complete virtualviews configuration
type Config struct {
	App     string        `yaml:"app"`
	Logging LoggingConfig `yaml:"logging"`
	Network NetworkConfig `yaml:"network"`
	Store   StoreConfig   `yaml:"store"`
	Bus     BusConfig     `yaml:"bus"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
	UI      UIConfig      `yaml:"ui"`
	Gif     GifConfig     `yaml:"gif"`
}

// LoggingConfig controls the JSONL session logs.
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// NetworkConfig configures the HTTP collaborator used by Request commands.
type NetworkConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	UserAgent         string        `yaml:"user_agent"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

// BusConfig selects between the in-process bus and NATS.
type BusConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Name          string `yaml:"name"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// UIConfig holds app presentation knobs.
type UIConfig struct {
	// Split renders the todos app as a split view.
	Split bool `yaml:"split"`

	// Tick is the counter auto-increment interval. Zero disables it.
	Tick time.Duration `yaml:"tick"`
}

type GifConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		App: "todos",
		Logging: LoggingConfig{
			Dir:   filepath.Join("~", dirName, "logs"),
			Level: "info",
		},
		Network: NetworkConfig{
			Timeout:           15 * time.Second,
			RequestsPerSecond: 4,
			Burst:             2,
			UserAgent:         "virtualviews",
		},
		Store: StoreConfig{
			Path: filepath.Join("~", dirName, "state.db"),
		},
		Bus: BusConfig{
			Enabled:       false,
			URL:           "nats://127.0.0.1:4222",
			Name:          "virtualviews",
			SubjectPrefix: "virtualviews",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9464",
		},
		UI: UIConfig{
			Tick: time.Second,
		},
		Gif: GifConfig{
			Endpoint: "https://api.giphy.com/v1/gifs/random?api_key=dc6zaTOxFJmzC",
		},
	}
}

// UserConfigPath returns ~/.virtualviews/config.yaml, or "" when the home
// directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to HOME env var if UserHomeDir fails
		home = os.Getenv("HOME")
	}
	if strings.TrimSpace(home) == "" {
		return ""
	}
	return filepath.Join(home, dirName, fileName)
}

func ProjectConfigPath() string {
	return filepath.Join(".", dirName, fileName)
}

// Load loads configuration from all sources with proper precedence:
// defaults, user file, project file, environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if userConfigPath := UserConfigPath(); userConfigPath != "" {
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "loading user config").
				WithContext("path", userConfigPath)
		}
	}

	projectConfigPath := ProjectConfigPath()
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "loading project config").
			WithContext("path", projectConfigPath)
	}

	applyEnvOverrides(cfg)
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "loading config").
			WithContext("path", path)
	}

	applyEnvOverrides(cfg)
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if app := strings.TrimSpace(os.Getenv("VIRTUALVIEWS_APP")); app != "" {
		cfg.App = app
	}
	if dir := strings.TrimSpace(os.Getenv("VIRTUALVIEWS_LOG_DIR")); dir != "" {
		cfg.Logging.Dir = dir
	}
	if level := strings.TrimSpace(os.Getenv("VIRTUALVIEWS_LOG_LEVEL")); level != "" {
		cfg.Logging.Level = level
	}
	if path := strings.TrimSpace(os.Getenv("VIRTUALVIEWS_STORE_PATH")); path != "" {
		cfg.Store.Path = path
	}
	if timeout := strings.TrimSpace(os.Getenv("VIRTUALVIEWS_NETWORK_TIMEOUT")); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Network.Timeout = d
		}
	}
	if rps := strings.TrimSpace(os.Getenv("VIRTUALVIEWS_REQUESTS_PER_SECOND")); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil {
			cfg.Network.RequestsPerSecond = v
		}
	}
	if enabled, ok := envBool("VIRTUALVIEWS_BUS_ENABLED"); ok {
		cfg.Bus.Enabled = enabled
	}
	if url := strings.TrimSpace(os.Getenv("VIRTUALVIEWS_NATS_URL")); url != "" {
		cfg.Bus.URL = url
		cfg.Bus.Enabled = true
	}
	if enabled, ok := envBool("VIRTUALVIEWS_METRICS_ENABLED"); ok {
		cfg.Metrics.Enabled = enabled
	}
	if listen := strings.TrimSpace(os.Getenv("VIRTUALVIEWS_METRICS_LISTEN")); listen != "" {
		cfg.Metrics.Listen = listen
	}
	if enabled, ok := envBool("VIRTUALVIEWS_TRACING"); ok {
		cfg.Tracing.Enabled = enabled
	}
	if split, ok := envBool("VIRTUALVIEWS_SPLIT"); ok {
		cfg.UI.Split = split
	}
	if endpoint := strings.TrimSpace(os.Getenv("VIRTUALVIEWS_GIF_ENDPOINT")); endpoint != "" {
		cfg.Gif.Endpoint = endpoint
	}
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func (c *Config) expandPaths() {
	c.Logging.Dir = expandHomeDir(c.Logging.Dir)
	if c.Store.Path != ":memory:" {
		c.Store.Path = expandHomeDir(c.Store.Path)
	}
}

// Validate checks the configuration for values the CLI cannot run with.
func (c *Config) Validate() error {
	invalid := func(field string, value any, msg string) *errors.Error {
		return errors.New(errors.ErrCodeConfigInvalid, msg).
			WithContext("field", field).
			WithContext("value", value)
	}

	if !knownApps[c.App] {
		return invalid("app", c.App, "unknown app (valid: hello, counter, todos, gif)").
			WithRemediation("set app in .virtualviews/config.yaml or VIRTUALVIEWS_APP")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", c.Logging.Level, "invalid log level (valid: debug, info, warn, error)")
	}
	if c.Network.Timeout <= 0 {
		return invalid("network.timeout", c.Network.Timeout, "network timeout must be positive")
	}
	if c.Network.RequestsPerSecond < 0 {
		return invalid("network.requests_per_second", c.Network.RequestsPerSecond, "requests per second cannot be negative")
	}
	if c.Network.RequestsPerSecond > 0 && c.Network.Burst < 1 {
		return invalid("network.burst", c.Network.Burst, "burst must be at least 1 when rate limiting is enabled")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return invalid("store.path", c.Store.Path, "store path is required")
	}
	if c.Bus.Enabled && strings.TrimSpace(c.Bus.URL) == "" {
		return invalid("bus.url", c.Bus.URL, "bus url is required when the bus is enabled")
	}
	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			return invalid("metrics.listen", c.Metrics.Listen, "metrics listen address must be host:port")
		}
	}
	if c.UI.Tick < 0 {
		return invalid("ui.tick", c.UI.Tick, "tick cannot be negative")
	}
	if c.App == "gif" && strings.TrimSpace(c.Gif.Endpoint) == "" {
		return invalid("gif.endpoint", c.Gif.Endpoint, "gif endpoint is required")
	}
	return nil
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
