package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL  = "http://localhost:5000"
	DefaultTimeout = 10 * time.Second
	fileName       = "config.yaml"
	dirName        = ".itemdesk"
)

// Env overrides.
const (
	EnvAPIURL   = "ITEMDESK_API_URL"
	EnvDataDir  = "ITEMDESK_DATA_DIR"
	EnvLogLevel = "ITEMDESK_LOG_LEVEL"
)

// Filter-on-reload policies.
const (
	FilterKeep  = "keep"
	FilterReset = "reset"
)

// Error is returned when the config file exists but cannot be used.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("config %s: %v", e.Path, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Config is the effective client configuration.
type Config struct {
	APIURL         string        `yaml:"api_url"`
	Timeout        time.Duration `yaml:"timeout"`
	DataDir        string        `yaml:"data_dir"`
	LogLevel       string        `yaml:"log_level"`
	Theme          string        `yaml:"theme"`
	FilterOnReload string        `yaml:"filter_on_reload"`

	path string
}

// Default returns the built-in configuration rooted at ~/.itemdesk.
func Default() Config {
	dir, err := defaultDir()
	if err != nil {
		dir = dirName
	}
	return Config{
		APIURL:         DefaultAPIURL,
		Timeout:        DefaultTimeout,
		DataDir:        dir,
		LogLevel:       "info",
		Theme:          "classic",
		FilterOnReload: FilterKeep,
	}
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	dir, err := defaultDir()
	if err != nil {
		return filepath.Join(dirName, fileName)
	}
	return filepath.Join(dir, fileName)
}

// Load reads path (or DefaultPath when empty) over the defaults and applies
// env overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	cfg.path = path

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, &Error{Path: path, Err: err}
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, &Error{Path: path, Err: err}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// Validate normalizes fields and rejects values the client cannot use.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return errors.New("api_url is empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url %q: want http:// or https://", c.APIURL)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	switch strings.ToLower(c.FilterOnReload) {
	case "", FilterKeep:
		c.FilterOnReload = FilterKeep
	case FilterReset:
		c.FilterOnReload = FilterReset
	default:
		return fmt.Errorf("filter_on_reload %q: want %q or %q", c.FilterOnReload, FilterKeep, FilterReset)
	}
	return nil
}

// Path is the file the config was loaded from (it may not exist).
func (c Config) Path() string { return c.path }

// StorePath is the local key-value store file.
func (c Config) StorePath() string { return filepath.Join(c.DataDir, "local.db") }

// LogPath is where the TUI writes its log.
func (c Config) LogPath() string { return filepath.Join(c.DataDir, "itemdesk.log") }

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
