package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultBaseURL is the public origin the demo talks to
	DefaultBaseURL = "https://dummyjson.com"
	// DefaultTimeout is the per-request timeout of the gateway
	DefaultTimeout = 10 * time.Second

	DefaultProductPageSize = 5
	DefaultUserPageSize    = 6
	DefaultTodoPageSize    = 10

	// EnvBaseURL overrides Settings.BaseURL when set
	EnvBaseURL = "SHOPDEMO_BASE_URL"
)

var (
	// ConfigDir is the global configuration directory (~/.shopdemo)
	ConfigDir string

	// DatabasePath is the SQLite database file for the call log
	DatabasePath string

	// LogFile receives diagnostics while the interactive view owns the terminal
	LogFile string

	// SettingsFile is the default settings file
	SettingsFile string
)

// Settings holds the user-tunable options
type Settings struct {
	BaseURL         string   `json:"baseURL" yaml:"baseURL"`
	Timeout         Duration `json:"timeout" yaml:"timeout"`
	ProductPageSize int      `json:"productPageSize" yaml:"productPageSize"`
	UserPageSize    int      `json:"userPageSize" yaml:"userPageSize"`
	TodoPageSize    int      `json:"todoPageSize" yaml:"todoPageSize"`
	Analytics       bool     `json:"analytics" yaml:"analytics"`
	LogLevel        string   `json:"logLevel" yaml:"logLevel"`
}

// Duration accepts "10s" style strings or plain milliseconds
type Duration time.Duration

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	var ms int64
	if _, err := fmt.Sscanf(s, "%d", &ms); err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.parse(value.Value)
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	return d.parse(strings.Trim(string(data), `"`))
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// DefaultSettings returns the settings used when no file is present
func DefaultSettings() Settings {
	return Settings{
		BaseURL:         DefaultBaseURL,
		Timeout:         Duration(DefaultTimeout),
		ProductPageSize: DefaultProductPageSize,
		UserPageSize:    DefaultUserPageSize,
		TodoPageSize:    DefaultTodoPageSize,
		Analytics:       false,
		LogLevel:        "info",
	}
}

// Initialize sets up the configuration directory and path globals
// It creates ~/.shopdemo/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	return InitializeAt(filepath.Join(homeDir, ".shopdemo"))
}

// InitializeAt is Initialize rooted at an explicit directory
func InitializeAt(dir string) error {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "shopdemo.db")
	LogFile = filepath.Join(ConfigDir, "shopdemo.log")
	SettingsFile = filepath.Join(ConfigDir, "config.yaml")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}

// ResolveSettingsPath returns the settings file to load: a local config.yaml/config.jsonc
// in the working directory wins over the global one. Empty when none exists.
func ResolveSettingsPath() string {
	candidates := []string{"config.yaml", "config.yml", "config.jsonc"}
	if ConfigDir != "" {
		for _, name := range []string{"config.yaml", "config.yml", "config.jsonc"} {
			candidates = append(candidates, filepath.Join(ConfigDir, name))
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadSettings reads settings from path on top of the defaults. An empty path yields the
// defaults. The SHOPDEMO_BASE_URL environment variable is applied last.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("failed to read settings file: %w", err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("failed to parse YAML settings: %w", err)
			}
		case ".json", ".jsonc":
			if err := json.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
				return s, fmt.Errorf("failed to parse JSON settings: %w", err)
			}
		default:
			return s, fmt.Errorf("unsupported settings file format: %s (use .yaml, .yml, .json or .jsonc)", filepath.Ext(path))
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		s.BaseURL = v
	}

	return s, s.normalize()
}

// normalize fills zero values with defaults and validates the rest
func (s *Settings) normalize() error {
	d := DefaultSettings()
	if s.BaseURL == "" {
		s.BaseURL = d.BaseURL
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.Timeout <= 0 {
		s.Timeout = d.Timeout
	}
	if s.ProductPageSize <= 0 {
		s.ProductPageSize = d.ProductPageSize
	}
	if s.UserPageSize <= 0 {
		s.UserPageSize = d.UserPageSize
	}
	if s.TodoPageSize <= 0 {
		s.TodoPageSize = d.TodoPageSize
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	if !strings.HasPrefix(s.BaseURL, "http://") && !strings.HasPrefix(s.BaseURL, "https://") {
		return fmt.Errorf("invalid baseURL %q: must start with http:// or https://", s.BaseURL)
	}
	return nil
}

// RequestTimeout returns the timeout as a time.Duration
func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.Timeout)
}
