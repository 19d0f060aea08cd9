package keybinds

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// FileName is the keybinding file looked up in the config directory
const FileName = "keybinds.json"

// Config represents the user's keybinding configuration. Each section maps a key
// to an action name; an empty action unbinds the key.
type Config struct {
	Version  string            `json:"version"`
	Global   map[string]string `json:"global,omitempty"`
	Products map[string]string `json:"products,omitempty"`
	Users    map[string]string `json:"users,omitempty"`
	Status   map[string]string `json:"status,omitempty"`
	Input    map[string]string `json:"input,omitempty"`
	Form     map[string]string `json:"form,omitempty"`
	Stats    map[string]string `json:"stats,omitempty"`
}

// sections maps config sections to contexts
func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:   c.Global,
		ContextProducts: c.Products,
		ContextUsers:    c.Users,
		ContextStatus:   c.Status,
		ContextInput:    c.Input,
		ContextForm:     c.Form,
		ContextStats:    c.Stats,
	}
}

// LoadConfig loads keybinding configuration from a JSON file; comments and
// trailing commas are accepted
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", FileName, err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry.
// User bindings override default bindings.
func ApplyConfig(registry *Registry, config *Config) error {
	for context, bindings := range config.sections() {
		for key, actionStr := range bindings {
			if err := ValidateKey(key); err != nil {
				return fmt.Errorf("%s: %w", context, err)
			}
			if actionStr == "" {
				registry.Unregister(context, key)
				continue
			}
			action := Action(actionStr)
			if !action.IsKnown() {
				return fmt.Errorf("%s: unknown action %q for key %q", context, actionStr, key)
			}
			registry.Register(context, key, action)
		}
	}
	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", FileName, err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportDefaults exports default keybindings as a config file
func ExportDefaults() *Config {
	r := NewDefaultRegistry()
	config := &Config{
		Version:  "1.0",
		Global:   make(map[string]string),
		Products: make(map[string]string),
		Users:    make(map[string]string),
		Status:   make(map[string]string),
		Input:    make(map[string]string),
		Form:     make(map[string]string),
		Stats:    make(map[string]string),
	}

	for context, section := range config.sections() {
		for key, action := range r.bindings[context] {
			section[key] = string(action)
		}
	}

	return config
}
