package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/HartBrook/promptcraft/internal/errors"
	"gopkg.in/yaml.v3"
)

// APIConfig contains text generation backend settings.
type APIConfig struct {
	BaseURL      string `yaml:"base_url,omitempty"`     // e.g., a proxy or Azure-compatible endpoint
	Organization string `yaml:"organization,omitempty"` // OpenAI organization ID
	Timeout      string `yaml:"timeout,omitempty"`      // e.g., "120s"
}

// ServerConfig contains web UI settings.
type ServerConfig struct {
	Addr       string `yaml:"addr,omitempty"`        // Listen address, e.g. ":8501"
	SessionTTL string `yaml:"session_ttl,omitempty"` // Idle time before a session is discarded
}

// Config represents the promptcraft configuration file.
type Config struct {
	Version int `yaml:"version"`

	// Model is the default model offered in every surface.
	Model string `yaml:"model,omitempty"`

	// Temperature is a pointer so that an explicit 0.0 survives defaulting.
	Temperature *float64 `yaml:"temperature,omitempty"`

	// Suggestions is the default number of optimized prompts to request.
	Suggestions int `yaml:"suggestions,omitempty"`

	// Models is the fixed set of selectable chat models.
	Models []string `yaml:"models,omitempty"`

	API    APIConfig    `yaml:"api,omitempty"`
	Server ServerConfig `yaml:"server,omitempty"`
}

// Default values.
const (
	DefaultVersion     = 1
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultSuggestions = 5
	DefaultTimeout     = "120s"
	DefaultAddr        = ":8501"
	DefaultSessionTTL  = "30m"

	MinTemperature = 0.0
	MaxTemperature = 2.0
	MinSuggestions = 1
	MaxSuggestions = 10
)

// DefaultModels is the model set offered when the config does not list one.
var DefaultModels = []string{
	"gpt-3.5-turbo",
	"gpt-4",
	"gpt-4-0613",
	"gpt-4-1106-preview",
	"gpt-4-0125-preview",
}

// Default returns a config with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadOrDefault reads config from path, falling back to defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if errors.CodeOf(err) == errors.ErrConfigNotFound {
		return Default(), nil
	}
	return cfg, err
}

// LoadFrom reads and validates config from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to read config", "", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to parse config YAML", "Check config syntax", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveTo writes config to a specific path.
func SaveTo(cfg *Config, path string) error {
	cfg.applyDefaults()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to marshal config", "", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to create config directory", "", err)
	}

	return os.WriteFile(path, data, DefaultFileMode)
}

// Validate checks config for valid values.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return errors.ConfigInvalid("models must list at least one model")
	}
	if !c.HasModel(c.Model) {
		return errors.ConfigInvalid(fmt.Sprintf("model %q is not in models", c.Model))
	}

	if t := c.GenerationTemperature(); t < MinTemperature || t > MaxTemperature {
		return errors.ConfigInvalid(fmt.Sprintf("temperature must be between %.1f and %.1f", MinTemperature, MaxTemperature))
	}

	if c.Suggestions < MinSuggestions || c.Suggestions > MaxSuggestions {
		return errors.ConfigInvalid(fmt.Sprintf("suggestions must be between %d and %d", MinSuggestions, MaxSuggestions))
	}

	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		return errors.ConfigInvalid("invalid api.timeout format, use Go duration format (e.g., 120s)")
	}
	if _, err := time.ParseDuration(c.Server.SessionTTL); err != nil {
		return errors.ConfigInvalid("invalid server.session_ttl format, use Go duration format (e.g., 30m)")
	}

	return nil
}

// applyDefaults sets default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if len(c.Models) == 0 {
		c.Models = slices.Clone(DefaultModels)
	}
	if c.Model == "" {
		// Prefer the package default, but never pick a model the list does not offer
		if slices.Contains(c.Models, DefaultModel) {
			c.Model = DefaultModel
		} else {
			c.Model = c.Models[0]
		}
	}
	if c.Temperature == nil {
		t := DefaultTemperature
		c.Temperature = &t
	}
	if c.Suggestions == 0 {
		c.Suggestions = DefaultSuggestions
	}
	if c.API.Timeout == "" {
		c.API.Timeout = DefaultTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.SessionTTL == "" {
		c.Server.SessionTTL = DefaultSessionTTL
	}
}

// HasModel reports whether model is one of the configured models.
func (c *Config) HasModel(model string) bool {
	return slices.Contains(c.Models, model)
}

// ValidateChoice checks a user's model, temperature and count against the
// configured model set and the input ranges.
func (c *Config) ValidateChoice(model string, temperature float64, count int) error {
	if !c.HasModel(model) {
		return errors.InvalidSetting(
			fmt.Sprintf("unknown model %q", model),
			"Choose one of: "+strings.Join(c.Models, ", "),
		)
	}
	if temperature < MinTemperature || temperature > MaxTemperature {
		return errors.InvalidSetting(
			fmt.Sprintf("temperature %.2f is out of range", temperature),
			fmt.Sprintf("Use a value between %.1f and %.1f", MinTemperature, MaxTemperature),
		)
	}
	if count < MinSuggestions || count > MaxSuggestions {
		return errors.InvalidSetting(
			fmt.Sprintf("count %d is out of range", count),
			fmt.Sprintf("Ask for between %d and %d prompts", MinSuggestions, MaxSuggestions),
		)
	}
	return nil
}

// GenerationTemperature returns the configured default temperature.
func (c *Config) GenerationTemperature() float64 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// TimeoutDuration returns the API timeout as a time.Duration.
func (c *APIConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// SessionTTLDuration returns the session TTL as a time.Duration.
func (c *ServerConfig) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		d, _ = time.ParseDuration(DefaultSessionTTL)
	}
	return d
}
