package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Host modes.
const (
	HostBridge = "bridge"
	HostAPI    = "api"
)

// Response formats.
const (
	FormatText       = "text"
	FormatJSONObject = "json_object"
)

// EnvAPIKey overrides the stored API key when set.
const EnvAPIKey = "DECKFILL_API_KEY"

type Config struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url,omitempty"`

	Temperature        float64       `yaml:"temperature"`
	MaxTokens          int           `yaml:"max_tokens"`
	ResponseFormat     string        `yaml:"response_format,omitempty"`
	MinRequestInterval time.Duration `yaml:"min_request_interval,omitempty"`
	SessionTTL         time.Duration `yaml:"session_ttl,omitempty"`
	LogLevel           string        `yaml:"log_level,omitempty"`

	Host HostConfig `yaml:"host"`

	// envKey holds the EnvAPIKey override. It is never written to disk.
	envKey string
}

// HostConfig selects how presentations are read and written.
type HostConfig struct {
	Mode            string        `yaml:"mode"`
	ListenAddr      string        `yaml:"listen_addr,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty"`
	CredentialsFile string        `yaml:"credentials_file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider:       "openai",
		Model:          "gpt-4",
		Temperature:    0.5,
		MaxTokens:      3000,
		ResponseFormat: FormatText,
		SessionTTL:     30 * time.Minute,
		LogLevel:       "info",
		Host: HostConfig{
			Mode:       HostBridge,
			ListenAddr: "127.0.0.1:8765",
			Timeout:    30 * time.Second,
		},
	}
}

// applyDefaults fills zero values left by older or hand-edited files.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Provider == "" {
		c.Provider = d.Provider
	}
	if c.Model == "" {
		if p := GetProvider(c.Provider); p != nil {
			c.Model = p.DefaultModel
		} else {
			c.Model = d.Model
		}
	}
	if c.Temperature == 0 {
		c.Temperature = d.Temperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.ResponseFormat == "" {
		c.ResponseFormat = d.ResponseFormat
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = d.SessionTTL
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Host.Mode == "" {
		c.Host.Mode = d.Host.Mode
	}
	if c.Host.ListenAddr == "" {
		c.Host.ListenAddr = d.Host.ListenAddr
	}
	if c.Host.Timeout == 0 {
		c.Host.Timeout = d.Host.Timeout
	}
}

var overridePath string

// SetPath makes Load and Save use path instead of the default location.
func SetPath(path string) {
	overridePath = path
}

func ConfigDir() (string, error) {
	if overridePath != "" {
		return filepath.Dir(overridePath), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "deckfill"), nil
}

func ConfigPath() (string, error) {
	if overridePath != "" {
		return overridePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LogPath is where the log file lives, next to the config.
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "deckfill.log"), nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config file. It returns nil, nil when no file exists yet.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	cfg.envKey = os.Getenv(EnvAPIKey)

	return &cfg, nil
}

// Key returns the API key in effect: the environment override when set,
// otherwise the stored key.
func (c *Config) Key() string {
	if c.envKey != "" {
		return c.envKey
	}
	return c.APIKey
}

// SetKey stores key and drops any environment override for this process.
func (c *Config) SetKey(key string) {
	c.APIKey = key
	c.envKey = ""
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
