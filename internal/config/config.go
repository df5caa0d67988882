// Package config handles configuration and session cookie storage for formchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/diogo/formchat/internal/models"
)

// Config represents the user configuration.
// Values from the environment (FORMCHAT_*) override the config file.
type Config struct {
	BaseURL  string `json:"base_url" env:"FORMCHAT_BASE_URL"`
	Endpoint string `json:"endpoint" env:"FORMCHAT_ENDPOINT"`
	// TimeoutSeconds bounds a single request/response exchange
	TimeoutSeconds int `json:"timeout_seconds" env:"FORMCHAT_TIMEOUT"`
	// PersistSession saves backend cookies on exit and restores them on start
	PersistSession  bool   `json:"persist_session" env:"FORMCHAT_PERSIST_SESSION"`
	CopyToClipboard bool   `json:"copy_to_clipboard" env:"FORMCHAT_COPY_TO_CLIPBOARD"`
	TUITheme        string `json:"tui_theme,omitempty" env:"FORMCHAT_THEME"`
	HelpStyle       string `json:"help_style,omitempty" env:"FORMCHAT_HELP_STYLE"` // glamour style for the help screen
	LogFile         string `json:"log_file,omitempty" env:"FORMCHAT_LOG_FILE"`     // "-" logs to stderr
	LogLevel        string `json:"log_level,omitempty" env:"FORMCHAT_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		BaseURL:         models.DefaultBaseURL,
		Endpoint:        models.EndpointProcess,
		TimeoutSeconds:  60,
		PersistSession:  false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		HelpStyle:       "dark",
		LogFile:         filepath.Join(homeDir, ".formchat", "formchat.log"),
		LogLevel:        "info",
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".formchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds session cookies
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetSessionPath returns the path to the saved session cookies
func GetSessionPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "session.json"), nil
}

// LoadConfig loads the configuration from disk and applies environment overrides.
// A .env file in the working directory is read first, if present.
func LoadConfig() (Config, error) {
	cfg, err := LoadFileConfig()
	if err != nil {
		return cfg, err
	}

	_ = godotenv.Load()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// LoadFileConfig loads the configuration from disk only, without environment overrides
func LoadFileConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Timeout returns the request timeout, falling back to the default for non-positive values
func (c Config) Timeout() int {
	if c.TimeoutSeconds <= 0 {
		return DefaultConfig().TimeoutSeconds
	}
	return c.TimeoutSeconds
}

// Keys returns the settable config keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(*Config, string) error{
	"base_url": func(c *Config, v string) error {
		c.BaseURL = strings.TrimRight(v, "/")
		return nil
	},
	"endpoint": func(c *Config, v string) error {
		if !strings.HasPrefix(v, "/") {
			v = "/" + v
		}
		c.Endpoint = v
		return nil
	},
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer, got %q", v)
		}
		c.TimeoutSeconds = n
		return nil
	},
	"persist_session": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("persist_session must be true or false, got %q", v)
		}
		c.PersistSession = b
		return nil
	},
	"copy_to_clipboard": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false, got %q", v)
		}
		c.CopyToClipboard = b
		return nil
	},
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = v
		return nil
	},
	"help_style": func(c *Config, v string) error {
		c.HelpStyle = v
		return nil
	},
	"log_file": func(c *Config, v string) error {
		c.LogFile = v
		return nil
	},
	"log_level": func(c *Config, v string) error {
		c.LogLevel = strings.ToLower(v)
		return nil
	},
}

// Set updates a single key by name
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, value)
}
