package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/rfpbuilder/internal/api"
)

const (
	envPrefix         = "RFPBUILDER"
	envConfigPath     = "RFPBUILDER_CONFIG"
	DefaultBackendURL = "http://localhost:8000"
)

// Config holds application configuration.
type Config struct {
	Backend BackendConfig
	Log     LogConfig
	Editor  EditorConfig
}

// BackendConfig locates the RFP backend.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	Path  string
	Debug bool
}

// EditorConfig holds section editor defaults.
type EditorConfig struct {
	DefaultHeading string `mapstructure:"default_heading"`
	DefaultTone    string `mapstructure:"default_tone"`
}

// Load reads configuration from file and env. Env var overrides use prefix RFPBUILDER_.
// path overrides the config file location when non-empty.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "rfpbuilder"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit path that is missing is reported as a plain os error
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", DefaultBackendURL)
	v.SetDefault("backend.timeout", time.Duration(0))
	v.SetDefault("log.path", filepath.Join(homeDir(), ".local", "state", "rfpbuilder", "rfpbuilder.log"))
	v.SetDefault("log.debug", false)
	v.SetDefault("editor.default_heading", "Executive Summary")
	v.SetDefault("editor.default_tone", string(api.ToneProfessional))
}

// Validate checks the backend URL and the default tone.
func (c *Config) Validate() error {
	c.Backend.URL = strings.TrimSpace(c.Backend.URL)
	if c.Backend.URL == "" {
		c.Backend.URL = DefaultBackendURL
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend.url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.url: %q is not an absolute http(s) URL", c.Backend.URL)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout: must not be negative")
	}
	tone, err := api.ParseTone(c.Editor.DefaultTone)
	if err != nil {
		return fmt.Errorf("editor.default_tone: %w", err)
	}
	c.Editor.DefaultTone = string(tone)
	return nil
}

// Path resolves the config file location: path when non-empty, then
// RFPBUILDER_CONFIG, then ~/.config/rfpbuilder/config.toml.
func Path(path string) string {
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path == "" {
		path = filepath.Join(homeDir(), ".config", "rfpbuilder", "config.toml")
	}
	return path
}

// Save writes cfg as TOML to Path(path), creating the directory if needed.
func Save(path string, cfg Config) error {
	path = Path(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("backend.url", cfg.Backend.URL)
	v.Set("backend.timeout", cfg.Backend.Timeout.String())
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.debug", cfg.Log.Debug)
	v.Set("editor.default_heading", cfg.Editor.DefaultHeading)
	v.Set("editor.default_tone", cfg.Editor.DefaultTone)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}
