// Package config handles the XDG configuration directory, the optional
// config file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// ConfigFileName is the optional config file inside the config dir, without extension.
	ConfigFileName = "config"

	// OAuthClientFile is the OAuth client credentials filename (google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (google backend).
	TokenFile = "token.json"

	// DefaultBaseURL is where the task API listens unless configured otherwise.
	DefaultBaseURL = "http://localhost:4000"

	// DefaultTimeout bounds a single store request.
	DefaultTimeout = 10 * time.Second

	// DefaultGoogleListID is the special id of the user's default Google Tasks list.
	DefaultGoogleListID = "@default"
)

// Backend names.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the task store: "rest" or "google".
	Backend string

	// BaseURL is the root of the REST task API.
	BaseURL string

	// Timeout bounds each store request.
	Timeout time.Duration

	// GoogleListID is the Google Tasks list used by the google backend.
	GoogleListID string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// envOverrides are read with caarlos0/env; zero values mean "not set".
type envOverrides struct {
	Backend      string        `env:"TASKLIST_BACKEND"`
	BaseURL      string        `env:"TASKLIST_API_URL"`
	Timeout      time.Duration `env:"TASKLIST_TIMEOUT"`
	GoogleListID string        `env:"TASKLIST_GOOGLE_LIST"`
	Debug        bool          `env:"TASKLIST_DEBUG"`
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklist or $HOME/.config/tasklist.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:          dir,
		Backend:      BackendREST,
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		GoogleListID: DefaultGoogleListID,
	}, nil
}

// Load creates a Config and applies, in order, the config file in the
// config directory and the TASKLIST_* environment variables.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.readFile(); err != nil {
		return nil, err
	}
	if err := cfg.readEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile merges config.yaml (or any viper-supported extension) from Dir.
// A missing file leaves the defaults in place.
func (c *Config) readFile() error {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(c.Dir)

	v.SetDefault("backend", c.Backend)
	v.SetDefault("api.base_url", c.BaseURL)
	v.SetDefault("api.timeout", c.Timeout)
	v.SetDefault("google.list_id", c.GoogleListID)
	v.SetDefault("debug", c.Debug)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	c.Backend = v.GetString("backend")
	c.BaseURL = v.GetString("api.base_url")
	c.Timeout = v.GetDuration("api.timeout")
	c.GoogleListID = v.GetString("google.list_id")
	c.Debug = v.GetBool("debug")
	return nil
}

func (c *Config) readEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if overrides.Backend != "" {
		c.Backend = overrides.Backend
	}
	if overrides.BaseURL != "" {
		c.BaseURL = overrides.BaseURL
	}
	if overrides.Timeout > 0 {
		c.Timeout = overrides.Timeout
	}
	if overrides.GoogleListID != "" {
		c.GoogleListID = overrides.GoogleListID
	}
	if overrides.Debug {
		c.Debug = true
	}
	return nil
}

// Validate checks the backend name and request timeout.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendREST:
		if strings.TrimSpace(c.BaseURL) == "" {
			return errors.New("api base url is empty")
		}
	case BackendGoogle:
		if strings.TrimSpace(c.GoogleListID) == "" {
			return errors.New("google list id is empty")
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Logger returns a debug logger writing to w, or a discarding one when
// Debug is off.
func (c *Config) Logger(w io.Writer) *log.Logger {
	if !c.Debug || w == nil {
		w = io.Discard
	}
	return log.New(w, "debug: ", log.Ltime|log.Lmicroseconds)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}
