package shared

import (
	"context"
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

const defaultTimeout = 10 * time.Second

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	QBittorrent QBittorrentConfig `toml:"qbittorrent"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// QBittorrentConfig contains the collaborator's address and credentials.
type QBittorrentConfig struct {
	URL            string  `toml:"url"`
	Username       string  `toml:"username"`
	Password       string  `toml:"password"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
}

// Timeout returns the outbound request timeout, falling back to 10s when unset.
func (q QBittorrentConfig) Timeout() time.Duration {
	if q.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(q.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	History      bool   `toml:"history"`
	HistoryLimit int    `toml:"history_limit"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr joins host and port into a listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LogConfig controls the logger level.
type LogConfig struct {
	Level string `toml:"level"`
}

// envOverlay holds the variables read once at startup.
type envOverlay struct {
	URL      string `env:"QB_API"`
	Username string `env:"QB_USERNAME"`
	Password string `env:"QB_PASSWORD"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig builds the process configuration: embedded defaults, then the TOML file at path
// when it exists, then the QB_* environment overlay.
func ResolveConfig(ctx context.Context, path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := ApplyEnv(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overlays QB_API, QB_USERNAME and QB_PASSWORD onto the config.
//
// Unset variables leave the file values untouched.
func ApplyEnv(ctx context.Context, config *Config) error {
	var in envOverlay
	if err := envconfig.Process(ctx, &in); err != nil {
		return fmt.Errorf("%w: failed to read environment: %v", ErrInvalidConfig, err)
	}

	if in.URL != "" {
		config.QBittorrent.URL = in.URL
	}
	if in.Username != "" {
		config.QBittorrent.Username = in.Username
	}
	if in.Password != "" {
		config.QBittorrent.Password = in.Password
	}
	return nil
}

// Validate checks the fields that would otherwise fail late (at listen or request time).
//
// Credentials are not checked; empty values reach the login call as-is.
func (c *Config) Validate() error {
	if c.QBittorrent.URL == "" {
		return fmt.Errorf("%w: qbittorrent.url is empty", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.QBittorrent.RateLimit < 0 {
		return fmt.Errorf("%w: qbittorrent.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
