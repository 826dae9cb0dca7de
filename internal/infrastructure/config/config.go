// Package config loads the LCMP configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvFileVar names the variable holding the optional .env file path.
const EnvFileVar = "LCMP_ENV_FILE"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	LCMP    LCMPConfig
	Logging LogConfig
	HTTP    HTTPConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// LCMPConfig selects the application list and application context servers.
type LCMPConfig struct {
	AppListType    string `envconfig:"APP_LIST_TYPE" default:"static;file=application_list.json"`
	AppContextType string `envconfig:"APP_CONTEXT_TYPE" default:"single;10,URI"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// HTTPConfig holds the optional behaviors of the HTTP layer.
type HTTPConfig struct {
	AllowedOrigins         []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	MetricsEnabled         bool     `envconfig:"METRICS_ENABLED" default:"true"`
	RequireJSONContentType bool     `envconfig:"REQUIRE_JSON_CONTENT_TYPE" default:"true"`
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// Load loads configuration from environment variables, after importing the
// variables of the .env file, if present. Variables already set win.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		LCMP: LCMPConfig{
			AppListType:    "static;file=application_list.json",
			AppContextType: "single;10,URI",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		HTTP: HTTPConfig{
			AllowedOrigins:         []string{"*"},
			MetricsEnabled:         true,
			RequireJSONContentType: true,
		},
	}
}

func loadEnvFile() error {
	path := os.Getenv(EnvFileVar)
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}
