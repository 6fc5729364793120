// Package config provides configuration loading and validation for the API service.
//
// Configuration is assembled once at process start and is immutable afterwards.
// Sources are applied in order, later ones winning: built-in defaults, an
// optional YAML file (with environment variable substitution), then plain
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Default configuration values.
const (
	DefaultDataServiceURL  = "http://data-service:8080"
	DefaultPort            = 8000
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultServiceName     = "API Service"
	DefaultServiceVersion  = "0.1.0"
	DefaultMetricsPort     = 9090
	DefaultMetricsPath     = "/metrics"
	DefaultHealthTimeout   = 2 * time.Second
	DefaultRequestTimeout  = 5 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Config is the root configuration for the API service.
type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	Server      ServerConfig      `yaml:"server"`
	DataService DataServiceConfig `yaml:"dataService"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// ServiceConfig holds service identity metadata.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ServerConfig holds the inbound HTTP listener configuration.
type ServerConfig struct {
	Address         string   `yaml:"address"`
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout"`
	IdleTimeout     Duration `yaml:"idleTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// DataServiceConfig holds the upstream data service configuration.
type DataServiceConfig struct {
	// URL is the base URL of the data service, without a trailing slash.
	URL string `yaml:"url"`

	// HealthTimeout bounds the health connectivity probe.
	HealthTimeout Duration `yaml:"healthTimeout"`

	// RequestTimeout bounds user data requests.
	RequestTimeout Duration `yaml:"requestTimeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds the metrics listener configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:    DefaultServiceName,
			Version: DefaultServiceVersion,
		},
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			IdleTimeout:     Duration(120 * time.Second),
			ShutdownTimeout: Duration(DefaultShutdownTimeout),
		},
		DataService: DataServiceConfig{
			URL:            DefaultDataServiceURL,
			HealthTimeout:  Duration(DefaultHealthTimeout),
			RequestTimeout: Duration(DefaultRequestTimeout),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    DefaultMetricsPort,
			Path:    DefaultMetricsPath,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return errors.New("service name must not be empty")
	}

	if err := validatePort(c.Server.Port); err != nil {
		return fmt.Errorf("server port: %w", err)
	}

	if c.Metrics.Enabled {
		if err := validatePort(c.Metrics.Port); err != nil {
			return fmt.Errorf("metrics port: %w", err)
		}
		if c.Metrics.Port == c.Server.Port {
			return errors.New("metrics port must differ from server port")
		}
	}

	if c.DataService.URL == "" {
		return errors.New("data service URL must not be empty")
	}
	u, err := url.Parse(c.DataService.URL)
	if err != nil {
		return fmt.Errorf("data service URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("data service URL: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("data service URL: missing host")
	}

	if c.DataService.HealthTimeout.Duration() <= 0 {
		return errors.New("data service health timeout must be positive")
	}
	if c.DataService.RequestTimeout.Duration() <= 0 {
		return errors.New("data service request timeout must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}

	return nil
}

// validatePort checks that a port number is in the valid range.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range (1-65535)", port)
	}
	return nil
}
