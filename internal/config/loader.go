package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by the loader. They match the
// variables the service is deployed with, so no prefix is applied.
const (
	EnvDataServiceURL = "DATA_SERVICE_URL"
	EnvPort           = "PORT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvMetricsEnabled = "METRICS_ENABLED"
	EnvMetricsPort    = "METRICS_PORT"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables. An empty path skips the file stage.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromReader loads configuration from an io.Reader on top of defaults.
// Environment variables are not applied; this is primarily for tests.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := parseInto(cfg, data); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile reads and parses a YAML config file into cfg.
func loadFile(cfg *Config, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // path is validated via filepath.Abs
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return parseInto(cfg, data)
}

// parseInto parses YAML data into cfg after environment substitution.
func parseInto(cfg *Config, data []byte) error {
	content := substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values.
func substituteEnvVars(content string) string {
	// Handle escaped dollar signs first
	content = strings.ReplaceAll(content, "$$", "\x00ESCAPED_DOLLAR\x00")

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""
		if len(submatches) >= 3 {
			defaultValue = submatches[2]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return defaultValue
	})

	return strings.ReplaceAll(result, "\x00ESCAPED_DOLLAR\x00", "$")
}

// applyEnv overrides configuration fields from environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDataServiceURL); v != "" {
		cfg.DataService.URL = v
	}

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvPort, v, err)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}

	if v := os.Getenv(EnvMetricsEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvMetricsEnabled, v, err)
		}
		cfg.Metrics.Enabled = enabled
	}

	if v := os.Getenv(EnvMetricsPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvMetricsPort, v, err)
		}
		cfg.Metrics.Port = port
	}

	return nil
}
