package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Environment string            `toml:"environment" yaml:"environment"`
	Server      ServerConfig      `toml:"server" yaml:"server"`
	Service     ServiceConfig     `toml:"service" yaml:"service"`
	Limits      LimitsConfig      `toml:"limits" yaml:"limits"`
	Telemetry   TelemetryConfig   `toml:"telemetry" yaml:"telemetry"`
	MCP         MCPConfig         `toml:"mcp" yaml:"mcp"`
	Workspaces  []WorkspaceConfig `toml:"workspaces" yaml:"workspaces"`
	Logging     LoggingConfig     `toml:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `toml:"port" yaml:"port"`
	Host         string `toml:"host" yaml:"host"`
	MaxBodyBytes int64  `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// ServiceConfig contains tool service settings.
type ServiceConfig struct {
	Prefix string `toml:"prefix" yaml:"prefix"`
}

// LimitsConfig is a fixed request ceiling. Zero disables it.
type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `toml:"burst" yaml:"burst"`
}

// TelemetryConfig contains usage telemetry settings.
type TelemetryConfig struct {
	Enabled   bool        `toml:"enabled" yaml:"enabled"`
	QueueSize int         `toml:"queue_size" yaml:"queue_size"`
	Sink      string      `toml:"sink" yaml:"sink"`
	Kafka     KafkaConfig `toml:"kafka" yaml:"kafka"`
}

// KafkaConfig contains Kafka sink settings.
type KafkaConfig struct {
	Brokers  []string `toml:"brokers" yaml:"brokers"`
	Topic    string   `toml:"topic" yaml:"topic"`
	ClientID string   `toml:"client_id" yaml:"client_id"`
}

// MCPConfig contains MCP bridge settings.
type MCPConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// WorkspaceConfig names one workspace root.
type WorkspaceConfig struct {
	Name string `toml:"name" yaml:"name"`
	Path string `toml:"path" yaml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level" yaml:"level"`
	Format     string   `toml:"format" yaml:"format"`
	Outputs    []string `toml:"outputs" yaml:"outputs"`
	FilePath   string   `toml:"file_path" yaml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups" yaml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files. Files ending in .yaml or .yml are
// parsed as YAML, everything else as TOML.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, config)
		default:
			err = toml.Unmarshal(data, config)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies TOOLBRIDGE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TOOLBRIDGE_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("TOOLBRIDGE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TOOLBRIDGE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if prefix := os.Getenv("TOOLBRIDGE_SERVICE_PREFIX"); prefix != "" {
		config.Service.Prefix = prefix
	}
	if rps := os.Getenv("TOOLBRIDGE_LIMITS_RPS"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil {
			config.Limits.RequestsPerSecond = v
		}
	}
	if enabled := os.Getenv("TOOLBRIDGE_TELEMETRY_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			config.Telemetry.Enabled = v
		}
	}
	if sink := os.Getenv("TOOLBRIDGE_TELEMETRY_SINK"); sink != "" {
		config.Telemetry.Sink = sink
	}
	if brokers := os.Getenv("TOOLBRIDGE_KAFKA_BROKERS"); brokers != "" {
		config.Telemetry.Kafka.Brokers = splitCSV(brokers)
	}
	if topic := os.Getenv("TOOLBRIDGE_KAFKA_TOPIC"); topic != "" {
		config.Telemetry.Kafka.Topic = topic
	}
	if enabled := os.Getenv("TOOLBRIDGE_MCP_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			config.MCP.Enabled = v
		}
	}
	if level := os.Getenv("TOOLBRIDGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("TOOLBRIDGE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns a list of configuration problems. An empty list means
// the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if c.Server.MaxBodyBytes < 0 {
		issues = append(issues, "server.max_body_bytes must not be negative")
	}
	if !strings.HasPrefix(c.Service.Prefix, "/") || c.Service.Prefix == "/" {
		issues = append(issues, fmt.Sprintf("service.prefix must start with / and name a path (got %q)", c.Service.Prefix))
	}
	if c.Limits.RequestsPerSecond < 0 {
		issues = append(issues, "limits.requests_per_second must not be negative")
	}
	if c.Limits.Burst < 0 {
		issues = append(issues, "limits.burst must not be negative")
	}

	if c.Telemetry.Enabled {
		switch c.Telemetry.Sink {
		case "log":
		case "kafka":
			if len(c.Telemetry.Kafka.Brokers) == 0 {
				issues = append(issues, "telemetry.kafka.brokers is required when telemetry.sink is kafka (TOOLBRIDGE_KAFKA_BROKERS)")
			}
			if strings.TrimSpace(c.Telemetry.Kafka.Topic) == "" {
				issues = append(issues, "telemetry.kafka.topic is required when telemetry.sink is kafka")
			}
		default:
			issues = append(issues, fmt.Sprintf("telemetry.sink must be log or kafka (got %q)", c.Telemetry.Sink))
		}
	}

	if c.MCP.Enabled && !strings.HasPrefix(c.MCP.Path, "/") {
		issues = append(issues, fmt.Sprintf("mcp.path must start with / (got %q)", c.MCP.Path))
	}

	seen := make(map[string]bool, len(c.Workspaces))
	for i, ws := range c.Workspaces {
		name := strings.TrimSpace(ws.Name)
		if name == "" {
			issues = append(issues, fmt.Sprintf("workspaces[%d].name is required", i))
			continue
		}
		if seen[name] {
			issues = append(issues, fmt.Sprintf("workspaces[%d].name %q is a duplicate", i, name))
		}
		seen[name] = true
		if strings.TrimSpace(ws.Path) == "" {
			issues = append(issues, fmt.Sprintf("workspaces[%d].path is required", i))
		}
	}

	return issues
}

// IsDevMode reports whether the environment is "dev".
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
