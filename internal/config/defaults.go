package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port:         4250,
			Host:         "localhost",
			MaxBodyBytes: 1 << 20,
		},
		Service: ServiceConfig{
			Prefix: "/api/tools",
		},
		Limits: LimitsConfig{},
		Telemetry: TelemetryConfig{
			Enabled:   true,
			QueueSize: 256,
			Sink:      "log",
			Kafka: KafkaConfig{
				Topic:    "toolbridge.usage",
				ClientID: "toolbridge",
			},
		},
		MCP: MCPConfig{
			Enabled: true,
			Path:    "/mcp",
		},
		Workspaces: []WorkspaceConfig{},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
	}
}
