package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bobmcallan/toolbridge/internal/builtin"
	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/config"
	"github.com/bobmcallan/toolbridge/internal/dispatch"
	"github.com/bobmcallan/toolbridge/internal/handlers"
	"github.com/bobmcallan/toolbridge/internal/mcp"
	"github.com/bobmcallan/toolbridge/internal/telemetry"
	"github.com/bobmcallan/toolbridge/internal/tools"
	"github.com/bobmcallan/toolbridge/internal/workspace"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Workspaces *workspace.Directory
	Registry   *tools.Registry
	Recorder   *telemetry.Recorder
	Dispatcher *dispatch.Dispatcher

	// HTTP handlers
	ToolsHandler   *handlers.ToolsHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	MCPHandler     *mcp.Bridge
}

// Option customizes New.
type Option func(*options)

type options struct {
	extraTools []tools.Tool
	sink       telemetry.Sink
}

// WithTools registers extra tools after the built-in set.
func WithTools(t ...tools.Tool) Option {
	return func(o *options) { o.extraTools = append(o.extraTools, t...) }
}

// WithSink replaces the configured telemetry sink.
func WithSink(s telemetry.Sink) Option {
	return func(o *options) { o.sink = s }
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if env != "prod" && env != "dev" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	if err := a.initWorkspaces(); err != nil {
		return nil, err
	}
	if err := a.initTelemetry(o.sink); err != nil {
		return nil, err
	}
	if err := a.initDispatch(o.extraTools); err != nil {
		a.Recorder.Close()
		return nil, err
	}
	if err := a.initHandlers(); err != nil {
		a.Recorder.Close()
		return nil, err
	}

	logger.Info().
		Int("tools", a.Registry.Len()).
		Int("workspaces", len(a.Workspaces.Names())).
		Msg("application initialization complete")

	return a, nil
}

func (a *App) initWorkspaces() error {
	specs := make([]workspace.Spec, 0, len(a.Config.Workspaces))
	for _, ws := range a.Config.Workspaces {
		specs = append(specs, workspace.Spec{Name: ws.Name, Path: ws.Path})
	}
	dir, err := workspace.NewDirectory(specs)
	if err != nil {
		return fmt.Errorf("failed to load workspaces: %w", err)
	}
	a.Workspaces = dir
	return nil
}

// initTelemetry selects the usage sink. A disabled config leaves Recorder
// nil, which the dispatcher and health handler treat as a no-op.
func (a *App) initTelemetry(sink telemetry.Sink) error {
	tc := a.Config.Telemetry
	if !tc.Enabled && sink == nil {
		a.Logger.Debug().Msg("usage telemetry disabled")
		return nil
	}

	if sink == nil {
		switch tc.Sink {
		case "kafka":
			ks, err := telemetry.NewKafkaSink(telemetry.KafkaConfig{
				Brokers:  tc.Kafka.Brokers,
				Topic:    tc.Kafka.Topic,
				ClientID: tc.Kafka.ClientID,
			})
			if err != nil {
				return fmt.Errorf("failed to create telemetry sink: %w", err)
			}
			sink = ks
		case "log", "":
			sink = telemetry.NewLogSink(a.Logger)
		default:
			return fmt.Errorf("unknown telemetry sink %q", tc.Sink)
		}
	}

	instance, _ := os.Hostname()
	a.Recorder = telemetry.NewRecorder(sink, tc.QueueSize, instance, a.Logger)

	a.Logger.Info().
		Str("sink", tc.Sink).
		Int("queue_size", tc.QueueSize).
		Msg("usage telemetry enabled")
	return nil
}

func (a *App) initDispatch(extra []tools.Tool) error {
	v := config.GetVersionInfo()
	reg, err := builtin.NewRegistry(builtin.Deps{
		Workspaces: a.Workspaces,
		Version: builtin.VersionInfo{
			Version:   v.Version,
			Build:     v.Build,
			GitCommit: v.GitCommit,
		},
	}, extra...)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}
	a.Registry = reg

	// A nil *Recorder must not become a non-nil interface.
	var recorder dispatch.UsageRecorder
	if a.Recorder != nil {
		recorder = a.Recorder
	}

	d, err := dispatch.New(reg, recorder, a.Logger)
	if err != nil {
		return err
	}
	a.Dispatcher = d
	return nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() error {
	a.ToolsHandler = handlers.NewToolsHandler(a.Dispatcher, a.Config.Service.Prefix, a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Registry.Len, a.telemetryStats())
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	if a.Config.MCP.Enabled {
		bridge, err := mcp.NewBridge("toolbridge", config.GetVersion(), a.Registry, a.Dispatcher, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to create MCP bridge: %w", err)
		}
		a.MCPHandler = bridge
	}

	a.Logger.Debug().Msg("HTTP handlers initialized")
	return nil
}

func (a *App) telemetryStats() func() telemetry.Stats {
	if a.Recorder == nil {
		return nil
	}
	return a.Recorder.Stats
}

// RunTelemetry drains the usage queue until ctx is done. It returns
// immediately when telemetry is disabled.
func (a *App) RunTelemetry(ctx context.Context) error {
	if a.Recorder == nil {
		return nil
	}
	return a.Recorder.Run(ctx)
}

// Close closes all application resources.
func (a *App) Close() error {
	var errs []error
	if err := a.Recorder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry sink: %w", err))
	}
	return errors.Join(errs...)
}
