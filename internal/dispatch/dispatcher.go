// Package dispatch routes a request key to tool discovery or to a single
// isolated tool invocation.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/tools"
)

// UsageRecorder receives the name of every tool about to run. Record must
// not block.
type UsageRecorder interface {
	Record(tool string)
}

// Dispatcher is stateless per call and safe for concurrent use.
type Dispatcher struct {
	registry *tools.Registry
	listBody []byte
	recorder UsageRecorder
	logger   *common.Logger
}

// New builds a dispatcher over reg. The list_tools response is encoded
// once here; reg must not change afterwards. recorder may be nil.
func New(reg *tools.Registry, recorder UsageRecorder, logger *common.Logger) (*Dispatcher, error) {
	if reg == nil {
		return nil, errors.New("dispatch: registry is nil")
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	listBody, err := tools.Encode(reg.Infos())
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool list: %w", err)
	}

	return &Dispatcher{
		registry: reg,
		listBody: listBody,
		recorder: recorder,
		logger:   logger,
	}, nil
}

// Registry returns the registry the dispatcher serves.
func (d *Dispatcher) Registry() *tools.Registry {
	return d.registry
}

// Handle answers one request. route is the path remainder after the service
// prefix. The returned error is only ever an encoding failure; every
// caller-facing condition is reported inside the envelope.
func (d *Dispatcher) Handle(ctx context.Context, route string, body []byte) ([]byte, error) {
	key := RouteKey(route)
	if key == tools.ListRoute {
		d.logger.Debug().Int("tools", d.registry.Len()).Msg("listing tools")
		out := make([]byte, len(d.listBody))
		copy(out, d.listBody)
		return out, nil
	}

	env := d.Invoke(ctx, key, body)
	out, err := tools.Encode(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response for %q: %w", key, err)
	}
	return out, nil
}

// Invoke looks up name, decodes body and runs the handler. It never
// panics and never returns a Go error: every failure becomes an error
// envelope.
func (d *Dispatcher) Invoke(ctx context.Context, name string, body []byte) tools.Envelope {
	tool, ok := d.registry.Lookup(name)
	if !ok {
		d.logger.Debug().Str("tool", name).Msg("unknown tool")
		return tools.Fail("Unknown tool: " + name)
	}

	call, err := tool.Bind(body)
	if err != nil {
		d.logger.Debug().Str("tool", name).Err(err).Msg("invalid tool arguments")
		return tools.Fail(err.Error())
	}

	if d.recorder != nil {
		d.recorder.Record(name)
	}

	start := time.Now()
	env, err := d.run(ctx, call)
	if err != nil {
		d.logger.Warn().
			Str("tool", name).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("tool execution failed")
		return tools.Fail(fmt.Sprintf("Failed to execute tool %s, message %s", name, err.Error()))
	}
	if !env.Valid() {
		d.logger.Warn().Str("tool", name).Msg("tool returned both status and error")
		return tools.Fail(fmt.Sprintf("Failed to execute tool %s, message %s", name, tools.ErrConflictingEnvelope.Error()))
	}

	d.logger.Debug().
		Str("tool", name).
		Dur("duration", time.Since(start)).
		Bool("error_envelope", env.Failed()).
		Msg("tool executed")
	return env
}

// run executes call with panics converted to errors. Transport
// cancellation is detached; request-scoped values still flow through.
func (d *Dispatcher) run(ctx context.Context, call tools.Call) (env tools.Envelope, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error().
				Str("panic", fmt.Sprintf("%v", rec)).
				Str("stack", string(debug.Stack())).
				Msg("tool panicked")
			env = tools.Envelope{}
			err = &PanicError{Value: rec}
		}
	}()
	return call(context.WithoutCancel(ctx))
}

// RouteKey trims leading path separators from a route remainder.
func RouteKey(route string) string {
	return strings.TrimLeft(route, "/")
}

// PanicError carries a value recovered from a tool handler.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", e.Value)
}
