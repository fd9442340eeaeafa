// Package builtin provides the tools shipped with the server.
package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bobmcallan/toolbridge/internal/tools"
	"github.com/bobmcallan/toolbridge/internal/workspace"
)

// MaxWait caps the wait tool's sleep.
const MaxWait = 30 * time.Second

// VersionInfo is reported by get_version.
type VersionInfo struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	GitCommit string `json:"gitCommit"`
}

// Deps are the collaborators the built-in tools read from.
type Deps struct {
	Workspaces *workspace.Directory
	Version    VersionInfo
}

type echoArgs struct {
	Text string `json:"text"`
}

type waitArgs struct {
	Milliseconds *float64 `json:"milliseconds"`
}

type workspaceArgs struct {
	WorkspaceName string `json:"workspaceName"`
}

type listDirectoryArgs struct {
	WorkspaceName string  `json:"workspaceName"`
	Path          *string `json:"path"`
}

var (
	echoType = tools.Args(
		tools.String("text").Describe("Text to return unchanged"),
	)
	waitType = tools.Args(
		tools.Number("milliseconds").Optional().Describe("How long to wait, capped at 30000"),
	)
	workspaceType = tools.Args(
		tools.String("workspaceName").Describe("Name of a configured workspace"),
	)
	listDirectoryType = tools.Args(
		tools.String("workspaceName").Describe("Name of a configured workspace"),
		tools.String("path").Optional().Describe("Directory relative to the workspace root"),
	)
)

// Tools returns the built-in tools in registration order.
func Tools(deps Deps) []tools.Tool {
	return []tools.Tool{
		tools.New("echo", "Returns the given text as the status", echoType, handleEcho),
		tools.New("wait", "Waits for the given number of milliseconds, then reports ok", waitType, handleWait),
		tools.NewNoArgs("get_version", "Returns the server version", versionHandler(deps.Version)),
		tools.NewNoArgs("list_workspaces", "Lists the configured workspace names", listWorkspacesHandler(deps.Workspaces)),
		tools.New("get_workspace_info", "Returns the name and root of a workspace", workspaceType, workspaceInfoHandler(deps.Workspaces)),
		tools.New("list_directory", "Lists entries of a directory inside a workspace", listDirectoryType, listDirectoryHandler(deps.Workspaces)),
	}
}

// NewRegistry builds a registry holding the built-in tools followed by extra.
func NewRegistry(deps Deps, extra ...tools.Tool) (*tools.Registry, error) {
	all := append(Tools(deps), extra...)
	return tools.NewRegistry(all...)
}

func handleEcho(_ context.Context, args echoArgs) (tools.Envelope, error) {
	return tools.OK(args.Text), nil
}

func handleWait(ctx context.Context, args waitArgs) (tools.Envelope, error) {
	d := waitDuration(args.Milliseconds)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return tools.Envelope{}, ctx.Err()
	}
	return tools.OK("ok"), nil
}

// waitDuration converts ms to a Duration in [0, MaxWait]. The clamp happens
// on the float, since large values overflow Duration.
func waitDuration(ms *float64) time.Duration {
	if ms == nil || !(*ms > 0) {
		return 0
	}
	if *ms >= float64(MaxWait/time.Millisecond) {
		return MaxWait
	}
	return time.Duration(*ms * float64(time.Millisecond))
}

func versionHandler(v VersionInfo) func(context.Context) (tools.Envelope, error) {
	return func(context.Context) (tools.Envelope, error) {
		return jsonStatus(v)
	}
}

func listWorkspacesHandler(dir *workspace.Directory) func(context.Context) (tools.Envelope, error) {
	return func(context.Context) (tools.Envelope, error) {
		return jsonStatus(dir.Names())
	}
}

func workspaceInfoHandler(dir *workspace.Directory) tools.Handler[workspaceArgs] {
	return func(_ context.Context, args workspaceArgs) (tools.Envelope, error) {
		h, ok := dir.Lookup(args.WorkspaceName)
		if !ok {
			return workspaceNotFound(args.WorkspaceName), nil
		}
		return jsonStatus(h)
	}
}

func listDirectoryHandler(dir *workspace.Directory) tools.Handler[listDirectoryArgs] {
	return func(_ context.Context, args listDirectoryArgs) (tools.Envelope, error) {
		h, ok := dir.Lookup(args.WorkspaceName)
		if !ok {
			return workspaceNotFound(args.WorkspaceName), nil
		}
		rel := ""
		if args.Path != nil {
			rel = *args.Path
		}
		entries, err := h.List(rel)
		if err != nil {
			return tools.Envelope{}, err
		}
		return jsonStatus(entries)
	}
}

func workspaceNotFound(name string) tools.Envelope {
	return tools.Fail("Workspace not found: " + name)
}

func jsonStatus(v any) (tools.Envelope, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return tools.Envelope{}, fmt.Errorf("failed to encode result: %w", err)
	}
	return tools.OK(string(b)), nil
}
