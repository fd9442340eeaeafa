package builtin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bobmcallan/toolbridge/internal/tools"
	"github.com/bobmcallan/toolbridge/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(t *testing.T) (Deps, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# hi"), 0o644))

	dir, err := workspace.NewDirectory([]workspace.Spec{
		{Name: "project", Path: root},
		{Name: "scratch", Path: t.TempDir()},
	})
	require.NoError(t, err)

	return Deps{
		Workspaces: dir,
		Version:    VersionInfo{Version: "1.2.3", Build: "2026-01-01", GitCommit: "abc123"},
	}, root
}

func invoke(t *testing.T, reg *tools.Registry, name, body string) (tools.Envelope, error) {
	t.Helper()
	tool, ok := reg.Lookup(name)
	require.True(t, ok, name)
	call, err := tool.Bind([]byte(body))
	require.NoError(t, err)
	return call(context.Background())
}

func TestNewRegistry_Order(t *testing.T) {
	deps, _ := testDeps(t)
	reg, err := NewRegistry(deps)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"echo", "wait", "get_version", "list_workspaces", "get_workspace_info", "list_directory",
	}, reg.Names())
}

func TestNewRegistry_Extra(t *testing.T) {
	deps, _ := testDeps(t)
	extra := tools.NewNoArgs("ping", "", func(context.Context) (tools.Envelope, error) {
		return tools.OK("pong"), nil
	})

	reg, err := NewRegistry(deps, extra)
	require.NoError(t, err)
	assert.Equal(t, 7, reg.Len())

	_, err = NewRegistry(deps, tools.NewNoArgs("echo", "", func(context.Context) (tools.Envelope, error) {
		return tools.Empty(), nil
	}))
	assert.ErrorIs(t, err, tools.ErrDuplicateTool)
}

func TestSchemas(t *testing.T) {
	deps, _ := testDeps(t)
	reg, err := NewRegistry(deps)
	require.NoError(t, err)

	byName := map[string]tools.ToolInfo{}
	for _, info := range reg.Infos() {
		byName[info.Name] = info
	}

	assert.Equal(t, []string{"text"}, byName["echo"].InputSchema.Required)
	assert.Empty(t, byName["wait"].InputSchema.Required)
	assert.Equal(t, []string{"milliseconds"}, byName["wait"].InputSchema.PropertyNames())
	assert.Empty(t, byName["get_version"].InputSchema.PropertyNames())
	assert.Equal(t, []string{"workspaceName"}, byName["list_directory"].InputSchema.Required)
	assert.Equal(t, []string{"workspaceName", "path"}, byName["list_directory"].InputSchema.PropertyNames())
}

func TestEcho(t *testing.T) {
	deps, _ := testDeps(t)
	reg, _ := NewRegistry(deps)

	env, err := invoke(t, reg, "echo", `{"text":"hi <there>"}`)
	require.NoError(t, err)
	assert.Equal(t, "hi <there>", env.StatusText())
}

func TestWait(t *testing.T) {
	deps, _ := testDeps(t)
	reg, _ := NewRegistry(deps)

	start := time.Now()
	env, err := invoke(t, reg, "wait", `{"milliseconds":20}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", env.StatusText())
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	env, err = invoke(t, reg, "wait", ``)
	require.NoError(t, err)
	assert.Equal(t, "ok", env.StatusText())

	env, err = invoke(t, reg, "wait", `{"milliseconds":-5}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", env.StatusText())
}

func TestWait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ms := float64(MaxWait / time.Millisecond * 10)

	_, err := handleWait(ctx, waitArgs{Milliseconds: &ms})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitDuration(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		ms   *float64
		want time.Duration
	}{
		{"absent", nil, 0},
		{"negative", f(-5), 0},
		{"fractional", f(1.5), 1500 * time.Microsecond},
		{"at cap", f(30000), MaxWait},
		{"above cap", f(45000), MaxWait},
		{"huge", f(1e300), MaxWait},
		{"beyond int64 nanos", f(1e13), MaxWait},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, waitDuration(tt.ms))
		})
	}
}

func TestWait_HugeValueStillWaits(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ms := 1e300

	_, err := handleWait(ctx, waitArgs{Milliseconds: &ms})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetVersion(t *testing.T) {
	deps, _ := testDeps(t)
	reg, _ := NewRegistry(deps)

	env, err := invoke(t, reg, "get_version", ``)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.2.3","build":"2026-01-01","gitCommit":"abc123"}`, env.StatusText())
}

func TestListWorkspaces(t *testing.T) {
	deps, _ := testDeps(t)
	reg, _ := NewRegistry(deps)

	env, err := invoke(t, reg, "list_workspaces", `{}`)
	require.NoError(t, err)
	assert.JSONEq(t, `["project","scratch"]`, env.StatusText())
}

func TestListWorkspaces_NoDirectory(t *testing.T) {
	reg, err := NewRegistry(Deps{})
	require.NoError(t, err)

	env, err := invoke(t, reg, "list_workspaces", ``)
	require.NoError(t, err)
	assert.Equal(t, "[]", env.StatusText())
}

func TestGetWorkspaceInfo(t *testing.T) {
	deps, root := testDeps(t)
	reg, _ := NewRegistry(deps)

	env, err := invoke(t, reg, "get_workspace_info", `{"workspaceName":"project"}`)
	require.NoError(t, err)

	var h workspace.Handle
	require.NoError(t, json.Unmarshal([]byte(env.StatusText()), &h))
	assert.Equal(t, "project", h.Name)
	assert.Equal(t, filepath.Clean(root), h.Root)

	env, err = invoke(t, reg, "get_workspace_info", `{"workspaceName":"nope"}`)
	require.NoError(t, err)
	assert.Equal(t, "Workspace not found: nope", env.ErrorText())
}

func TestListDirectory(t *testing.T) {
	deps, _ := testDeps(t)
	reg, _ := NewRegistry(deps)

	env, err := invoke(t, reg, "list_directory", `{"workspaceName":"project"}`)
	require.NoError(t, err)

	var entries []workspace.Entry
	require.NoError(t, json.Unmarshal([]byte(env.StatusText()), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "src", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "README.md", entries[1].Name)

	env, err = invoke(t, reg, "list_directory", `{"workspaceName":"project","path":"src"}`)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(env.StatusText()), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "main.go", entries[0].Name)
}

func TestListDirectory_Failures(t *testing.T) {
	deps, _ := testDeps(t)
	reg, _ := NewRegistry(deps)

	env, err := invoke(t, reg, "list_directory", `{"workspaceName":"ghost"}`)
	require.NoError(t, err)
	assert.Equal(t, "Workspace not found: ghost", env.ErrorText())

	_, err = invoke(t, reg, "list_directory", `{"workspaceName":"project","path":"../.."}`)
	assert.ErrorIs(t, err, workspace.ErrOutsideRoot)

	_, err = invoke(t, reg, "list_directory", `{"workspaceName":"project","path":"missing"}`)
	assert.Error(t, err)
}
