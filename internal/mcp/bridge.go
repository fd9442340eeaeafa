// Package mcp exposes the tool registry as MCP tools over streamable HTTP.
package mcp

import (
	"context"
	"net/http"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/tools"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Invoker runs a named tool against a raw JSON body.
type Invoker interface {
	Invoke(ctx context.Context, name string, body []byte) tools.Envelope
}

// Bridge is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Bridge struct {
	server     *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewBridge registers every tool in reg with an MCP server whose calls are
// routed through inv.
func NewBridge(name, version string, reg *tools.Registry, inv Invoker, logger *common.Logger) (*Bridge, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	mcpSrv := mcpserver.NewMCPServer(
		name,
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	count, err := RegisterTools(mcpSrv, reg, inv)
	if err != nil {
		return nil, err
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", count).
		Msg("MCP bridge initialized")

	return &Bridge{
		server:     mcpSrv,
		streamable: streamable,
		logger:     logger,
	}, nil
}

// Server returns the underlying MCP server.
func (b *Bridge) Server() *mcpserver.MCPServer {
	return b.server
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.streamable.ServeHTTP(w, r)
}
