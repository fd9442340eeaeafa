package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/toolbridge/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools adds one MCP tool per registry entry, in registration order,
// and returns how many were added.
func RegisterTools(s *server.MCPServer, reg *tools.Registry, inv Invoker) (int, error) {
	for _, t := range reg.List() {
		tool, err := BuildMCPTool(t)
		if err != nil {
			return 0, err
		}
		s.AddTool(tool, ToolHandler(inv, t.Name()))
	}
	return reg.Len(), nil
}

// BuildMCPTool converts a registry tool into an mcp.Tool carrying the
// derived input schema.
func BuildMCPTool(t tools.Tool) (mcp.Tool, error) {
	schema, err := json.Marshal(tools.DeriveSchema(t.Args()))
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("failed to encode schema for %q: %w", t.Name(), err)
	}
	return mcp.NewToolWithRawSchema(t.Name(), t.Description(), schema), nil
}

// ToolHandler returns an MCP handler that re-encodes the call arguments and
// runs them through inv. An error envelope becomes an error result.
func ToolHandler(inv Invoker, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var body []byte
		if args := r.GetArguments(); args != nil {
			b, err := json.Marshal(args)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
			body = b
		}

		env := inv.Invoke(ctx, name, body)
		if env.Failed() {
			return mcp.NewToolResultError(env.ErrorText()), nil
		}
		return mcp.NewToolResultText(env.StatusText()), nil
	}
}
