package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sdkjsonrpc "github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName identifies the server to MCP clients.
const ServerName = "awscostlens"

// NewServer creates an MCP server exposing every tool in reg.
func NewServer(version string, reg *ToolRegistry) (*sdkmcp.Server, error) {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: ServerName, Version: version}, nil)
	names, err := RegisterSDKTools(server, reg)
	if err != nil {
		return nil, err
	}
	slog.Debug("Registered tools", "tools", names)
	return server, nil
}

// Serve runs server over stdio until the client disconnects or ctx is done.
func Serve(ctx context.Context, server *sdkmcp.Server) error {
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func RegisterSDKTools(server *sdkmcp.Server, reg *ToolRegistry) ([]string, error) {
	if server == nil || reg == nil {
		return nil, fmt.Errorf("server and registry are required")
	}
	toolNames := reg.Names()
	for _, spec := range reg.Specs() {
		schema := spec.InputSchema
		if schema == nil {
			schema = map[string]any{"type": "object"}
		}
		tool := &sdkmcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: schema,
		}
		server.AddTool(tool, toolHandler(spec, reg.timeout))
	}
	return toolNames, nil
}

func toolHandler(spec ToolSpec, timeout time.Duration) sdkmcp.ToolHandler {
	return func(callCtx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var raw json.RawMessage
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			args := map[string]any{}
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, &sdkjsonrpc.Error{Code: sdkjsonrpc.CodeInvalidParams, Message: fmt.Sprintf("invalid arguments: %v", err)}
			}
			raw = req.Params.Arguments
		}

		start := time.Now()
		execCtx, cancel := withToolTimeout(callCtx, timeout, spec)
		result, toolErr := spec.Handler(execCtx, raw)
		cancel()

		if toolErr != nil {
			slog.Warn("Tool call failed", "tool", spec.Name, "duration", time.Since(start), "error", toolErr)
		} else {
			slog.Info("Tool call", "tool", spec.Name, "duration", time.Since(start))
		}
		return buildCallToolResult(result, toolErr), nil
	}
}

func buildCallToolResult(result any, toolErr error) *sdkmcp.CallToolResult {
	res := &sdkmcp.CallToolResult{}
	if toolErr != nil {
		res.IsError = true
		res.StructuredContent = BuildErrorEnvelope(toolErr, nil)
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: toolErr.Error()}}
		return res
	}

	if result == nil {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: "{}"}}
		return res
	}
	res.StructuredContent = result
	dataJSON, err := json.Marshal(result)
	if err != nil {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: fmt.Sprintf("%v", result)}}
	} else {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: string(dataJSON)}}
	}
	return res
}
