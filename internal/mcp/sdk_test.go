package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	sdkjsonrpc "github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/awscostlens/internal/tools"
)

func TestRegisterSDKToolsAndToolHandler(t *testing.T) {
	reg := NewRegistry(0)
	var gotArgs json.RawMessage
	spec := ToolSpec{
		Name:        "demo",
		InputSchema: map[string]any{"type": "object"},
		Handler: func(_ context.Context, args json.RawMessage) (any, error) {
			gotArgs = args
			return map[string]any{"ok": true}, nil
		},
	}
	_ = reg.Add(spec)
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "awscostlens", Version: "test"}, nil)
	names, err := RegisterSDKTools(server, reg)
	if err != nil {
		t.Fatalf("register tools: %v", err)
	}
	if len(names) != 1 || names[0] != "demo" {
		t.Fatalf("unexpected tools list: %#v", names)
	}

	handler := toolHandler(spec, 0)
	args, _ := json.Marshal(map[string]any{"name": "ok"})
	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{Name: "demo", Arguments: args}}
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result")
	}
	if string(gotArgs) != `{"name":"ok"}` {
		t.Fatalf("expected raw arguments passed through, got %s", gotArgs)
	}
}

func TestRegisterSDKToolsNilArgs(t *testing.T) {
	if _, err := RegisterSDKTools(nil, nil); err == nil {
		t.Fatalf("expected error for nil server/registry")
	}
}

func TestToolHandlerInvalidArguments(t *testing.T) {
	handler := toolHandler(ToolSpec{Name: "demo", Handler: noopHandler}, 0)
	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{Name: "demo", Arguments: json.RawMessage(`[1,2]`)}}
	_, err := handler(context.Background(), req)
	rpcErr, ok := err.(*sdkjsonrpc.Error)
	if !ok {
		t.Fatalf("expected jsonrpc error, got %v", err)
	}
	if rpcErr.Code != sdkjsonrpc.CodeInvalidParams {
		t.Fatalf("expected invalid params code, got %d", rpcErr.Code)
	}
}

func TestToolHandlerNilRequest(t *testing.T) {
	var gotArgs json.RawMessage = json.RawMessage("sentinel")
	handler := toolHandler(ToolSpec{Name: "demo", Handler: func(_ context.Context, args json.RawMessage) (any, error) {
		gotArgs = args
		return nil, nil
	}}, 0)
	res, err := handler(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotArgs != nil {
		t.Fatalf("expected nil arguments, got %s", gotArgs)
	}
	text := res.Content[0].(*sdkmcp.TextContent).Text
	if text != "{}" {
		t.Fatalf("expected empty object text, got %q", text)
	}
}

func TestBuildCallToolResultSuccess(t *testing.T) {
	out := buildCallToolResult(&tools.Result[string]{Summary: "ok", Datapoints: []string{"a"}}, nil)
	if out.StructuredContent == nil {
		t.Fatalf("expected structured content")
	}
	text := out.Content[0].(*sdkmcp.TextContent).Text
	if text != `{"summary":"ok","datapoints":["a"]}` {
		t.Fatalf("unexpected text content %s", text)
	}
}

func TestBuildCallToolResultError(t *testing.T) {
	out := buildCallToolResult(nil, &tools.ArgumentError{Field: "period", Message: "must be positive"})
	if !out.IsError {
		t.Fatalf("expected error result")
	}
	envelope := out.StructuredContent.(map[string]any)
	if envelope["error"].(ErrorDetail).Code != "invalid_request" {
		t.Fatalf("unexpected envelope %#v", envelope)
	}
	if !strings.Contains(out.Content[0].(*sdkmcp.TextContent).Text, "period") {
		t.Fatalf("expected error text")
	}
}

func TestServerEndToEnd(t *testing.T) {
	reg := NewRegistry(0)
	_ = reg.Add(ToolSpec{
		Name:        "echo",
		Description: "Echo the summary",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{"text": map[string]any{"type": "string"}}},
		Handler: func(_ context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			if in.Text == "" {
				return nil, &tools.ArgumentError{Field: "text", Message: "is required"}
			}
			return &tools.Result[string]{Summary: in.Text, Datapoints: []string{}}, nil
		},
	})
	server, err := NewServer("test", reg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx := context.Background()
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	listed, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(listed.Tools) != 1 || listed.Tools[0].Name != "echo" {
		t.Fatalf("unexpected tools %#v", listed.Tools)
	}

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "echo", Arguments: map[string]any{"text": "hello"}})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result")
	}
	if text := res.Content[0].(*sdkmcp.TextContent).Text; !strings.Contains(text, `"summary":"hello"`) {
		t.Fatalf("unexpected content %s", text)
	}

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "echo", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected error result for missing argument")
	}
}
