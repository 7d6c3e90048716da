package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/lonniev/dpyc-oracle/internal/tools"
)

type echoTool struct{}

func (t *echoTool) Name() string        { return "echo" }
func (t *echoTool) Description() string { return "echoes its input back" }
func (t *echoTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {"text": {"type": "string"}}}`)
}
func (t *echoTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req struct {
		Text string `json:"text"`
	}
	json.Unmarshal(input, &req)
	return req.Text, nil
}

type failTool struct{}

func (t *failTool) Name() string            { return "fail" }
func (t *failTool) Description() string     { return "always fails" }
func (t *failTool) Schema() json.RawMessage { return json.RawMessage(`{"type": "object"}`) }
func (t *failTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return nil, fmt.Errorf("upstream unavailable")
}

type panicTool struct{}

func (t *panicTool) Name() string            { return "panic" }
func (t *panicTool) Description() string     { return "always panics" }
func (t *panicTool) Schema() json.RawMessage { return json.RawMessage(`{"type": "object"}`) }
func (t *panicTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	panic("kaboom")
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	registry := tools.NewRegistry()
	registry.Register(&echoTool{})
	registry.Register(&panicTool{})
	registry.Register(&failTool{})
	registry.Register(tools.NewHealthTool())
	return NewHandler(registry)
}

func TestHandleInitialize(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params: map[string]interface{}{
			"protocolVersion": "2025-03-26",
			"clientInfo": map[string]interface{}{
				"name":    "test-client",
				"version": "1.0",
			},
		},
	})

	if resp.Error != nil {
		t.Fatalf("initialize failed: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	if result["protocolVersion"] != "2025-03-26" {
		t.Errorf("unexpected protocol version: %v", result["protocolVersion"])
	}

	serverInfo := result["serverInfo"].(map[string]interface{})
	if serverInfo["name"] != "dpyc-oracle" {
		t.Errorf("unexpected server name: %v", serverInfo["name"])
	}

	instructions := result["instructions"].(string)
	if !strings.Contains(instructions, "Honor Chain") {
		t.Error("instructions missing Honor Chain context")
	}
}

func TestInitializeNegotiatesUnknownVersion(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params: map[string]interface{}{
			"protocolVersion": "1999-01-01",
		},
	})

	result := resp.Result.(map[string]interface{})
	if result["protocolVersion"] != "2025-03-26" {
		t.Errorf("expected fallback to current version, got %v", result["protocolVersion"])
	}
}

func TestHandlePing(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{JSONRPC: "2.0", ID: 2, Method: "ping"})
	if resp.Error != nil {
		t.Fatalf("ping failed: %v", resp.Error)
	}
}

func TestHandleListTools(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{JSONRPC: "2.0", ID: 3, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("tools/list failed: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	toolsData := result["tools"].([]map[string]interface{})
	if len(toolsData) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(toolsData))
	}

	for _, toolData := range toolsData {
		if toolData["name"] == "" {
			t.Error("tool with empty name in listing")
		}
		if _, ok := toolData["inputSchema"]; !ok {
			t.Errorf("tool %v missing inputSchema", toolData["name"])
		}
	}
}

func TestHandleCallTool(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{
		JSONRPC: "2.0",
		ID:      4,
		Method:  "tools/call",
		Params: map[string]interface{}{
			"name":      "echo",
			"arguments": map[string]interface{}{"text": "hello oracle"},
		},
	})
	if resp.Error != nil {
		t.Fatalf("tools/call failed: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(content))
	}
	if content[0]["type"] != "text" {
		t.Errorf("expected text content, got %v", content[0]["type"])
	}
	if content[0]["text"] != "hello oracle" {
		t.Errorf("unexpected text: %v", content[0]["text"])
	}
}

func TestCallToolWithoutArguments(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{
		JSONRPC: "2.0",
		ID:      5,
		Method:  "tools/call",
		Params:  map[string]interface{}{"name": "health"},
	})
	if resp.Error != nil {
		t.Fatalf("tools/call failed: %v", resp.Error)
	}
}

func TestCallToolMissingName(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{
		JSONRPC: "2.0",
		ID:      6,
		Method:  "tools/call",
		Params:  map[string]interface{}{},
	})
	if resp.Error == nil {
		t.Fatal("expected error for missing tool name")
	}
}

func TestCallToolRecoversPanic(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{
		JSONRPC: "2.0",
		ID:      7,
		Method:  "tools/call",
		Params:  map[string]interface{}{"name": "panic"},
	})
	if resp.Error == nil {
		t.Fatal("expected error from panicking tool")
	}
	if !strings.Contains(resp.Error.Message, "panicked") {
		t.Errorf("unexpected error: %v", resp.Error.Message)
	}
}

func TestCallToolNotFoundCode(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{
		JSONRPC: "2.0",
		ID:      9,
		Method:  "tools/call",
		Params:  map[string]interface{}{"name": "no-such-tool"},
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("expected -32601, got %d", resp.Error.Code)
	}
}

func TestCallToolWrapsExecutionError(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{
		JSONRPC: "2.0",
		ID:      10,
		Method:  "tools/call",
		Params:  map[string]interface{}{"name": "fail"},
	})
	if resp.Error == nil {
		t.Fatal("expected error from failing tool")
	}
	if resp.Error.Code != -32603 {
		t.Errorf("expected -32603, got %d", resp.Error.Code)
	}
	if !strings.Contains(resp.Error.Message, "Error executing tool fail") {
		t.Errorf("unexpected message: %s", resp.Error.Message)
	}
}

// The TCP transport dispatches requests on separate goroutines against
// one shared handler; session-state writes must be safe under -race.
func TestHandlerConcurrentSessions(t *testing.T) {
	handler := newTestHandler(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := handler.Handle(&Request{
				JSONRPC: "2.0",
				ID:      i,
				Method:  "initialize",
				Params: map[string]interface{}{
					"protocolVersion": "2025-03-26",
					"clientInfo": map[string]interface{}{
						"name":    fmt.Sprintf("client-%d", i),
						"version": "1.0",
					},
				},
			})
			if resp.Error != nil {
				t.Errorf("initialize failed: %v", resp.Error)
			}
			handler.Handle(&Request{JSONRPC: "2.0", Method: "notifications/initialized"})
		}(i)
	}
	wg.Wait()
}

func TestUnknownMethod(t *testing.T) {
	handler := newTestHandler(t)

	resp := handler.Handle(&Request{JSONRPC: "2.0", ID: 8, Method: "resources/list"})
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("expected -32601, got %d", resp.Error.Code)
	}
}
