package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type fakeTool struct {
	name    string
	execute func(ctx context.Context, input json.RawMessage) (interface{}, error)
}

func (t *fakeTool) Name() string            { return t.name }
func (t *fakeTool) Description() string     { return "fake tool" }
func (t *fakeTool) Schema() json.RawMessage { return json.RawMessage(`{"type": "object"}`) }
func (t *fakeTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return t.execute(ctx, input)
}

func TestRegistryRegisterAndExecute(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&fakeTool{
		name: "echo",
		execute: func(ctx context.Context, input json.RawMessage) (interface{}, error) {
			return string(input), nil
		},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := registry.Execute(context.Background(), "echo", json.RawMessage(`{"a":1}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result != `{"a":1}` {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	tool := &fakeTool{name: "dup", execute: func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		return nil, nil
	}}

	if err := registry.Register(tool); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := registry.Register(tool); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register(&fakeTool{name: "", execute: nil})
	if err == nil {
		t.Error("expected empty name registration to fail")
	}
}

func TestRegistryToolNotFound(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Execute(context.Background(), "missing", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %T", err)
	}
	if toolErr.Code != -32601 {
		t.Errorf("expected code -32601, got %d", toolErr.Code)
	}
}

func TestExecuteWithTimeout(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeTool{
		name: "slow",
		execute: func(ctx context.Context, input json.RawMessage) (interface{}, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return "done", nil
			}
		},
	})

	_, err := registry.ExecuteWithTimeout("slow", json.RawMessage(`{}`), 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRegistryNames(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewHealthTool())

	names := registry.Names()
	if len(names) != 1 || names[0] != "health" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestHealthTool(t *testing.T) {
	tool := NewHealthTool()

	if tool.Name() != "health" {
		t.Errorf("expected name 'health', got '%s'", tool.Name())
	}
	if tool.Description() == "" {
		t.Error("description should not be empty")
	}

	result, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	status := result.(map[string]interface{})["status"]
	if status != "healthy" {
		t.Errorf("expected healthy, got %v", status)
	}
}
