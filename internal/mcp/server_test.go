package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/SRINIVASINDIA/Local-guide/internal/engine"
)

const testGuide = `# Guide

## Local Slang

- "Macha" - friend, buddy
`

func setupMCP(t *testing.T) *Server {
	t.Helper()
	eng, err := engine.New(engine.Options{
		Loader: func() (string, error) { return testGuide, nil },
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return NewServer(eng)
}

func callArgs(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_guide", askGuideTool, "ask_guide"},
		{"lookup_slang", lookupSlangTool, "lookup_slang"},
		{"reload_guide", reloadGuideTool, "reload_guide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestHandleAskGuide(t *testing.T) {
	s := setupMCP(t)

	res, err := s.handleAskGuide(context.Background(), callArgs(map[string]any{"query": `what does "macha" mean`}))
	if err != nil {
		t.Fatalf("handleAskGuide: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "friend, buddy") {
		t.Errorf("result = %q, missing the definition", text)
	}
	if !strings.Contains(text, "session_id:") {
		t.Errorf("result = %q, missing the session id", text)
	}

	res, err = s.handleAskGuide(context.Background(), callArgs(nil))
	if err != nil {
		t.Fatalf("handleAskGuide without query: %v", err)
	}
	if !res.IsError {
		t.Error("missing query did not produce a tool error")
	}
}

func TestHandleLookupSlang(t *testing.T) {
	s := setupMCP(t)

	res, err := s.handleLookupSlang(context.Background(), callArgs(map[string]any{"term": "macha"}))
	if err != nil {
		t.Fatalf("handleLookupSlang: %v", err)
	}
	if got := resultText(t, res); !strings.Contains(got, "friend, buddy") {
		t.Errorf("result = %q", got)
	}

	res, err = s.handleLookupSlang(context.Background(), callArgs(map[string]any{"term": "gubbi"}))
	if err != nil {
		t.Fatalf("handleLookupSlang unknown: %v", err)
	}
	if got := resultText(t, res); !strings.Contains(got, "not in the current guide") {
		t.Errorf("unknown term result = %q, want an honest miss", got)
	}
}

func TestHandleReloadGuide(t *testing.T) {
	s := setupMCP(t)

	res, err := s.handleReloadGuide(context.Background(), callArgs(nil))
	if err != nil {
		t.Fatalf("handleReloadGuide: %v", err)
	}
	if got := resultText(t, res); !strings.Contains(got, "reloaded") {
		t.Errorf("result = %q", got)
	}
}
