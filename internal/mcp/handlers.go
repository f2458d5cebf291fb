package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleAskGuide runs one query through the engine pipeline.
func (s *Server) handleAskGuide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	sessionID := request.GetString("session_id", "")

	result, err := s.engine.Ask(ctx, sessionID, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid query: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString(result.Text)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "session_id: %s\n", result.SessionID)
	fmt.Fprintf(&b, "intent: %s\n", result.Intent)
	fmt.Fprintf(&b, "knowledge_version: %s\n", result.KnowledgeVersion)
	return mcp.NewToolResultText(b.String()), nil
}

// handleLookupSlang resolves a single slang term.
func (s *Server) handleLookupSlang(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: term"), nil
	}

	fact, ok := s.engine.LookupSlang(term)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("The term %q is not in the current guide document.", term)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%q means %q.", fact.Term, fact.Meaning)), nil
}

// handleReloadGuide swaps in a freshly parsed guide document.
func (s *Server) handleReloadGuide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.engine.Reload(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reload failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Guide reloaded, knowledge version %s.", s.engine.KnowledgeVersion())), nil
}
