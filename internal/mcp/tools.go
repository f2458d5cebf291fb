package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askGuideTool defines the ask_guide MCP tool.
var askGuideTool = mcp.NewTool("ask_guide",
	mcp.WithDescription("Ask the local guide a question about slang, traffic, food, itineraries, or culture. Answers are grounded in the loaded guide document."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language question for the guide"),
	),
	mcp.WithString("session_id",
		mcp.Description("Session to continue; omit to start a new one"),
	),
)

// lookupSlangTool defines the lookup_slang MCP tool.
var lookupSlangTool = mcp.NewTool("lookup_slang",
	mcp.WithDescription("Look up the meaning of a local slang term. Returns the definition from the guide document, or reports the term as unknown."),
	mcp.WithString("term",
		mcp.Required(),
		mcp.Description("Slang term to look up"),
	),
)

// reloadGuideTool defines the reload_guide MCP tool.
var reloadGuideTool = mcp.NewTool("reload_guide",
	mcp.WithDescription("Reload the guide document from disk. Existing sessions keep answering from the version they started with until refreshed."),
)
