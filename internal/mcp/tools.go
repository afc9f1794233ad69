package mcp

import "github.com/mark3labs/mcp-go/mcp"

// classifyQueryTool defines the classify_query MCP tool.
var classifyQueryTool = mcp.NewTool("classify_query",
	mcp.WithDescription("Decide whether a question about electronic components goes to the local component search or to the chat model."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Free-text question, Russian or English"),
	),
)

// askCatalogTool defines the ask_catalog MCP tool.
var askCatalogTool = mcp.NewTool("ask_catalog",
	mcp.WithDescription("Ask the component catalog a question. Searches for transistors, diodes and tubes, or answers general electronics questions through the chat model when a key is stored."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Free-text question, e.g. \"КТ315 характеристики\""),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default text)"),
		mcp.Enum("text", "json"),
	),
)

// getCharacteristicsTool defines the get_characteristics MCP tool.
var getCharacteristicsTool = mcp.NewTool("get_characteristics",
	mcp.WithDescription("Get the voltage-current characteristic (ВАХ) of a component."),
	mcp.WithString("component_id",
		mcp.Required(),
		mcp.Description("Component identifier, e.g. KT315 or 1N4148"),
	),
)

// recentQueriesTool defines the recent_queries MCP tool.
var recentQueriesTool = mcp.NewTool("recent_queries",
	mcp.WithDescription("List the most recent successful catalog questions, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of entries to return (default 5)"),
	),
)
