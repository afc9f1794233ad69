package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/classify"
	"github.com/ziadkadry99/partscope/internal/notify"
)

// handleClassifyQuery reports the routing decision for a question.
func (s *Server) handleClassifyQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	intent := classify.Classify(query)
	text := fmt.Sprintf("intent: %s\ncomponent_id_detected: %t", intent, classify.HasComponentID(query))
	return mcp.NewToolResultText(text), nil
}

// handleAskCatalog dispatches a question exactly like the web page does.
func (s *Server) handleAskCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	res := s.dispatcher.Dispatch(ctx, query, notify.Discard)

	if request.GetString("format", "text") == "json" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
		}
		if !res.Success {
			return mcp.NewToolResultError(string(data)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	text := s.renderer.Text(res)
	if !res.Success {
		return mcp.NewToolResultError(text), nil
	}
	return mcp.NewToolResultText(text), nil
}

// handleGetCharacteristics fetches and summarizes one component's curve.
func (s *Server) handleGetCharacteristics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("component_id")
	if err != nil || strings.TrimSpace(id) == "" {
		return mcp.NewToolResultError("missing required parameter: component_id"), nil
	}
	if s.curves == nil {
		return mcp.NewToolResultError("characteristics are not available: no search backend configured"), nil
	}

	curve, err := s.curves.Characteristics(ctx, strings.TrimSpace(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching characteristics: %v", err)), nil
	}

	return mcp.NewToolResultText(s.renderer.Text(catalog.QueryResult{
		Success: true,
		Mode:    catalog.ModeBrain,
		Result:  curve,
	})), nil
}

// handleRecentQueries lists recent questions.
func (s *Server) handleRecentQueries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("history is not available"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	entries := s.history.List(ctx, limit)
	if len(entries) == 0 {
		return mcp.NewToolResultText("No queries recorded yet."), nil
	}

	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. [%s/%s] %s", i+1, e.Type, e.Mode, e.Query)
		if e.ResultCount > 0 {
			fmt.Fprintf(&b, " (%d)", e.ResultCount)
		}
		if e.Timestamp != "" {
			fmt.Fprintf(&b, ", %s", e.Timestamp)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
