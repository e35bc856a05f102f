package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/morvo-ai/engine/engine"
	"github.com/morvo-ai/engine/memory"
)

// MemorySaveTool handles the memory_save MCP tool.
type MemorySaveTool struct {
	engine *engine.Engine
}

// NewMemorySaveTool creates a MemorySaveTool backed by the engine.
func NewMemorySaveTool(e *engine.Engine) *MemorySaveTool {
	return &MemorySaveTool{engine: e}
}

// Definition returns the MCP tool definition for memory_save.
func (t *MemorySaveTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_save",
		mcp.WithDescription(
			"Store an observation in an agent's memory. Use shared context keys "+
				"(seo_data, social_analytics, campaign_metrics, content_performance, "+
				"analytics_data, ...) so context_sync can pick the observation up.",
		),
		mcp.WithString("agent_id",
			mcp.Required(),
			mcp.Description("Agent owning the memory (M1..M5)"),
		),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("Company the observation concerns"),
		),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("JSON object holding the observation"),
		),
		mcp.WithString("kind",
			mcp.Description("Optional record kind (e.g. observation, report)"),
		),
	)
}

// Handle processes the memory_save tool call.
func (t *MemorySaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentID := req.GetString("agent_id", "")
	companyID := req.GetString("company_id", "")
	if agentID == "" || companyID == "" {
		return mcp.NewToolResultError("'agent_id' and 'company_id' are required"), nil
	}

	data, err := jsonArg(req, "data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(data) == 0 {
		return mcp.NewToolResultError("'data' is required"), nil
	}

	id, err := t.engine.Store().Append(ctx, memory.Record{
		AgentID:   agentID,
		CompanyID: companyID,
		Kind:      req.GetString("kind", ""),
		Data:      data,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save memory: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Memory saved for %s\nID: %s", agentID, id)), nil
}

// MemoryRecentTool handles the memory_recent MCP tool.
type MemoryRecentTool struct {
	engine *engine.Engine
}

// NewMemoryRecentTool creates a MemoryRecentTool backed by the engine.
func NewMemoryRecentTool(e *engine.Engine) *MemoryRecentTool {
	return &MemoryRecentTool{engine: e}
}

// Definition returns the MCP tool definition for memory_recent.
func (t *MemoryRecentTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_recent",
		mcp.WithDescription("List an agent's most recent memories for a company, newest first."),
		mcp.WithString("agent_id",
			mcp.Required(),
			mcp.Description("Agent whose memories to list (M1..M5)"),
		),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("Company the memories concern"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum records to return (default: store default)"),
		),
	)
}

// Handle processes the memory_recent tool call.
func (t *MemoryRecentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentID := req.GetString("agent_id", "")
	companyID := req.GetString("company_id", "")
	if agentID == "" || companyID == "" {
		return mcp.NewToolResultError("'agent_id' and 'company_id' are required"), nil
	}

	limit := int(req.GetFloat("limit", 0))

	records, err := t.engine.Store().Recent(ctx, agentID, companyID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read memories: %v", err)), nil
	}
	return jsonResult(records), nil
}
