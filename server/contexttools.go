package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/morvo-ai/engine/engine"
)

// SyncTool handles the context_sync MCP tool.
type SyncTool struct {
	engine *engine.Engine
}

// NewSyncTool creates a SyncTool backed by the engine.
func NewSyncTool(e *engine.Engine) *SyncTool {
	return &SyncTool{engine: e}
}

// Definition returns the MCP tool definition for context_sync.
func (t *SyncTool) Definition() mcp.Tool {
	return mcp.NewTool("context_sync",
		mcp.WithDescription(
			"Merge a context snapshot with the shareable slice of every agent's recent "+
				"memories for a company into one cross-agent context and redistribute "+
				"each agent's filtered view. Call this after recording new observations.",
		),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("Company whose context to synchronize"),
		),
		mcp.WithString("data",
			mcp.Description("Optional JSON object with fresh context to merge in"),
		),
	)
}

// Handle processes the context_sync tool call.
func (t *SyncTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	companyID := req.GetString("company_id", "")
	if companyID == "" {
		return mcp.NewToolResultError("'company_id' is required"), nil
	}

	data, err := jsonArg(req, "data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	merged, err := t.engine.Synchronize(ctx, companyID, data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("synchronization failed: %v", err)), nil
	}
	return jsonResult(merged), nil
}

// ContextTool handles the context_get MCP tool.
type ContextTool struct {
	engine *engine.Engine
}

// NewContextTool creates a ContextTool backed by the engine.
func NewContextTool(e *engine.Engine) *ContextTool {
	return &ContextTool{engine: e}
}

// Definition returns the MCP tool definition for context_get.
func (t *ContextTool) Definition() mcp.Tool {
	return mcp.NewTool("context_get",
		mcp.WithDescription(
			"Assemble an agent's effective context for a company: views shared with "+
				"the agent overlaid with its own memories, newest values winning.",
		),
		mcp.WithString("agent_id",
			mcp.Required(),
			mcp.Description("Agent whose context to assemble (M1..M5)"),
		),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("Company the context concerns"),
		),
		mcp.WithString("keys",
			mcp.Description("Comma-separated context keys to include (default: all shared keys)"),
		),
	)
}

// Handle processes the context_get tool call.
func (t *ContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentID := req.GetString("agent_id", "")
	companyID := req.GetString("company_id", "")
	if agentID == "" || companyID == "" {
		return mcp.NewToolResultError("'agent_id' and 'company_id' are required"), nil
	}

	var keys []string
	if raw := req.GetString("keys", ""); raw != "" {
		for _, key := range strings.Split(raw, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
	}

	view, err := t.engine.Contexts().Synchronized(ctx, agentID, companyID, keys)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context assembly failed: %v", err)), nil
	}
	return jsonResult(view), nil
}

// PushTool handles the context_push MCP tool.
type PushTool struct {
	engine *engine.Engine
}

// NewPushTool creates a PushTool backed by the engine.
func NewPushTool(e *engine.Engine) *PushTool {
	return &PushTool{engine: e}
}

// Definition returns the MCP tool definition for context_push.
func (t *PushTool) Definition() mcp.Tool {
	return mcp.NewTool("context_push",
		mcp.WithDescription(
			"Share a context fragment from one agent directly to another. The target "+
				"receives the keys its specialty consumes, stored in its shared context "+
				"and delivered live when possible.",
		),
		mcp.WithString("from_agent",
			mcp.Required(),
			mcp.Description("Agent sharing the context"),
		),
		mcp.WithString("to_agent",
			mcp.Required(),
			mcp.Description("Agent receiving the context (M1..M5)"),
		),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("Company the context concerns"),
		),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("JSON object holding the context fragment"),
		),
	)
}

// Handle processes the context_push tool call.
func (t *PushTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fromAgent := req.GetString("from_agent", "")
	toAgent := req.GetString("to_agent", "")
	companyID := req.GetString("company_id", "")
	if fromAgent == "" || toAgent == "" || companyID == "" {
		return mcp.NewToolResultError("'from_agent', 'to_agent', and 'company_id' are required"), nil
	}

	data, err := jsonArg(req, "data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(data) == 0 {
		return mcp.NewToolResultError("'data' is required"), nil
	}

	if err := t.engine.Contexts().Push(ctx, fromAgent, []string{toAgent}, companyID, data); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("push failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Context pushed from %s to %s (%d keys)", fromAgent, toAgent, len(data))), nil
}

// BroadcastTool handles the context_broadcast MCP tool.
type BroadcastTool struct {
	engine *engine.Engine
}

// NewBroadcastTool creates a BroadcastTool backed by the engine.
func NewBroadcastTool(e *engine.Engine) *BroadcastTool {
	return &BroadcastTool{engine: e}
}

// Definition returns the MCP tool definition for context_broadcast.
func (t *BroadcastTool) Definition() mcp.Tool {
	return mcp.NewTool("context_broadcast",
		mcp.WithDescription(
			"Distribute a critical update to every agent in the category's priority "+
				"order. Categories: seo, social, campaign, content, analytics.",
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Update category deciding the delivery order"),
		),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("Company the update concerns"),
		),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("JSON object holding the update"),
		),
	)
}

// Handle processes the context_broadcast tool call.
func (t *BroadcastTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")
	companyID := req.GetString("company_id", "")
	if category == "" || companyID == "" {
		return mcp.NewToolResultError("'category' and 'company_id' are required"), nil
	}

	data, err := jsonArg(req, "data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	order, err := t.engine.Contexts().BroadcastCritical(ctx, category, companyID, data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("broadcast failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Broadcast delivered in order: %s", strings.Join(order, ", "))), nil
}
