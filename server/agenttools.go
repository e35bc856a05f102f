package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/morvo-ai/engine/engine"
)

// ChatTool handles the agent_chat MCP tool.
type ChatTool struct {
	engine *engine.Engine
}

// NewChatTool creates a ChatTool backed by the engine.
func NewChatTool(e *engine.Engine) *ChatTool {
	return &ChatTool{engine: e}
}

// Definition returns the MCP tool definition for agent_chat.
func (t *ChatTool) Definition() mcp.Tool {
	return mcp.NewTool("agent_chat",
		mcp.WithDescription(
			"Ask one of the Morvo marketing agents a question about a company. "+
				"The agent's synchronized marketing context is injected automatically "+
				"and the exchange is stored in its memory.",
		),
		mcp.WithString("agent_id",
			mcp.Required(),
			mcp.Description("Agent to address: M1 (strategy), M2 (social), M3 (campaigns), M4 (content), M5 (analytics)"),
		),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("Company the question concerns"),
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The question or instruction for the agent"),
		),
	)
}

// Handle processes the agent_chat tool call.
func (t *ChatTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentID := req.GetString("agent_id", "")
	companyID := req.GetString("company_id", "")
	prompt := req.GetString("prompt", "")

	if agentID == "" || companyID == "" || prompt == "" {
		return mcp.NewToolResultError("'agent_id', 'company_id', and 'prompt' are required"), nil
	}

	reply, err := t.engine.Chat(ctx, companyID, agentID, prompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
	}
	return mcp.NewToolResultText(reply), nil
}

// AgentsTool handles the agent_list MCP tool.
type AgentsTool struct {
	engine *engine.Engine
}

// NewAgentsTool creates an AgentsTool backed by the engine.
func NewAgentsTool(e *engine.Engine) *AgentsTool {
	return &AgentsTool{engine: e}
}

// Definition returns the MCP tool definition for agent_list.
func (t *AgentsTool) Definition() mcp.Tool {
	return mcp.NewTool("agent_list",
		mcp.WithDescription("List the Morvo agents: their IDs, names, and specialties."),
	)
}

// Handle processes the agent_list tool call.
func (t *AgentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.engine.Registry().List()), nil
}
