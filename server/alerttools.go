package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/morvo-ai/engine/engine"
)

// AlertsCheckTool handles the alerts_check MCP tool.
type AlertsCheckTool struct {
	engine *engine.Engine
}

// NewAlertsCheckTool creates an AlertsCheckTool backed by the engine.
func NewAlertsCheckTool(e *engine.Engine) *AlertsCheckTool {
	return &AlertsCheckTool{engine: e}
}

// Definition returns the MCP tool definition for alerts_check.
func (t *AlertsCheckTool) Definition() mcp.Tool {
	return mcp.NewTool("alerts_check",
		mcp.WithDescription(
			"Sweep a company's synchronized context for marketing opportunities "+
				"(traffic spikes, keyword openings, engagement spikes) and fan "+
				"detected alerts out to the responsible agents.",
		),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("Company to sweep"),
		),
	)
}

// Handle processes the alerts_check tool call.
func (t *AlertsCheckTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	companyID := req.GetString("company_id", "")
	if companyID == "" {
		return mcp.NewToolResultError("'company_id' is required"), nil
	}

	detected, err := t.engine.Alerts().CheckAll(ctx, companyID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check failed: %v", err)), nil
	}
	if len(detected) == 0 {
		return mcp.NewToolResultText("No opportunities detected."), nil
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Detected %d alert(s):\n", len(detected))
	for _, alert := range detected {
		agents, err := t.engine.Alerts().StoreAlert(ctx, alert)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to store %s alert: %v", alert.Type, err)), nil
		}
		fmt.Fprintf(&summary, "- %s (%s priority, %d opportunities) -> %s\n",
			alert.Type, alert.Priority, len(alert.Opportunities), strings.Join(agents, ", "))
	}
	return mcp.NewToolResultText(summary.String()), nil
}

// AlertsActiveTool handles the alerts_active MCP tool.
type AlertsActiveTool struct {
	engine *engine.Engine
}

// NewAlertsActiveTool creates an AlertsActiveTool backed by the engine.
func NewAlertsActiveTool(e *engine.Engine) *AlertsActiveTool {
	return &AlertsActiveTool{engine: e}
}

// Definition returns the MCP tool definition for alerts_active.
func (t *AlertsActiveTool) Definition() mcp.Tool {
	return mcp.NewTool("alerts_active",
		mcp.WithDescription(
			"List the unexpired alerts for a company, highest priority first.",
		),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("Company whose alerts to list"),
		),
	)
}

// Handle processes the alerts_active tool call.
func (t *AlertsActiveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	companyID := req.GetString("company_id", "")
	if companyID == "" {
		return mcp.NewToolResultError("'company_id' is required"), nil
	}

	active, err := t.engine.Alerts().Active(ctx, companyID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list alerts: %v", err)), nil
	}
	return jsonResult(active), nil
}
