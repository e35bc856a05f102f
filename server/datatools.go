package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/morvo-ai/engine/engine"
)

// DataFetchTool handles the data_fetch MCP tool.
type DataFetchTool struct {
	engine *engine.Engine
}

// NewDataFetchTool creates a DataFetchTool backed by the engine.
func NewDataFetchTool(e *engine.Engine) *DataFetchTool {
	return &DataFetchTool{engine: e}
}

// Definition returns the MCP tool definition for data_fetch.
func (t *DataFetchTool) Definition() mcp.Tool {
	return mcp.NewTool("data_fetch",
		mcp.WithDescription(
			"Fetch one data type from an external data source. Connectors are "+
				"registered by the host application when it constructs the engine; "+
				"without any, every fetch reports an unknown source. Results are "+
				"cached per parameter set; when the source is down, the last good "+
				"result is served stale.",
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Registered source name"),
		),
		mcp.WithString("data_type",
			mcp.Required(),
			mcp.Description("Data type to fetch (e.g. keywords, traffic)"),
		),
		mcp.WithString("params",
			mcp.Description("JSON object of fetch parameters"),
		),
		mcp.WithBoolean("force_refresh",
			mcp.Description("Bypass the cache and hit the source"),
		),
	)
}

// Handle processes the data_fetch tool call.
func (t *DataFetchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := req.GetString("source", "")
	dataType := req.GetString("data_type", "")
	if source == "" || dataType == "" {
		return mcp.NewToolResultError("'source' and 'data_type' are required"), nil
	}

	params, err := jsonArg(req, "params")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.engine.Data().Fetch(ctx, source, dataType, params, req.GetBool("force_refresh", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch failed: %v", err)), nil
	}
	return jsonResult(result), nil
}
