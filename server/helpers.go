package server

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonArg parses a tool argument holding a JSON object string. A missing or
// empty argument yields a nil map.
func jsonArg(req mcp.CallToolRequest, key string) (map[string]any, error) {
	raw := req.GetString(key, "")
	if raw == "" {
		return nil, nil
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("'%s' must be a JSON object: %w", key, err)
	}
	return parsed, nil
}

// jsonResult renders a value as a pretty-printed JSON tool result.
func jsonResult(v any) *mcp.CallToolResult {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(encoded))
}
