// Package server wires the Morvo engine into an MCP server. This is the
// composition root: it creates tool handlers around engine subsystems and
// registers them. No business logic lives here — only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/morvo-ai/engine/engine"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all Morvo tools registered.
func New(e *engine.Engine) *server.MCPServer {
	s := server.NewMCPServer(
		"morvo",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	chatTool := NewChatTool(e)
	s.AddTool(chatTool.Definition(), chatTool.Handle)

	agentsTool := NewAgentsTool(e)
	s.AddTool(agentsTool.Definition(), agentsTool.Handle)

	syncTool := NewSyncTool(e)
	s.AddTool(syncTool.Definition(), syncTool.Handle)

	contextTool := NewContextTool(e)
	s.AddTool(contextTool.Definition(), contextTool.Handle)

	pushTool := NewPushTool(e)
	s.AddTool(pushTool.Definition(), pushTool.Handle)

	broadcastTool := NewBroadcastTool(e)
	s.AddTool(broadcastTool.Definition(), broadcastTool.Handle)

	saveTool := NewMemorySaveTool(e)
	s.AddTool(saveTool.Definition(), saveTool.Handle)

	recentTool := NewMemoryRecentTool(e)
	s.AddTool(recentTool.Definition(), recentTool.Handle)

	checkTool := NewAlertsCheckTool(e)
	s.AddTool(checkTool.Definition(), checkTool.Handle)

	activeTool := NewAlertsActiveTool(e)
	s.AddTool(activeTool.Definition(), activeTool.Handle)

	fetchTool := NewDataFetchTool(e)
	s.AddTool(fetchTool.Definition(), fetchTool.Handle)

	return s
}

func serverInstructions() string {
	return `Morvo is a marketing automation backend run by five specialist agents:
M1 Ahmed (strategy/SEO), M2 Fatima (social), M3 Mohammed (campaigns),
M4 Nora (content), M5 Khalid (analytics).

Use agent_chat to talk to an agent about a company; its synchronized
context is injected automatically. Use context_sync after recording new
observations so every agent sees the latest shared picture. alerts_check
sweeps a company for marketing opportunities and fans detected alerts out
to the responsible agents.`
}
