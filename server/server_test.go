package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/morvo-ai/engine/core/protocol"
	"github.com/morvo-ai/engine/engine"
)

type echoProvider struct{}

func (echoProvider) Complete(ctx context.Context, model string, messages []protocol.Message) (string, error) {
	return "echo: " + messages[len(messages)-1].Content, nil
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	cfg := engine.DefaultConfig()
	cfg.Observer = "noop"
	cfg.Hub.Observer = "noop"
	cfg.Context.Observer = "noop"
	cfg.Alerts.Observer = "noop"
	cfg.Data.Observer = "noop"
	cfg.Chain.Observer = "noop"

	e, err := engine.New(context.Background(), &cfg,
		engine.WithProvider(echoProvider{}),
	)
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Shutdown(2 * time.Second) })
	return e
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestChatTool(t *testing.T) {
	tool := NewChatTool(newTestEngine(t))

	def := tool.Definition()
	if def.Name != "agent_chat" {
		t.Errorf("tool name = %q, want agent_chat", def.Name)
	}
	for _, param := range []string{"agent_id", "company_id", "prompt"} {
		if _, ok := def.InputSchema.Properties[param]; !ok {
			t.Errorf("missing %q parameter", param)
		}
	}

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"agent_id":   "M1",
		"company_id": "acme",
		"prompt":     "status?",
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := resultText(result); got != "echo: status?" {
		t.Errorf("result = %q, want the provider echo", got)
	}
}

func TestChatTool_MissingArguments(t *testing.T) {
	tool := NewChatTool(newTestEngine(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"agent_id": "M1",
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !result.IsError {
		t.Error("missing arguments should produce an error result")
	}
}

func TestAgentsTool(t *testing.T) {
	tool := NewAgentsTool(newTestEngine(t))

	result, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	text := resultText(result)
	for _, name := range []string{"Ahmed", "Fatima", "Mohammed", "Nora", "Khalid"} {
		if !strings.Contains(text, name) {
			t.Errorf("agent list should mention %s, got %q", name, text)
		}
	}
}

func TestMemoryAndContextTools(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	save := NewMemorySaveTool(e)
	result, err := save.Handle(ctx, makeReq(map[string]any{
		"agent_id":   "M1",
		"company_id": "acme",
		"data":       `{"seo_data": {"organic_keywords": 420}}`,
	}))
	if err != nil {
		t.Fatalf("memory_save error = %v", err)
	}
	if result.IsError {
		t.Fatalf("memory_save failed: %s", resultText(result))
	}

	recent := NewMemoryRecentTool(e)
	result, err = recent.Handle(ctx, makeReq(map[string]any{
		"agent_id":   "M1",
		"company_id": "acme",
		"limit":      float64(5),
	}))
	if err != nil {
		t.Fatalf("memory_recent error = %v", err)
	}
	if !strings.Contains(resultText(result), "organic_keywords") {
		t.Errorf("memory_recent should return the saved record, got %q", resultText(result))
	}

	sync := NewSyncTool(e)
	result, err = sync.Handle(ctx, makeReq(map[string]any{"company_id": "acme"}))
	if err != nil {
		t.Fatalf("context_sync error = %v", err)
	}
	if !strings.Contains(resultText(result), "seo_data") {
		t.Errorf("context_sync should surface the shared key, got %q", resultText(result))
	}

	get := NewContextTool(e)
	result, err = get.Handle(ctx, makeReq(map[string]any{
		"agent_id":   "M1",
		"company_id": "acme",
		"keys":       "seo_data",
	}))
	if err != nil {
		t.Fatalf("context_get error = %v", err)
	}
	if !strings.Contains(resultText(result), "organic_keywords") {
		t.Errorf("context_get should include the synchronized value, got %q", resultText(result))
	}
}

func TestPushTool_UnknownTarget(t *testing.T) {
	tool := NewPushTool(newTestEngine(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"from_agent": "M1",
		"to_agent":   "M9",
		"company_id": "acme",
		"data":       `{"note": "x"}`,
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !result.IsError {
		t.Error("pushing to an unknown agent should produce an error result")
	}
}

func TestBroadcastTool(t *testing.T) {
	tool := NewBroadcastTool(newTestEngine(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"category":   "seo",
		"company_id": "acme",
		"data":       `{"finding": "serp shakeup"}`,
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := resultText(result); !strings.Contains(got, "M1, M4, M5, M3, M2") {
		t.Errorf("broadcast order = %q, want the seo priority order", got)
	}
}

func TestAlertsCheckTool_NoData(t *testing.T) {
	tool := NewAlertsCheckTool(newTestEngine(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"company_id": "acme",
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := resultText(result); got != "No opportunities detected." {
		t.Errorf("result = %q, want no opportunities", got)
	}
}

func TestDataFetchTool_UnknownSource(t *testing.T) {
	tool := NewDataFetchTool(newTestEngine(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"source":    "semrush",
		"data_type": "keywords",
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !result.IsError {
		t.Error("fetching from an unregistered source should produce an error result")
	}
}

// cannedSource serves fixed data for the data_fetch tool tests.
type cannedSource struct{}

func (cannedSource) Name() string { return "semrush" }

func (cannedSource) Fetch(ctx context.Context, dataType string, params map[string]any) (map[string]any, error) {
	return map[string]any{"organic_keywords": float64(420)}, nil
}

func TestDataFetchTool_RegisteredSource(t *testing.T) {
	e := newTestEngine(t)
	e.Data().Register(cannedSource{})
	tool := NewDataFetchTool(e)

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"source":    "semrush",
		"data_type": "keywords",
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("data_fetch failed: %s", resultText(result))
	}
	if !strings.Contains(resultText(result), "organic_keywords") {
		t.Errorf("result should carry the fetched data, got %q", resultText(result))
	}
}

func TestNew_BuildsServer(t *testing.T) {
	if s := New(newTestEngine(t)); s == nil {
		t.Fatal("New() returned nil server")
	}
}
