// Package engine composes the Morvo subsystems — agents, memory, context
// synchronization, smart alerts, and external data — into one runtime.
//
// The engine initializes from configuration via New, creating all subsystems
// internally. Functional options allow test overrides of any subsystem.
//
//	e, err := engine.New(ctx, &cfg)
//	reply, err := e.Chat(ctx, "acme", "M1", "How is our SEO trending?")
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/morvo-ai/engine/agent"
	"github.com/morvo-ai/engine/agent/providers"
	"github.com/morvo-ai/engine/alerts"
	"github.com/morvo-ai/engine/contextsync"
	"github.com/morvo-ai/engine/core/protocol"
	"github.com/morvo-ai/engine/crew"
	"github.com/morvo-ai/engine/datasource"
	"github.com/morvo-ai/engine/hub"
	"github.com/morvo-ai/engine/memory"
	"github.com/morvo-ai/engine/messaging"
	"github.com/morvo-ai/engine/observability"
)

// Option configures an Engine before config-driven initialization.
// Overrides replace the subsystem the config would otherwise create.
type Option func(*options)

type options struct {
	provider providers.Provider
	store    memory.Store
	hub      hub.Hub
	sources  []datasource.Source
}

// WithProvider overrides the config-created chat completion provider.
func WithProvider(p providers.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithStore overrides the config-created memory store.
func WithStore(s memory.Store) Option {
	return func(o *options) { o.store = s }
}

// WithHub overrides the config-created message hub.
func WithHub(h hub.Hub) Option {
	return func(o *options) { o.hub = h }
}

// WithSources registers external data connectors on the datasource manager.
// The host application supplies the connectors; the engine only manages
// caching and fan-out.
func WithSources(sources ...datasource.Source) Option {
	return func(o *options) { o.sources = append(o.sources, sources...) }
}

// Engine is the Morvo runtime: a fleet of marketing agents wired to shared
// memory, context synchronization, opportunity alerts, and external data.
type Engine struct {
	store    memory.Store
	hub      hub.Hub
	contexts *contextsync.Manager
	alerts   *alerts.System
	monitor  *alerts.Monitor
	registry *agent.Registry
	crew     *crew.Crew
	data     *datasource.Manager
	observer observability.Observer
}

// New creates an Engine from configuration. Subsystems are initialized from
// their respective config sections; functional options can replace any of
// them for testing.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	provider := o.provider
	if provider == nil {
		var providerOpts []providers.OpenAIOption
		if cfg.Provider.Model != "" {
			providerOpts = append(providerOpts, providers.WithModel(cfg.Provider.Model))
		}
		if cfg.Provider.BaseURL != "" {
			providerOpts = append(providerOpts, providers.WithBaseURL(cfg.Provider.BaseURL))
		}
		provider, err = providers.NewOpenAI(cfg.Provider.APIKey, providerOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
	}

	store := o.store
	if store == nil {
		store, err = memory.NewStore(&cfg.Memory)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory store: %w", err)
		}
	}

	h := o.hub
	if h == nil {
		hubCfg := hub.DefaultConfig()
		hubCfg.Merge(&cfg.Hub)
		h, err = hub.New(ctx, hubCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create hub: %w", err)
		}
	}

	contexts, err := contextsync.New(store, h, cfg.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to create context manager: %w", err)
	}

	system, err := alerts.NewSystem(contexts, store, h, cfg.Alerts)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert system: %w", err)
	}

	registry, err := agent.NewFleetRegistry(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent registry: %w", err)
	}
	if err := applyAgentOverrides(registry, cfg.Agents); err != nil {
		return nil, err
	}

	data, err := datasource.NewManager(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create datasource manager: %w", err)
	}
	for _, source := range o.sources {
		data.Register(source)
	}

	e := &Engine{
		store:    store,
		hub:      h,
		contexts: contexts,
		alerts:   system,
		registry: registry,
		crew:     crew.New(registry, cfg.Chain),
		data:     data,
		observer: observer,
	}

	if err := e.connectFleet(); err != nil {
		return nil, err
	}

	if len(cfg.Companies) > 0 {
		e.monitor, err = alerts.NewMonitor(system, cfg.Companies, cfg.Alerts)
		if err != nil {
			return nil, fmt.Errorf("failed to create alert monitor: %w", err)
		}
	}

	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "engine.New",
		Data: map[string]any{
			"agents":    len(registry.List()),
			"companies": len(cfg.Companies),
		},
	})

	return e, nil
}

// applyAgentOverrides folds configured agent overrides into the registry.
// Overrides for default fleet members are merged field by field; new IDs are
// registered as additional agents.
func applyAgentOverrides(registry *agent.Registry, overrides map[string]agent.Config) error {
	defaults := agent.DefaultConfigs()

	for id, override := range overrides {
		merged := override
		if base, ok := defaults[id]; ok {
			base.Merge(&override)
			merged = base
		}

		err := registry.Register(id, merged)
		if errors.Is(err, agent.ErrAgentExists) {
			err = registry.Replace(id, merged)
		}
		if err != nil {
			return fmt.Errorf("failed to configure agent %q: %w", id, err)
		}
	}
	return nil
}

// connectFleet registers every agent on the hub and subscribes it to the
// alerts topic, so context pushes and stored alerts reach agents live.
func (e *Engine) connectFleet() error {
	for _, info := range e.registry.List() {
		if err := e.hub.RegisterAgent(info.ID, e.inboxHandler()); err != nil {
			return fmt.Errorf("failed to register %s on hub: %w", info.ID, err)
		}
		if err := e.hub.Subscribe(info.ID, "alerts"); err != nil {
			return fmt.Errorf("failed to subscribe %s to alerts: %w", info.ID, err)
		}
	}
	return nil
}

// inboxHandler processes hub deliveries on behalf of an agent. Notifications
// tagged with a company are recorded as inbox memories; anything else is
// dropped.
func (e *Engine) inboxHandler() hub.MessageHandler {
	return func(ctx context.Context, msg *messaging.Message, msgCtx *hub.MessageContext) (*messaging.Message, error) {
		data, _ := msg.Data.(map[string]any)

		companyID, _ := data["company_id"].(string)
		if companyID == "" {
			return nil, nil
		}

		_, err := e.store.Append(ctx, memory.Record{
			AgentID:   msgCtx.AgentID,
			CompanyID: companyID,
			Kind:      "notification",
			Data:      data,
		})
		return nil, err
	}
}

// Chat runs one conversational turn with an agent. The agent's synchronized
// context for the company is prepended to the prompt, and the completed
// exchange is appended to the agent's memory.
func (e *Engine) Chat(ctx context.Context, companyID, agentID, prompt string) (string, error) {
	a, err := e.registry.Get(agentID)
	if err != nil {
		return "", err
	}

	view, err := e.contexts.Synchronized(ctx, agentID, companyID, nil)
	if err != nil {
		return "", fmt.Errorf("assembling context for %s: %w", agentID, err)
	}

	content := prompt
	if len(view) > 0 {
		encoded, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding context for %s: %w", agentID, err)
		}
		content = fmt.Sprintf("Shared marketing context for this company:\n%s\n\n%s", encoded, prompt)
	}

	reply, err := a.Chat(ctx, protocol.InitMessages(protocol.RoleUser, content))
	if err != nil {
		return "", err
	}

	if _, err := e.store.Append(ctx, memory.Record{
		AgentID:   agentID,
		CompanyID: companyID,
		Kind:      "conversation",
		Data: map[string]any{
			"prompt":   prompt,
			"response": reply,
		},
	}); err != nil {
		return "", fmt.Errorf("recording conversation for %s: %w", agentID, err)
	}

	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventChat,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "engine.Chat",
		Data: map[string]any{
			"agent_id":     agentID,
			"company_id":   companyID,
			"context_keys": len(view),
		},
	})

	return reply, nil
}

// Synchronize merges a context snapshot with the agents' recent memories and
// redistributes the cross-agent context for a company. A nil snapshot rebuilds
// from memories alone.
func (e *Engine) Synchronize(ctx context.Context, companyID string, data map[string]any) (map[string]any, error) {
	return e.contexts.Synchronize(ctx, companyID, data)
}

// Watch runs the background alert monitor until the context is cancelled.
// It blocks; start it in a goroutine. Returns ErrNoCompanies when the
// configuration listed no companies to sweep.
func (e *Engine) Watch(ctx context.Context) error {
	if e.monitor == nil {
		return ErrNoCompanies
	}
	return e.monitor.Run(ctx)
}

// Store returns the engine's memory store.
func (e *Engine) Store() memory.Store { return e.store }

// Hub returns the engine's message hub.
func (e *Engine) Hub() hub.Hub { return e.hub }

// Contexts returns the context synchronization manager.
func (e *Engine) Contexts() *contextsync.Manager { return e.contexts }

// Alerts returns the smart alert system.
func (e *Engine) Alerts() *alerts.System { return e.alerts }

// Registry returns the engine's agent registry.
func (e *Engine) Registry() *agent.Registry { return e.registry }

// Crew returns the multi-agent pipeline runner.
func (e *Engine) Crew() *crew.Crew { return e.crew }

// Data returns the external datasource manager.
func (e *Engine) Data() *datasource.Manager { return e.data }

// Shutdown stops the hub and releases store and datasource resources.
func (e *Engine) Shutdown(timeout time.Duration) error {
	e.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventShutdown,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "engine.Shutdown",
	})

	var firstErr error
	if err := e.hub.Shutdown(timeout); err != nil {
		firstErr = err
	}
	if err := e.data.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
