package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/morvo-ai/engine/messaging"
	"github.com/morvo-ai/engine/observability"
)

type registration struct {
	agentID string
	handler MessageHandler
	channel *MessageChannel[*messaging.Message]
}

// Hub routes messages between the registered agent workers: point-to-point
// notifications via Send and topic fan-out via Subscribe/Publish.
type Hub interface {
	RegisterAgent(agentID string, handler MessageHandler) error
	UnregisterAgent(agentID string) error

	Send(ctx context.Context, from, to string, data any) error

	Subscribe(agentID, topic string) error
	Publish(ctx context.Context, from, topic string, data any) error

	Metrics() MetricsSnapshot
	Shutdown(timeout time.Duration) error
}

type hub struct {
	name string

	agents      map[string]*registration
	agentsMutex sync.RWMutex

	subscriptions map[string]map[string]*registration
	subsMutex     sync.RWMutex

	channelBufferSize int

	observer observability.Observer
	metrics  *Metrics

	ctx     context.Context
	cancel  context.CancelFunc
	workers sync.WaitGroup
}

// New creates a Hub. Each registered agent gets a buffered inbox drained by
// its own consumer goroutine; Shutdown waits for the consumers to finish.
func New(ctx context.Context, cfg Config) (Hub, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	hubCtx, cancel := context.WithCancel(ctx)

	return &hub{
		name:              cfg.Name,
		agents:            make(map[string]*registration),
		subscriptions:     make(map[string]map[string]*registration),
		channelBufferSize: cfg.ChannelBufferSize,
		observer:          observer,
		metrics:           NewMetrics(),
		ctx:               hubCtx,
		cancel:            cancel,
	}, nil
}

func (h *hub) RegisterAgent(agentID string, handler MessageHandler) error {
	h.agentsMutex.Lock()
	defer h.agentsMutex.Unlock()

	if _, exists := h.agents[agentID]; exists {
		return fmt.Errorf("agent already registered: %s", agentID)
	}

	reg := &registration{
		agentID: agentID,
		handler: handler,
		channel: NewMessageChannel[*messaging.Message](h.ctx, h.channelBufferSize),
	}
	h.agents[agentID] = reg
	h.metrics.RecordLocalAgent(1)

	h.workers.Add(1)
	go h.consume(reg)

	h.observer.OnEvent(h.ctx, observability.Event{
		Type:      EventAgentRegistered,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "hub." + h.name,
		Data:      map[string]any{"agent_id": agentID},
	})

	return nil
}

func (h *hub) UnregisterAgent(agentID string) error {
	h.agentsMutex.Lock()
	reg, exists := h.agents[agentID]
	if exists {
		delete(h.agents, agentID)
		reg.channel.Close()
	}
	h.agentsMutex.Unlock()

	if !exists {
		return fmt.Errorf("agent not found: %s", agentID)
	}

	h.subsMutex.Lock()
	for topic, subs := range h.subscriptions {
		if _, exists := subs[agentID]; exists {
			delete(subs, agentID)
			if len(subs) == 0 {
				delete(h.subscriptions, topic)
			}
		}
	}
	h.subsMutex.Unlock()

	h.metrics.RecordLocalAgent(-1)
	h.observer.OnEvent(h.ctx, observability.Event{
		Type:      EventAgentUnregistered,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "hub." + h.name,
		Data:      map[string]any{"agent_id": agentID},
	})

	return nil
}

func (h *hub) Send(ctx context.Context, from, to string, data any) error {
	h.agentsMutex.RLock()
	reg, exists := h.agents[to]
	h.agentsMutex.RUnlock()

	if !exists {
		return fmt.Errorf("destination agent not found: %s", to)
	}

	message := messaging.NewNotification(from, to, data).Build()
	if err := reg.channel.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to deliver message: %w", err)
	}

	h.metrics.RecordMessageSent(1)
	return nil
}

func (h *hub) Subscribe(agentID, topic string) error {
	h.agentsMutex.RLock()
	reg, exists := h.agents[agentID]
	h.agentsMutex.RUnlock()

	if !exists {
		return fmt.Errorf("agent not found: %s", agentID)
	}

	h.subsMutex.Lock()
	if h.subscriptions[topic] == nil {
		h.subscriptions[topic] = make(map[string]*registration)
	}
	h.subscriptions[topic][agentID] = reg
	h.subsMutex.Unlock()

	h.observer.OnEvent(h.ctx, observability.Event{
		Type:      EventSubscribed,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "hub." + h.name,
		Data: map[string]any{
			"agent_id": agentID,
			"topic":    topic,
		},
	})

	return nil
}

func (h *hub) Publish(ctx context.Context, from, topic string, data any) error {
	h.subsMutex.RLock()
	subscribers := make([]*registration, 0, len(h.subscriptions[topic]))
	for _, reg := range h.subscriptions[topic] {
		subscribers = append(subscribers, reg)
	}
	h.subsMutex.RUnlock()

	delivered := 0
	for _, reg := range subscribers {
		if reg.agentID == from {
			continue
		}

		message := messaging.NewNotification(from, reg.agentID, data).Topic(topic).Build()
		if err := reg.channel.Send(ctx, message); err != nil {
			h.observer.OnEvent(ctx, observability.Event{
				Type:      EventDeliveryFailed,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    "hub." + h.name,
				Data: map[string]any{
					"topic":      topic,
					"subscriber": reg.agentID,
					"error":      err.Error(),
				},
			})
			continue
		}
		delivered++
	}

	h.metrics.RecordMessageSent(delivered)
	h.observer.OnEvent(ctx, observability.Event{
		Type:      EventPublished,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "hub." + h.name,
		Data: map[string]any{
			"from":        from,
			"topic":       topic,
			"subscribers": len(subscribers),
			"delivered":   delivered,
		},
	})

	return nil
}

func (h *hub) Metrics() MetricsSnapshot {
	return h.metrics.Snapshot()
}

func (h *hub) Shutdown(timeout time.Duration) error {
	h.observer.OnEvent(h.ctx, observability.Event{
		Type:      EventShutdown,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "hub." + h.name,
	})
	h.cancel()

	done := make(chan struct{})
	go func() {
		h.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("hub shutdown timeout after %v", timeout)
	}
}

// consume drains one agent's inbox until the hub stops or the channel closes.
func (h *hub) consume(reg *registration) {
	defer h.workers.Done()

	for {
		message, err := reg.channel.Receive(h.ctx)
		if err != nil || message == nil {
			return
		}
		h.dispatch(reg, message)
	}
}

func (h *hub) dispatch(reg *registration, message *messaging.Message) {
	if reg.handler == nil {
		return
	}

	h.metrics.RecordMessageRecv(1)

	followUp, err := reg.handler(h.ctx, message, &MessageContext{
		HubName: h.name,
		AgentID: reg.agentID,
	})
	if err != nil {
		h.observer.OnEvent(h.ctx, observability.Event{
			Type:      EventHandlerFailed,
			Level:     observability.LevelError,
			Timestamp: time.Now(),
			Source:    "hub." + h.name,
			Data: map[string]any{
				"agent_id": reg.agentID,
				"from":     message.From,
				"error":    err.Error(),
			},
		})
		return
	}

	if followUp != nil {
		if err := h.Send(h.ctx, followUp.From, followUp.To, followUp.Data); err != nil {
			h.observer.OnEvent(h.ctx, observability.Event{
				Type:      EventDeliveryFailed,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    "hub." + h.name,
				Data: map[string]any{
					"from":  followUp.From,
					"to":    followUp.To,
					"error": err.Error(),
				},
			})
		}
	}
}
