package alerts

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/morvo-ai/engine/contextsync"
	"github.com/morvo-ai/engine/hub"
	"github.com/morvo-ai/engine/memory"
	"github.com/morvo-ai/engine/observability"
	"github.com/morvo-ai/engine/workflows"
)

// ContextSource supplies an agent's synchronized context. Satisfied by
// contextsync.Manager.
type ContextSource interface {
	Synchronized(ctx context.Context, agentID, companyID string, keys []string) (map[string]any, error)
}

// alertAgents maps each alert type to the agents that should act on it.
var alertAgents = map[string][]string{
	TypeTraffic:    {contextsync.AgentAnalytics, contextsync.AgentStrategy, contextsync.AgentCampaign},
	TypeKeyword:    {contextsync.AgentStrategy, contextsync.AgentContent, contextsync.AgentCampaign},
	TypeEngagement: {contextsync.AgentSocial, contextsync.AgentContent, contextsync.AgentCampaign},
	TypeSentiment:  {contextsync.AgentSocial, contextsync.AgentContent, contextsync.AgentCampaign},
	TypeConversion: {contextsync.AgentCampaign, contextsync.AgentAnalytics, contextsync.AgentStrategy},
}

// historyEntry records a stored alert for bookkeeping and diagnostics.
type historyEntry struct {
	Alert          Alert
	NotifiedAgents []string
	CreatedAt      time.Time
}

// System detects marketing opportunities from synchronized context and fans
// the resulting alerts out to the responsible agents.
type System struct {
	contexts     ContextSource
	store        memory.Store
	hub          hub.Hub
	thresholds   Thresholds
	historyLimit int
	observer     observability.Observer
	observerName string

	historyMutex sync.Mutex
	history      map[string]historyEntry
}

// NewSystem creates an alert system. The hub is optional; when present,
// stored alerts are also published on the alerts topic.
func NewSystem(contexts ContextSource, store memory.Store, h hub.Hub, cfg Config) (*System, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	return &System{
		contexts:     contexts,
		store:        store,
		hub:          h,
		thresholds:   cfg.Thresholds,
		historyLimit: historyLimit,
		observer:     observer,
		observerName: cfg.Observer,
		history:      make(map[string]historyEntry),
	}, nil
}

// CheckTraffic looks for traffic spikes in the analytics agent's context.
// Each source with current and previous figures is compared against the
// spike thresholds; nil is returned when nothing clears them.
func (s *System) CheckTraffic(ctx context.Context, companyID string) (*Alert, error) {
	data, err := s.contexts.Synchronized(ctx, contextsync.AgentAnalytics, companyID,
		[]string{"analytics_data", "traffic_sources"})
	if err != nil {
		return nil, fmt.Errorf("%w: traffic context: %v", ErrCheckFailed, err)
	}

	analytics := asMap(data["analytics_data"])
	sources := asMap(data["traffic_sources"])
	if len(analytics) == 0 || len(sources) == 0 {
		return nil, nil
	}

	thresholds := s.thresholds.TrafficSpike
	var opportunities []map[string]any

	for source, raw := range sources {
		figures := asMap(raw)
		current, currentOK := toFloat(figures["current"])
		previous, previousOK := toFloat(figures["previous"])
		if !currentOK || !previousOK {
			continue
		}

		if previous <= 0 || current < thresholds.MinimumVolume {
			continue
		}

		change := (current - previous) / previous * 100
		if change < thresholds.PercentageChange {
			continue
		}

		opportunities = append(opportunities, map[string]any{
			"source":            source,
			"current_traffic":   current,
			"previous_traffic":  previous,
			"percentage_change": round1(change),
			"opportunity_score": opportunityScore(change),
		})
	}

	if len(opportunities) == 0 {
		return nil, nil
	}
	sortByScore(opportunities)

	now := time.Now().UTC()
	alert := &Alert{
		Type:            TypeTraffic,
		Priority:        PriorityMedium,
		Timestamp:       now,
		CompanyID:       companyID,
		Opportunities:   opportunities,
		Recommendations: trafficRecommendations(stringOr(opportunities[0]["source"], "")),
		ExpiresAt:       now.Add(trafficAlertTTL),
	}
	s.emitDetected(ctx, alert)
	return alert, nil
}

// CheckKeywords looks for keyword openings in the strategy agent's context:
// rising search volume on keywords with low competition and high relevance.
// At most five opportunities are kept, best score first.
func (s *System) CheckKeywords(ctx context.Context, companyID string) (*Alert, error) {
	data, err := s.contexts.Synchronized(ctx, contextsync.AgentStrategy, companyID,
		[]string{"seo_data", "keyword_rankings"})
	if err != nil {
		return nil, fmt.Errorf("%w: keyword context: %v", ErrCheckFailed, err)
	}

	seoData := asMap(data["seo_data"])
	rankings := asMap(data["keyword_rankings"])
	if len(seoData) == 0 || len(rankings) == 0 {
		return nil, nil
	}

	thresholds := s.thresholds.Keyword
	var opportunities []map[string]any

	for keyword, raw := range rankings {
		figures := asMap(raw)
		currentVolume, ok1 := toFloat(figures["current_volume"])
		previousVolume, ok2 := toFloat(figures["previous_volume"])
		competition, ok3 := toFloat(figures["competition"])
		relevance, ok4 := toFloat(figures["relevance"])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}

		currentRank, ok := toFloat(figures["current_rank"])
		if !ok {
			currentRank = 100
		}

		if previousVolume <= 0 || competition > thresholds.CompetitionMax || relevance < thresholds.RelevanceMin {
			continue
		}

		volumeIncrease := (currentVolume - previousVolume) / previousVolume * 100
		if volumeIncrease < thresholds.SearchVolumeIncrease {
			continue
		}

		score := opportunityScore(volumeIncrease*0.4 + (1-competition)*30 + relevance*30)

		opportunities = append(opportunities, map[string]any{
			"keyword":           keyword,
			"current_volume":    currentVolume,
			"volume_increase":   round1(volumeIncrease),
			"competition":       competition,
			"relevance":         relevance,
			"current_rank":      currentRank,
			"opportunity_score": score,
		})
	}

	if len(opportunities) == 0 {
		return nil, nil
	}
	sortByScore(opportunities)
	if len(opportunities) > maxKeywordOpportunities {
		opportunities = opportunities[:maxKeywordOpportunities]
	}

	now := time.Now().UTC()
	alert := &Alert{
		Type:            TypeKeyword,
		Priority:        PriorityHigh,
		Timestamp:       now,
		CompanyID:       companyID,
		Opportunities:   opportunities,
		Recommendations: keywordRecommendations(opportunities),
		ExpiresAt:       now.Add(keywordAlertTTL),
	}
	s.emitDetected(ctx, alert)
	return alert, nil
}

// CheckEngagement looks for posts whose engagement rate is spiking above
// their own average in the social agent's context. At most three
// opportunities are kept, best score first.
func (s *System) CheckEngagement(ctx context.Context, companyID string) (*Alert, error) {
	data, err := s.contexts.Synchronized(ctx, contextsync.AgentSocial, companyID,
		[]string{"social_analytics", "engagement_metrics"})
	if err != nil {
		return nil, fmt.Errorf("%w: engagement context: %v", ErrCheckFailed, err)
	}

	social := asMap(data["social_analytics"])
	metrics := asMap(data["engagement_metrics"])
	if len(social) == 0 || len(metrics) == 0 {
		return nil, nil
	}

	thresholds := s.thresholds.EngagementSpike
	var opportunities []map[string]any

	for platform, raw := range asMap(social["platforms"]) {
		platformData := asMap(raw)
		posts, ok := platformData["recent_posts"].([]any)
		if !ok {
			continue
		}

		for _, rawPost := range posts {
			post := asMap(rawPost)
			postID, hasID := post["post_id"].(string)
			currentRate, ok1 := toFloat(post["engagement_rate"])
			averageRate, ok2 := toFloat(post["average_engagement_rate"])
			total, ok3 := toFloat(post["total_engagements"])
			if !hasID || !ok1 || !ok2 || !ok3 {
				continue
			}

			if averageRate <= 0 || total < thresholds.MinimumEngagements {
				continue
			}

			increase := (currentRate - averageRate) / averageRate * 100
			if increase < thresholds.PercentageIncrease {
				continue
			}

			opportunities = append(opportunities, map[string]any{
				"platform":                platform,
				"post_id":                 postID,
				"post_type":               stringOr(post["type"], "unknown"),
				"content_snippet":         stringOr(post["content_snippet"], ""),
				"current_engagement_rate": round2(currentRate),
				"average_engagement_rate": round2(averageRate),
				"total_engagements":       total,
				"percentage_increase":     round1(increase),
				"opportunity_score":       opportunityScore(increase),
			})
		}
	}

	if len(opportunities) == 0 {
		return nil, nil
	}
	sortByScore(opportunities)
	if len(opportunities) > maxEngagementOpportunities {
		opportunities = opportunities[:maxEngagementOpportunities]
	}

	now := time.Now().UTC()
	alert := &Alert{
		Type:            TypeEngagement,
		Priority:        PriorityHigh,
		Timestamp:       now,
		CompanyID:       companyID,
		Opportunities:   opportunities,
		Recommendations: socialRecommendations(opportunities[0]),
		ExpiresAt:       now.Add(engagementAlertTTL),
	}
	s.emitDetected(ctx, alert)
	return alert, nil
}

// CheckAll runs every detector concurrently and collects detected alerts.
// Individual detector failures are tolerated; an error is returned only when
// every detector failed.
func (s *System) CheckAll(ctx context.Context, companyID string) ([]Alert, error) {
	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventCheckStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "alerts.System",
		Data:      map[string]any{"company_id": companyID},
	})

	type namedCheck struct {
		name string
		run  func(context.Context, string) (*Alert, error)
	}
	checks := []namedCheck{
		{"traffic", s.CheckTraffic},
		{"keywords", s.CheckKeywords},
		{"engagement", s.CheckEngagement},
	}

	failFast := false
	parallelCfg := workflows.ParallelConfig{
		MaxWorkers:  len(checks),
		FailFastNil: &failFast,
		Observer:    s.observerName,
	}

	result, err := workflows.ProcessParallel(ctx, parallelCfg, checks,
		func(ctx context.Context, check namedCheck) (*Alert, error) {
			return check.run(ctx, companyID)
		}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}

	var detected []Alert
	for _, alert := range result.Results {
		if alert != nil {
			detected = append(detected, *alert)
		}
	}

	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventCheckComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "alerts.System",
		Data: map[string]any{
			"company_id":    companyID,
			"detected":      len(detected),
			"failed_checks": len(result.Errors),
		},
	})

	return detected, nil
}

// StoreAlert writes the alert into the memory lanes of every agent mapped to
// its type, records it in history, and publishes it on the alerts topic when
// a hub is attached. It returns the notified agents.
func (s *System) StoreAlert(ctx context.Context, alert Alert) ([]string, error) {
	if alert.CompanyID == "" || alert.Type == "" {
		return nil, fmt.Errorf("%w: alert missing company or type", ErrStoreFailed)
	}

	agents, ok := alertAgents[alert.Type]
	if !ok {
		agents = []string{contextsync.AgentAnalytics}
	}

	now := time.Now().UTC()
	for _, agentID := range agents {
		record := memory.Record{
			AgentID:   agentID,
			CompanyID: alert.CompanyID,
			Kind:      "alert",
			Data: map[string]any{
				"alert_data":      alert.toMap(),
				"alert_type":      alert.Type,
				"alert_timestamp": now.Format(time.RFC3339Nano),
				"is_alert":        true,
			},
		}
		if _, err := s.store.Append(ctx, record); err != nil {
			return nil, fmt.Errorf("%w: storing for %s: %v", ErrStoreFailed, agentID, err)
		}
	}

	alertID := fmt.Sprintf("%s_%s_%s", alert.CompanyID, alert.Type, now.Format(time.RFC3339Nano))
	s.historyMutex.Lock()
	s.history[alertID] = historyEntry{
		Alert:          alert,
		NotifiedAgents: agents,
		CreatedAt:      now,
	}
	s.historyMutex.Unlock()

	if s.hub != nil {
		if err := s.hub.Publish(ctx, "alerts", "alerts", alert.toMap()); err != nil {
			s.observer.OnEvent(ctx, observability.Event{
				Type:      EventStored,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    "alerts.System",
				Data: map[string]any{
					"alert_type": alert.Type,
					"error":      err.Error(),
				},
			})
		}
	}

	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventStored,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "alerts.System",
		Data: map[string]any{
			"alert_id":   alertID,
			"alert_type": alert.Type,
			"agents":     agents,
		},
	})

	return agents, nil
}

// Active returns the unexpired alerts for a company across all agent memory
// lanes, deduplicated and sorted by priority then recency.
func (s *System) Active(ctx context.Context, companyID string) ([]Alert, error) {
	now := time.Now().UTC()

	var collected []Alert
	for _, agentID := range contextsync.AgentIDs {
		records, err := s.store.Recent(ctx, agentID, companyID, s.historyLimit)
		if err != nil {
			return nil, fmt.Errorf("reading %s alerts: %w", agentID, err)
		}

		for _, record := range records {
			isAlert, ok := record.Data["is_alert"].(bool)
			if !ok || !isAlert {
				continue
			}

			alert, ok := alertFromMap(asMap(record.Data["alert_data"]))
			if !ok || alert.Expired(now) {
				continue
			}
			alert.SourceAgent = agentID
			collected = append(collected, alert)
		}
	}

	seen := make(map[string]bool)
	unique := collected[:0]
	for _, alert := range collected {
		key := alert.Type + "_" + alert.Timestamp.Format(time.RFC3339Nano)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, alert)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		ri, rj := priorityRank[unique[i].Priority], priorityRank[unique[j].Priority]
		if ri != rj {
			return ri > rj
		}
		return unique[i].Timestamp.After(unique[j].Timestamp)
	})

	return unique, nil
}

// History returns how many alerts this system instance has stored.
func (s *System) History() int {
	s.historyMutex.Lock()
	defer s.historyMutex.Unlock()
	return len(s.history)
}

func (s *System) emitDetected(ctx context.Context, alert *Alert) {
	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventDetected,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "alerts.System",
		Data: map[string]any{
			"alert_type":    alert.Type,
			"priority":      alert.Priority,
			"company_id":    alert.CompanyID,
			"opportunities": len(alert.Opportunities),
		},
	})
}

// opportunityScore caps a raw score at 100, matching the 0-100 scale
// surfaced to operators.
func opportunityScore(raw float64) int {
	return min(100, int(raw))
}

func sortByScore(opportunities []map[string]any) {
	sort.SliceStable(opportunities, func(i, j int) bool {
		si, _ := toFloat(opportunities[i]["opportunity_score"])
		sj, _ := toFloat(opportunities[j]["opportunity_score"])
		return si > sj
	})
}

func asMap(value any) map[string]any {
	m, _ := value.(map[string]any)
	return m
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
