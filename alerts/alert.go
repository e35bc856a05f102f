package alerts

import (
	"time"
)

// Alert types.
const (
	TypeTraffic    = "traffic_opportunity"
	TypeKeyword    = "keyword_opportunity"
	TypeEngagement = "social_engagement_opportunity"
	TypeSentiment  = "sentiment_shift"
	TypeConversion = "conversion_opportunity"
)

// Alert priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Recommendation is a suggested action attached to an alert. Descriptions are
// written in Arabic, the product's operator language.
type Recommendation struct {
	Action      string `json:"action"`
	Description string `json:"description"`
}

// Alert describes a detected marketing opportunity. Opportunities carry
// detector-specific fields (source, keyword, platform, scores) and are sorted
// by opportunity score, highest first.
type Alert struct {
	Type            string           `json:"alert_type"`
	Priority        string           `json:"alert_priority"`
	Timestamp       time.Time        `json:"timestamp"`
	CompanyID       string           `json:"company_id"`
	SourceAgent     string           `json:"source_agent,omitempty"`
	Opportunities   []map[string]any `json:"opportunities"`
	Recommendations []Recommendation `json:"recommended_actions"`
	ExpiresAt       time.Time        `json:"expires_at"`
}

// Expired reports whether the alert has passed its expiry at the given time.
func (a *Alert) Expired(now time.Time) bool {
	return !a.ExpiresAt.After(now)
}

// toMap flattens an alert for storage in a memory record. Timestamps are
// RFC 3339 strings so the representation survives both the in-memory and
// SQLite backends unchanged.
func (a *Alert) toMap() map[string]any {
	recommendations := make([]any, 0, len(a.Recommendations))
	for _, rec := range a.Recommendations {
		recommendations = append(recommendations, map[string]any{
			"action":      rec.Action,
			"description": rec.Description,
		})
	}

	opportunities := make([]any, 0, len(a.Opportunities))
	for _, op := range a.Opportunities {
		opportunities = append(opportunities, op)
	}

	return map[string]any{
		"alert_type":          a.Type,
		"alert_priority":      a.Priority,
		"timestamp":           a.Timestamp.UTC().Format(time.RFC3339Nano),
		"company_id":          a.CompanyID,
		"opportunities":       opportunities,
		"recommended_actions": recommendations,
		"expires_at":          a.ExpiresAt.UTC().Format(time.RFC3339Nano),
	}
}

// alertFromMap rebuilds an alert from a stored representation. Unparseable
// records return false rather than an error; stale or foreign memory entries
// are simply skipped by callers.
func alertFromMap(data map[string]any) (Alert, bool) {
	alertType, ok := data["alert_type"].(string)
	if !ok {
		return Alert{}, false
	}

	alert := Alert{
		Type:     alertType,
		Priority: stringOr(data["alert_priority"], PriorityLow),
	}
	if companyID, ok := data["company_id"].(string); ok {
		alert.CompanyID = companyID
	}

	if raw, ok := data["timestamp"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			alert.Timestamp = ts
		}
	}
	raw, ok := data["expires_at"].(string)
	if !ok {
		return Alert{}, false
	}
	expires, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return Alert{}, false
	}
	alert.ExpiresAt = expires

	if rawOps, ok := data["opportunities"].([]any); ok {
		for _, rawOp := range rawOps {
			if op, ok := rawOp.(map[string]any); ok {
				alert.Opportunities = append(alert.Opportunities, op)
			}
		}
	}

	if rawRecs, ok := data["recommended_actions"].([]any); ok {
		for _, rawRec := range rawRecs {
			rec, ok := rawRec.(map[string]any)
			if !ok {
				continue
			}
			alert.Recommendations = append(alert.Recommendations, Recommendation{
				Action:      stringOr(rec["action"], ""),
				Description: stringOr(rec["description"], ""),
			})
		}
	}

	return alert, true
}

func stringOr(value any, fallback string) string {
	if s, ok := value.(string); ok && s != "" {
		return s
	}
	return fallback
}
