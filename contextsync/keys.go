package contextsync

// Agent identifiers for the Morvo fleet.
const (
	AgentStrategy  = "M1" // SEO and market strategy
	AgentSocial    = "M2" // social media monitoring
	AgentCampaign  = "M3" // paid campaign management
	AgentContent   = "M4" // content production
	AgentAnalytics = "M5" // analytics and reporting
)

// AgentIDs lists the fleet in canonical order.
var AgentIDs = []string{
	AgentStrategy,
	AgentSocial,
	AgentCampaign,
	AgentContent,
	AgentAnalytics,
}

// SharedKeys are the context keys extracted from agent memories into the
// cross-agent context during synchronization.
var SharedKeys = []string{
	"company_profile",
	"marketing_insights",
	"seo_data",
	"social_analytics",
	"campaign_metrics",
	"content_performance",
}

// commonKeys are always included in every agent's filtered view.
var commonKeys = []string{
	"company_profile",
	"marketing_goals",
	"budget_allocation",
}

// relevantKeys maps each agent to the context keys its specialty consumes,
// on top of the common keys.
var relevantKeys = map[string][]string{
	AgentStrategy:  {"seo_data", "keyword_rankings", "competitor_analysis", "site_performance"},
	AgentSocial:    {"social_analytics", "engagement_metrics", "audience_demographics", "sentiment_analysis"},
	AgentCampaign:  {"campaign_metrics", "budget_allocation", "conversion_rates", "ad_performance"},
	AgentContent:   {"content_performance", "content_calendar", "topic_analysis", "content_engagement"},
	AgentAnalytics: {"analytics_data", "roi_metrics", "traffic_sources", "user_behavior"},
}

// priorityOrders controls delivery order for critical broadcasts. The agent
// whose specialty owns the category hears first, the least affected last.
var priorityOrders = map[string][]string{
	"seo":       {AgentStrategy, AgentContent, AgentAnalytics, AgentCampaign, AgentSocial},
	"social":    {AgentSocial, AgentContent, AgentCampaign, AgentAnalytics, AgentStrategy},
	"campaign":  {AgentCampaign, AgentSocial, AgentAnalytics, AgentContent, AgentStrategy},
	"content":   {AgentContent, AgentSocial, AgentStrategy, AgentCampaign, AgentAnalytics},
	"analytics": {AgentAnalytics, AgentCampaign, AgentStrategy, AgentContent, AgentSocial},
}

// IsAgent reports whether id names a known fleet agent.
func IsAgent(id string) bool {
	_, ok := relevantKeys[id]
	return ok
}

// Categories lists the known broadcast categories.
func Categories() []string {
	return []string{"seo", "social", "campaign", "content", "analytics"}
}
