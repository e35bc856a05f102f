package crew

import "fmt"

// MarketingWorkflow returns the standard five-step pipeline that walks a
// company through the whole fleet: strategy first, reporting last.
func MarketingWorkflow(companyName string) []Task {
	return []Task{
		{
			Name:    "strategic_analysis",
			AgentID: "M1",
			Prompt: fmt.Sprintf(
				"Analyze the market position of %s: SEO standing, keyword rankings, and competitor activity. Recommend strategic priorities.",
				companyName),
		},
		{
			Name:    "social_monitoring",
			AgentID: "M2",
			Prompt: fmt.Sprintf(
				"Review social media performance for %s: engagement trends, audience sentiment, and any emerging risks. Flag anything that needs an immediate response.",
				companyName),
		},
		{
			Name:    "campaign_optimization",
			AgentID: "M3",
			Prompt: fmt.Sprintf(
				"Evaluate the paid campaigns for %s against the strategy and social findings above: budget allocation, conversion rates, and ad performance. Propose optimizations.",
				companyName),
		},
		{
			Name:    "content_strategy",
			AgentID: "M4",
			Prompt: fmt.Sprintf(
				"Build a content plan for %s that supports the strategy, social, and campaign recommendations above. Include a two-week calendar outline.",
				companyName),
		},
		{
			Name:    "data_analytics",
			AgentID: "M5",
			Prompt: fmt.Sprintf(
				"Consolidate the analysis above into a performance report for %s: ROI, traffic sources, and the metrics to track over the next 30 days.",
				companyName),
		},
	}
}
