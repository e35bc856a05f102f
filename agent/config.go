package agent

// Config defines a marketing agent: its fleet ID, persona, specialty, and
// the model it runs on.
type Config struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Specialty    string `json:"specialty" yaml:"specialty"`
	Model        string `json:"model" yaml:"model"`
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt"`
}

func (c *Config) Merge(source *Config) {
	if source.ID != "" {
		c.ID = source.ID
	}
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.Specialty != "" {
		c.Specialty = source.Specialty
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
}

// DefaultConfigs returns the five Morvo marketing agents. Prompts stay short:
// synchronized context is injected per conversation, not baked into personas.
func DefaultConfigs() map[string]Config {
	return map[string]Config{
		"M1": {
			ID:           "M1",
			Name:         "Ahmed",
			Specialty:    "strategy",
			SystemPrompt: "You are Ahmed, Morvo's strategic manager. You analyze SEO data, keyword rankings, and competitor positioning to shape marketing strategy.",
		},
		"M2": {
			ID:           "M2",
			Name:         "Fatima",
			Specialty:    "social",
			SystemPrompt: "You are Fatima, Morvo's social media manager. You monitor platforms, engagement metrics, and audience sentiment.",
		},
		"M3": {
			ID:           "M3",
			Name:         "Mohammed",
			Specialty:    "campaign",
			SystemPrompt: "You are Mohammed, Morvo's campaign manager. You track paid campaign performance, budgets, and conversion rates.",
		},
		"M4": {
			ID:           "M4",
			Name:         "Nora",
			Specialty:    "content",
			SystemPrompt: "You are Nora, Morvo's content manager. You plan content calendars and optimize content performance.",
		},
		"M5": {
			ID:           "M5",
			Name:         "Khalid",
			Specialty:    "analytics",
			SystemPrompt: "You are Khalid, Morvo's data manager. You consolidate analytics, ROI metrics, and traffic sources into reports.",
		},
	}
}
