package alerts

import "time"

const (
	defaultCheckInterval = 5 * time.Minute
	defaultRetryBackoff  = time.Minute
	defaultHistoryLimit  = 20

	// Alert lifetimes. Engagement spikes are time-sensitive; keyword
	// openings stay actionable for days.
	trafficAlertTTL    = 24 * time.Hour
	keywordAlertTTL    = 72 * time.Hour
	engagementAlertTTL = 6 * time.Hour

	maxKeywordOpportunities    = 5
	maxEngagementOpportunities = 3
)

// Config defines configuration for the alert system and its monitor.
type Config struct {
	// CheckInterval is the pause between monitor sweeps.
	CheckInterval time.Duration `json:"check_interval" yaml:"check_interval"`

	// RetryBackoff is the pause after a failed sweep.
	RetryBackoff time.Duration `json:"retry_backoff" yaml:"retry_backoff"`

	// HistoryLimit caps how many recent memories per agent are scanned
	// when assembling active alerts.
	HistoryLimit int `json:"history_limit" yaml:"history_limit"`

	// Thresholds gates each detector.
	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`

	// Observer names the observer implementation ("noop", "slog", ...).
	Observer string `json:"observer" yaml:"observer"`
}

// DefaultConfig returns a Config with production defaults: five minute
// sweeps, one minute backoff, default thresholds.
func DefaultConfig() Config {
	return Config{
		CheckInterval: defaultCheckInterval,
		RetryBackoff:  defaultRetryBackoff,
		HistoryLimit:  defaultHistoryLimit,
		Thresholds:    DefaultThresholds(),
		Observer:      "slog",
	}
}

func (c *Config) Merge(source *Config) {
	if source.CheckInterval > 0 {
		c.CheckInterval = source.CheckInterval
	}
	if source.RetryBackoff > 0 {
		c.RetryBackoff = source.RetryBackoff
	}
	if source.HistoryLimit > 0 {
		c.HistoryLimit = source.HistoryLimit
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}

	mergeThresholds(&c.Thresholds, &source.Thresholds)
}

func mergeThresholds(dst, src *Thresholds) {
	if src.TrafficSpike.PercentageChange > 0 {
		dst.TrafficSpike.PercentageChange = src.TrafficSpike.PercentageChange
	}
	if src.TrafficSpike.MinimumVolume > 0 {
		dst.TrafficSpike.MinimumVolume = src.TrafficSpike.MinimumVolume
	}
	if src.TrafficSpike.TimeWindowHours > 0 {
		dst.TrafficSpike.TimeWindowHours = src.TrafficSpike.TimeWindowHours
	}

	if src.Keyword.SearchVolumeIncrease > 0 {
		dst.Keyword.SearchVolumeIncrease = src.Keyword.SearchVolumeIncrease
	}
	if src.Keyword.CompetitionMax > 0 {
		dst.Keyword.CompetitionMax = src.Keyword.CompetitionMax
	}
	if src.Keyword.RelevanceMin > 0 {
		dst.Keyword.RelevanceMin = src.Keyword.RelevanceMin
	}

	if src.EngagementSpike.PercentageIncrease > 0 {
		dst.EngagementSpike.PercentageIncrease = src.EngagementSpike.PercentageIncrease
	}
	if src.EngagementSpike.MinimumEngagements > 0 {
		dst.EngagementSpike.MinimumEngagements = src.EngagementSpike.MinimumEngagements
	}
	if src.EngagementSpike.TimeWindowHours > 0 {
		dst.EngagementSpike.TimeWindowHours = src.EngagementSpike.TimeWindowHours
	}

	if src.SentimentShift.SentimentChange > 0 {
		dst.SentimentShift.SentimentChange = src.SentimentShift.SentimentChange
	}
	if src.SentimentShift.MinimumMentions > 0 {
		dst.SentimentShift.MinimumMentions = src.SentimentShift.MinimumMentions
	}
	if src.SentimentShift.TimeWindowHours > 0 {
		dst.SentimentShift.TimeWindowHours = src.SentimentShift.TimeWindowHours
	}

	if src.Conversion.ConversionIncrease > 0 {
		dst.Conversion.ConversionIncrease = src.Conversion.ConversionIncrease
	}
	if src.Conversion.MinimumConversions > 0 {
		dst.Conversion.MinimumConversions = src.Conversion.MinimumConversions
	}
	if src.Conversion.TimeWindowHours > 0 {
		dst.Conversion.TimeWindowHours = src.Conversion.TimeWindowHours
	}
}
