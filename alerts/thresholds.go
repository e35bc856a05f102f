package alerts

// TrafficThresholds gates traffic spike detection.
type TrafficThresholds struct {
	// PercentageChange is the minimum traffic increase, in percent.
	PercentageChange float64 `json:"percentage_change" yaml:"percentage_change"`

	// MinimumVolume is the least current traffic worth alerting on.
	MinimumVolume float64 `json:"minimum_volume" yaml:"minimum_volume"`

	// TimeWindowHours bounds how long the resulting alert stays active.
	TimeWindowHours int `json:"time_window_hours" yaml:"time_window_hours"`
}

// KeywordThresholds gates keyword opportunity detection.
type KeywordThresholds struct {
	// SearchVolumeIncrease is the minimum volume growth, in percent.
	SearchVolumeIncrease float64 `json:"search_volume_increase" yaml:"search_volume_increase"`

	// CompetitionMax is the highest acceptable competition (0-1 scale).
	CompetitionMax float64 `json:"competition_max" yaml:"competition_max"`

	// RelevanceMin is the lowest acceptable business relevance (0-1 scale).
	RelevanceMin float64 `json:"relevance_min" yaml:"relevance_min"`
}

// EngagementThresholds gates social engagement spike detection.
type EngagementThresholds struct {
	// PercentageIncrease is the minimum rate increase above a post's
	// average, in percent.
	PercentageIncrease float64 `json:"percentage_increase" yaml:"percentage_increase"`

	// MinimumEngagements is the least total interactions worth alerting on.
	MinimumEngagements float64 `json:"minimum_engagements" yaml:"minimum_engagements"`

	// TimeWindowHours bounds how long the resulting alert stays active.
	TimeWindowHours int `json:"time_window_hours" yaml:"time_window_hours"`
}

// SentimentThresholds gates sentiment shift detection.
type SentimentThresholds struct {
	// SentimentChange is the minimum shift on the -1..1 scale.
	SentimentChange float64 `json:"sentiment_change" yaml:"sentiment_change"`

	// MinimumMentions is the least mention count worth alerting on.
	MinimumMentions float64 `json:"minimum_mentions" yaml:"minimum_mentions"`

	// TimeWindowHours bounds how long the resulting alert stays active.
	TimeWindowHours int `json:"time_window_hours" yaml:"time_window_hours"`
}

// ConversionThresholds gates conversion opportunity detection.
type ConversionThresholds struct {
	// ConversionIncrease is the minimum conversion growth, in percent.
	ConversionIncrease float64 `json:"conversion_increase" yaml:"conversion_increase"`

	// MinimumConversions is the least conversion count worth alerting on.
	MinimumConversions float64 `json:"minimum_conversions" yaml:"minimum_conversions"`

	// TimeWindowHours bounds how long the resulting alert stays active.
	TimeWindowHours int `json:"time_window_hours" yaml:"time_window_hours"`
}

// Thresholds collects the gates for every alert type.
type Thresholds struct {
	TrafficSpike    TrafficThresholds    `json:"traffic_spike" yaml:"traffic_spike"`
	Keyword         KeywordThresholds    `json:"keyword_opportunity" yaml:"keyword_opportunity"`
	EngagementSpike EngagementThresholds `json:"engagement_spike" yaml:"engagement_spike"`
	SentimentShift  SentimentThresholds  `json:"sentiment_shift" yaml:"sentiment_shift"`
	Conversion      ConversionThresholds `json:"conversion_opportunity" yaml:"conversion_opportunity"`
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TrafficSpike: TrafficThresholds{
			PercentageChange: 30,
			MinimumVolume:    100,
			TimeWindowHours:  24,
		},
		Keyword: KeywordThresholds{
			SearchVolumeIncrease: 40,
			CompetitionMax:       0.6,
			RelevanceMin:         0.7,
		},
		EngagementSpike: EngagementThresholds{
			PercentageIncrease: 50,
			MinimumEngagements: 50,
			TimeWindowHours:    4,
		},
		SentimentShift: SentimentThresholds{
			SentimentChange: 0.2,
			MinimumMentions: 20,
			TimeWindowHours: 48,
		},
		Conversion: ConversionThresholds{
			ConversionIncrease: 25,
			MinimumConversions: 10,
			TimeWindowHours:    24,
		},
	}
}
