// Package datasource manages external marketing data connectors behind a
// refresh-interval cache. Fresh results are cached per data type and
// parameter set; when a connector fails, the last good result is served
// stale with a shortened retry window instead of surfacing the failure.
package datasource

import (
	"context"
	"time"
)

// Result statuses.
const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusStaleCache = "error_using_cache"
)

// Source is an external data connector (analytics, SEO, social listening).
type Source interface {
	// Name identifies the source in requests and cache lanes.
	Name() string
	// Fetch retrieves one data type from the external API.
	Fetch(ctx context.Context, dataType string, params map[string]any) (map[string]any, error)
}

// Result is a fetch outcome. Status distinguishes fresh data, stale cache
// served after a fetch failure, and outright errors.
type Result struct {
	Source       string         `json:"source"`
	DataType     string         `json:"data_type"`
	Timestamp    time.Time      `json:"timestamp"`
	Status       string         `json:"status"`
	Data         map[string]any `json:"data"`
	ErrorMessage string         `json:"error_message,omitempty"`
	NextRefresh  time.Time      `json:"next_refresh"`
}

// Fresh reports whether the result carries usable data.
func (r Result) Fresh() bool {
	return r.Status == StatusSuccess
}

// Request addresses one fetch in a batch.
type Request struct {
	Source       string         `json:"source"`
	DataType     string         `json:"data_type"`
	Params       map[string]any `json:"params"`
	ForceRefresh bool           `json:"force_refresh"`
}

// Key returns the identifier under which the batch result is reported.
func (r Request) Key() string {
	return r.Source + ":" + r.DataType
}
