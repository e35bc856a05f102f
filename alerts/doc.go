// Package alerts watches synchronized marketing context for opportunity
// signals and turns them into prioritized, expiring alerts.
//
// Three detectors ship today: traffic spikes from the analytics agent's
// context, keyword openings from the strategy agent's context, and social
// engagement spikes from the social agent's context. Each detector compares
// current figures against configured thresholds, scores what it finds, and
// attaches recommended actions.
//
// Detected alerts fan out as memories to the agents responsible for acting
// on them, and Active reassembles the unexpired set sorted by priority. The
// Monitor runs the full sweep on an interval with backoff on failure.
package alerts
