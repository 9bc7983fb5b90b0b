package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncPointsScored()
	IncMatchesStarted(matchType string)
	IncMatchesCompleted()
	IncMatchesSubmitted()
	IncSubmissionFailures()
	ObserveRatingChange(delta int)
	ObserveSubmissionDuration(seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
