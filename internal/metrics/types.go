package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	PointsScored       prometheus.Counter
	MatchesStarted     *prometheus.CounterVec
	MatchesCompleted   prometheus.Counter
	MatchesSubmitted   prometheus.Counter
	SubmissionFailures prometheus.Counter
	RatingChange       prometheus.Histogram
	SubmissionDuration prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
