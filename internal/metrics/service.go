package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PointsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_points_scored_total",
			Help: "The total number of points awarded through the scoreboard.",
		}),
		MatchesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shuttle_matches_started_total",
			Help: "The total number of matches started, by match type.",
		}, []string{"match_type"}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_matches_completed_total",
			Help: "The total number of matches that reached a winner.",
		}),
		MatchesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_matches_submitted_total",
			Help: "The total number of completed matches persisted with rating updates.",
		}),
		SubmissionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_submission_failures_total",
			Help: "The total number of match submissions that failed to persist.",
		}),
		RatingChange: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shuttle_rating_change",
			Help:    "Absolute rating change applied to each player on submission.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		}),
		SubmissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shuttle_submission_duration_seconds",
			Help:    "The duration of persisting a submitted match.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shuttle_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PointsScored,
		s.MatchesStarted,
		s.MatchesCompleted,
		s.MatchesSubmitted,
		s.SubmissionFailures,
		s.RatingChange,
		s.SubmissionDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPointsScored() {
	s.PointsScored.Inc()
}

func (s *Service) IncMatchesStarted(matchType string) {
	s.MatchesStarted.WithLabelValues(matchType).Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncMatchesSubmitted() {
	s.MatchesSubmitted.Inc()
}

func (s *Service) IncSubmissionFailures() {
	s.SubmissionFailures.Inc()
}

func (s *Service) ObserveRatingChange(delta int) {
	if delta < 0 {
		delta = -delta
	}
	s.RatingChange.Observe(float64(delta))
}

func (s *Service) ObserveSubmissionDuration(seconds float64) {
	s.SubmissionDuration.Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
