package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	pointsScored        int
	matchesStarted      map[string]int
	matchesCompleted    int
	matchesSubmitted    int
	submissionFailures  int
	ratingChanges       []int
	submissionDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		matchesStarted: make(map[string]int),
	}
}

func (m *Mock) IncPointsScored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pointsScored++
}

func (m *Mock) IncMatchesStarted(matchType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesStarted[matchType]++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) IncMatchesSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSubmitted++
}

func (m *Mock) IncSubmissionFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissionFailures++
}

func (m *Mock) ObserveRatingChange(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingChanges = append(m.ratingChanges, delta)
}

func (m *Mock) ObserveSubmissionDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissionDurations = append(m.submissionDurations, seconds)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

func (m *Mock) PointsScored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pointsScored
}

// MatchesStarted returns how many matches of the given type were started.
func (m *Mock) MatchesStarted(matchType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesStarted[matchType]
}

func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

func (m *Mock) MatchesSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesSubmitted
}

func (m *Mock) SubmissionFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submissionFailures
}

// RatingChanges returns every delta passed to ObserveRatingChange, in order.
func (m *Mock) RatingChanges() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.ratingChanges...)
}

func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
