package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/player"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchResultCalls []struct {
		Record history.Record
		DryRun bool
	}
	SendPlayerRegisteredCalls []struct {
		Name   string
		DryRun bool
	}
	SendLeaderboardCalls [][]player.RankedPlayer

	SendMatchResultFunc func(rec history.Record, dryRun bool) error

	// Spies for format functions
	FormatLeaderboardResponseFunc    func(players []player.RankedPlayer) (any, error)
	FormatPlayerStatsResponseFunc    func(p *player.RankedPlayer, recent []history.Record) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	LastPlayerNotFoundQuery string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendPlayerRegisteredCalls = nil
	m.SendLeaderboardCalls = nil
	m.LastPlayerNotFoundQuery = ""
}

func (m *Mock) SendMatchResult(_ context.Context, rec history.Record, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, struct {
		Record history.Record
		DryRun bool
	}{rec, dryRun})
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(rec, dryRun)
	}
	return nil
}

func (m *Mock) SendPlayerRegistered(_ context.Context, name string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerRegisteredCalls = append(m.SendPlayerRegisteredCalls, struct {
		Name   string
		DryRun bool
	}{name, dryRun})
	return nil
}

func (m *Mock) SendLeaderboard(_ context.Context, players []player.RankedPlayer, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, players)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(players []player.RankedPlayer) (any, error) {
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(players)
	}
	return nil, nil
}

func (m *Mock) FormatPlayerStatsResponse(p *player.RankedPlayer, recent []history.Record) (any, error) {
	if m.FormatPlayerStatsResponseFunc != nil {
		return m.FormatPlayerStatsResponseFunc(p, recent)
	}
	return nil, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	m.LastPlayerNotFoundQuery = query
	m.mu.Unlock()
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return nil, nil
}

// MatchResultCount returns how many result notifications were sent.
func (m *Mock) MatchResultCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendMatchResultCalls)
}
