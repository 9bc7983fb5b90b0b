package player

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/rating"
)

// MockStore is an in-memory Store for tests. Any XxxFunc hook that is set
// replaces the default behaviour of that method.
type MockStore struct {
	mu      sync.Mutex
	Players map[string]*Player
	Records []history.Record

	ApplyMatchResultCalls []MatchResult

	FindByIDFunc         func(ctx context.Context, id string) (*Player, error)
	ListRankedFunc       func(ctx context.Context) ([]RankedPlayer, error)
	ApplyMatchResultFunc func(ctx context.Context, result MatchResult) error
}

func NewMock(players ...Player) *MockStore {
	m := &MockStore{Players: map[string]*Player{}}
	for _, p := range players {
		p := p
		m.Players[p.ID] = &p
	}
	return m
}

func (m *MockStore) Create(_ context.Context, name string) (*Player, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Players {
		if strings.EqualFold(p.Name, name) {
			return nil, ErrDuplicateName
		}
	}
	p := &Player{ID: uuid.New().String(), Name: name, CurrentRating: rating.Initial, PreviousRating: rating.Initial}
	m.Players[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *MockStore) Rename(_ context.Context, id string, name string) (*Player, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Players[id]
	if !ok {
		return nil, ErrNotFound
	}
	for _, other := range m.Players {
		if other.ID != id && strings.EqualFold(other.Name, name) {
			return nil, ErrDuplicateName
		}
	}
	p.Name = name
	cp := *p
	return &cp, nil
}

func (m *MockStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Players[id]; !ok {
		return ErrNotFound
	}
	delete(m.Players, id)
	return nil
}

func (m *MockStore) FindByID(ctx context.Context, id string) (*Player, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Players[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockStore) FindByName(_ context.Context, name string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Players {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) Search(ctx context.Context, query string, excludeIDs []string) ([]RankedPlayer, error) {
	ranked, err := m.ListRanked(ctx)
	if err != nil {
		return nil, err
	}
	excluded := map[string]bool{}
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	query = strings.ToLower(strings.TrimSpace(query))
	out := []RankedPlayer{}
	for _, p := range ranked {
		if excluded[p.ID] || !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MockStore) ListRanked(ctx context.Context) ([]RankedPlayer, error) {
	if m.ListRankedFunc != nil {
		return m.ListRankedFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Rank(m.snapshot()), nil
}

func (m *MockStore) GetRanked(ctx context.Context, id string) (*RankedPlayer, error) {
	ranked, err := m.ListRanked(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range ranked {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) ApplyMatchResult(ctx context.Context, result MatchResult) error {
	m.mu.Lock()
	m.ApplyMatchResultCalls = append(m.ApplyMatchResultCalls, result)
	m.mu.Unlock()
	if m.ApplyMatchResultFunc != nil {
		return m.ApplyMatchResultFunc(ctx, result)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	winner, ok := m.Players[result.WinnerID]
	if !ok {
		return ErrNotFound
	}
	loser, ok := m.Players[result.LoserID]
	if !ok {
		return ErrNotFound
	}
	winner.PreviousRating, winner.CurrentRating = winner.CurrentRating, result.WinnerRating
	winner.MatchesPlayed++
	winner.MatchesWon++
	loser.PreviousRating, loser.CurrentRating = loser.CurrentRating, result.LoserRating
	loser.MatchesPlayed++
	loser.MatchesLost++
	if result.Record != nil {
		m.Records = append(m.Records, *result.Record)
	}
	return nil
}

func (m *MockStore) snapshot() []Player {
	players := make([]Player, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, *p)
	}
	return players
}

// Rank orders players the way the ranked_players view does and assigns
// dense ranks.
func Rank(players []Player) []RankedPlayer {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.CurrentRating != b.CurrentRating {
			return a.CurrentRating > b.CurrentRating
		}
		if a.MatchesWon != b.MatchesWon {
			return a.MatchesWon > b.MatchesWon
		}
		if a.MatchesLost != b.MatchesLost {
			return a.MatchesLost < b.MatchesLost
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	ranked := make([]RankedPlayer, len(players))
	rank := 0
	for i, p := range players {
		if i == 0 || !sameStanding(players[i-1], p) {
			rank++
		}
		ranked[i] = RankedPlayer{Player: p, Rank: rank}
	}
	return ranked
}

func sameStanding(a, b Player) bool {
	return a.CurrentRating == b.CurrentRating && a.MatchesWon == b.MatchesWon && a.MatchesLost == b.MatchesLost
}
