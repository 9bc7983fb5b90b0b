package history

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu      sync.Mutex
	Records []Record

	ListFunc          func(ctx context.Context, limit int) ([]Record, error)
	ListForPlayerFunc func(ctx context.Context, playerID string, limit int) ([]Record, error)
	GetFunc           func(ctx context.Context, id string) (*Record, error)
}

func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) List(ctx context.Context, limit int) ([]Record, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return truncate(m.Records, limit), nil
}

func (m *MockStore) ListForPlayer(ctx context.Context, playerID string, limit int) ([]Record, error) {
	if m.ListForPlayerFunc != nil {
		return m.ListForPlayerFunc(ctx, playerID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, r := range m.Records {
		if r.WinnerID == playerID || r.LoserID == playerID {
			out = append(out, r)
		}
	}
	return truncate(out, limit), nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*Record, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Records {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

func truncate(records []Record, limit int) []Record {
	out := append([]Record{}, records...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
