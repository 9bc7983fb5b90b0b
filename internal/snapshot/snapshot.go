package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/shuttle-ladder/internal/match"
)

var ErrNotFound = errors.New("no live match snapshot")

// Live is the persisted form of the match on court.
type Live struct {
	Match     match.Snapshot `json:"match"`
	StartedAt time.Time      `json:"started_at,omitempty"`
}

// Store keeps the single live match so it survives a restart.
type Store interface {
	Save(ctx context.Context, live Live) error
	Load(ctx context.Context) (*Live, error)
	Clear(ctx context.Context) error
}

// Memory is a process-local Store, used when no Redis is configured.
type Memory struct {
	mu   sync.Mutex
	live *Live
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(_ context.Context, live Live) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live = &live
	return nil
}

func (m *Memory) Load(_ context.Context) (*Live, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live == nil {
		return nil, ErrNotFound
	}
	live := *m.live
	return &live, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live = nil
	return nil
}
