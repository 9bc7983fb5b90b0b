package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mauv0809/shuttle-ladder/internal/snapshot"
)

// Store is a Redis-backed snapshot.Store
type Store struct {
	client *redis.Client
	cfg    Config
}

var _ snapshot.Store = (*Store)(nil)

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Store{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, cfg: cfg}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Save(ctx context.Context, live snapshot.Live) error {
	data, err := json.Marshal(live)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, liveMatchKey(), data, s.cfg.SnapshotTTL).Err()
}

func (s *Store) Load(ctx context.Context) (*snapshot.Live, error) {
	data, err := s.client.Get(ctx, liveMatchKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, snapshot.ErrNotFound
		}
		return nil, err
	}

	var live snapshot.Live
	if err := json.Unmarshal(data, &live); err != nil {
		return nil, err
	}
	return &live, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, liveMatchKey()).Err()
}
