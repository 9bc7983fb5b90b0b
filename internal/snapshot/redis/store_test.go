package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mauv0809/shuttle-ladder/internal/match"
	"github.com/mauv0809/shuttle-ladder/internal/snapshot"
)

type StoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SnapshotTTL = time.Hour
	s.store = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StoreSuite) startedSnapshot() snapshot.Live {
	m := match.NewMachine(11)
	_, err := m.AddParticipant("a", "Ann")
	s.Require().NoError(err)
	_, err = m.AddParticipant("b", "Ben")
	s.Require().NoError(err)
	_, err = m.StartMatch(11, match.TypeDummy)
	s.Require().NoError(err)
	_, err = m.IncrementPoint(match.SideOne)
	s.Require().NoError(err)
	return snapshot.Live{Match: m.State().Snapshot(), StartedAt: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)}
}

func (s *StoreSuite) TestSaveAndLoad() {
	snap := s.startedSnapshot()
	s.Require().NoError(s.store.Save(s.ctx, snap))

	got, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(snap.Match, got.Match)
	s.True(snap.StartedAt.Equal(got.StartedAt))

	restored, err := match.Restore(got.Match, 11)
	s.Require().NoError(err)
	p1, _ := restored.State().Player1.Get()
	s.Equal(1, p1.Points)
}

func (s *StoreSuite) TestLoadNotFound() {
	_, err := s.store.Load(s.ctx)
	s.ErrorIs(err, snapshot.ErrNotFound)
}

func (s *StoreSuite) TestClear() {
	s.Require().NoError(s.store.Save(s.ctx, s.startedSnapshot()))
	s.Require().NoError(s.store.Clear(s.ctx))

	_, err := s.store.Load(s.ctx)
	s.ErrorIs(err, snapshot.ErrNotFound)
}

func (s *StoreSuite) TestSnapshotExpires() {
	s.Require().NoError(s.store.Save(s.ctx, s.startedSnapshot()))
	s.mini.FastForward(2 * time.Hour)

	_, err := s.store.Load(s.ctx)
	s.ErrorIs(err, snapshot.ErrNotFound)
}
