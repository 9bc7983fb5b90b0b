package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/shuttle-ladder/internal/clock"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/match"
	"github.com/mauv0809/shuttle-ladder/internal/metrics"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/pubsub"
	"github.com/mauv0809/shuttle-ladder/internal/rating"
	"github.com/mauv0809/shuttle-ladder/internal/snapshot"
)

// New creates a Service with an empty lobby.
func New(players PlayerStore, snapshots snapshot.Store, pubsub pubsub.PubSubClient, metrics metrics.Metrics, clk clock.Clock, defaultTarget int) *Service {
	return &Service{
		machine:   match.NewMachine(defaultTarget),
		players:   players,
		snapshots: snapshots,
		pubsub:    pubsub,
		metrics:   metrics,
		clock:     clk,
	}
}

// State returns a copy of the live match.
func (s *Service) State() match.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// DefaultTarget is the target used when a match is started without one.
func (s *Service) DefaultTarget() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.DefaultTarget()
}

// Pending returns the rated records awaiting submission, or nil.
func (s *Service) Pending() *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	p := *s.pending
	return &p
}

// StartedAt returns when the live match was started, or the zero time.
func (s *Service) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// AddParticipant places a registered player into the lobby.
func (s *Service) AddParticipant(ctx context.Context, playerID string) (match.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.players.FindByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, player.ErrNotFound) {
			return s.machine.State(), fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		return s.machine.State(), fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	state, err := s.machine.AddParticipant(p.ID, p.Name)
	if err != nil {
		return state, err
	}
	log.Debug("Participant added", "player_id", p.ID, "phase", state.Phase())
	s.persist(ctx)
	return state, nil
}

func (s *Service) StartMatch(ctx context.Context, target int, matchType match.Type) (match.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.machine.StartMatch(target, matchType)
	if err != nil {
		return state, err
	}
	s.startedAt = s.clock.Now()
	s.metrics.IncMatchesStarted(string(state.Type))
	log.Info("Match started", "target", state.Target, "match_type", state.Type)
	s.persist(ctx)
	return state, nil
}

func (s *Service) IncrementPoint(ctx context.Context, side match.Side) (match.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.machine.State()
	state, err := s.machine.IncrementPoint(side)
	if err != nil {
		return state, err
	}
	s.metrics.IncPointsScored()
	return s.afterScoreChange(ctx, prev, state)
}

func (s *Service) DecrementPoint(ctx context.Context, side match.Side) (match.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.machine.State()
	state, err := s.machine.DecrementPoint(side)
	if err != nil {
		return state, err
	}
	return s.afterScoreChange(ctx, prev, state)
}

// EditScore applies an operator's manual edit given as text. Non-numeric
// input is rejected before it reaches the state machine.
func (s *Service) EditScore(ctx context.Context, p1Points, p2Points, target string) (match.State, error) {
	p1, p2, t, err := match.ParseScoreInput(p1Points, p2Points, target)
	if err != nil {
		return s.State(), err
	}
	return s.SetPointsManually(ctx, p1, p2, t)
}

func (s *Service) SetPointsManually(ctx context.Context, p1Points, p2Points, target int) (match.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.machine.State()
	state, err := s.machine.SetPointsManually(p1Points, p2Points, target)
	if err != nil {
		return state, err
	}
	return s.afterScoreChange(ctx, prev, state)
}

func (s *Service) ResetPoints(ctx context.Context) (match.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.machine.ResetPoints()
	if err != nil {
		return state, err
	}
	s.pending = nil
	s.persist(ctx)
	return state, nil
}

// EndMatch abandons the live match without recording anything.
func (s *Service) EndMatch(ctx context.Context) match.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Info("Match ended without submission")
	return s.resetLocked(ctx)
}

// Submit persists the pending ratings and the history record in one
// transaction, then returns the session to an empty lobby. On failure the
// completed match and its pending ratings are kept for a retry.
func (s *Service) Submit(ctx context.Context, dryRun bool) (*history.Record, error) {
	rec, err := s.submit(ctx)
	if err != nil {
		return nil, err
	}
	// Published without the lock held; subscribers may read the service.
	if err := s.pubsub.SendMessage(ctx, pubsub.EventMatchSubmitted, pubsub.MatchSubmitted{Record: *rec, DryRun: dryRun}); err != nil {
		log.Error("Failed to publish match submitted event", "error", err, "match_id", rec.ID)
	}
	return rec, nil
}

func (s *Service) submit(ctx context.Context) (*history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.machine.State()
	if state.Status() != match.StatusComplete {
		return nil, ErrNotComplete
	}
	if s.pending == nil {
		return nil, ErrNothingToSubmit
	}

	rec := s.buildRecord(state)
	start := time.Now()
	err := s.players.ApplyMatchResult(ctx, player.MatchResult{
		WinnerID:     s.pending.Winner.ID,
		LoserID:      s.pending.Loser.ID,
		WinnerRating: s.pending.Winner.CurrentRating,
		LoserRating:  s.pending.Loser.CurrentRating,
		Record:       rec,
	})
	s.metrics.ObserveSubmissionDuration(time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncSubmissionFailures()
		log.Error("Failed to submit match", "error", err, "match_id", rec.ID)
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	s.metrics.IncMatchesSubmitted()
	s.metrics.ObserveRatingChange(rec.WinnerDelta())
	s.metrics.ObserveRatingChange(rec.LoserDelta())
	log.Info("Match submitted", "match_id", rec.ID, "winner", rec.WinnerName, "loser", rec.LoserName,
		"score", fmt.Sprintf("%d-%d", rec.WinnerPoints, rec.LoserPoints))

	if err := s.refreshLocked(ctx); err != nil {
		log.Error("Failed to refresh leaderboard after submission", "error", err)
	}
	s.resetLocked(ctx)
	return rec, nil
}

// Leaderboard returns the cached ranked list, loading it on first use.
func (s *Service) Leaderboard(ctx context.Context) ([]player.RankedPlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ranked == nil {
		if err := s.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}
	return append([]player.RankedPlayer(nil), s.ranked...), nil
}

// RefreshLeaderboard re-reads the ranked list from the store.
func (s *Service) RefreshLeaderboard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

// Restore loads the live match saved before the last shutdown. A completed
// match gets its pending ratings computed again.
func (s *Service) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.snapshots.Load(ctx)
	if errors.Is(err, snapshot.ErrNotFound) {
		log.Debug("No live match to restore")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load live match: %w", err)
	}

	machine, err := match.Restore(live.Match, s.machine.DefaultTarget())
	if err != nil {
		return err
	}
	s.machine = machine
	s.startedAt = live.StartedAt
	s.pending = nil

	state := machine.State()
	log.Info("Live match restored", "phase", state.Phase(), "target", state.Target)
	if state.Status() == match.StatusComplete {
		if err := s.rate(ctx, state); err != nil {
			log.Warn("Restored match could not be rated", "error", err)
		}
	}
	return nil
}

// afterScoreChange runs the completion handler when the machine produced a
// new result, and drops stale pending ratings when a result was undone.
func (s *Service) afterScoreChange(ctx context.Context, prev, state match.State) (match.State, error) {
	defer s.persist(ctx)

	if state.Status() != match.StatusComplete {
		s.pending = nil
		return state, nil
	}
	if prev.Status() == match.StatusComplete && sameScore(prev, state) && s.pending != nil {
		return state, nil
	}

	if prev.Status() != match.StatusComplete {
		s.metrics.IncMatchesCompleted()
	}
	if err := s.rate(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// rate computes the pending player records for a completed match.
func (s *Service) rate(ctx context.Context, state match.State) error {
	s.pending = nil

	winner, err := s.lookup(ctx, state.Result.WinnerID)
	if err != nil {
		return err
	}
	loser, err := s.lookup(ctx, state.Result.LoserID)
	if err != nil {
		return err
	}

	higher, lower := winner, loser
	if winner.CurrentRating < loser.CurrentRating {
		higher, lower = loser, winner
	}
	newHigher, newLower := rating.Compute(higher.CurrentRating, lower.CurrentRating, state.MarginOfVictory(), higher.ID == winner.ID)

	// Results are assigned by position: the winner takes the higher rated
	// contestant's new rating, upsets included.
	ratedWinner, ratedLoser := *winner, *loser
	ratedWinner.CurrentRating, ratedLoser.CurrentRating = newHigher, newLower
	ratedWinner.PreviousRating = winner.CurrentRating
	ratedLoser.PreviousRating = loser.CurrentRating

	s.pending = &Pending{Winner: ratedWinner, Loser: ratedLoser}
	log.Info("Match complete", "winner", winner.Name, "loser", loser.Name,
		"winner_rating", ratedWinner.CurrentRating, "loser_rating", ratedLoser.CurrentRating)
	return nil
}

func (s *Service) lookup(ctx context.Context, id string) (*player.Player, error) {
	p, err := s.players.FindByID(ctx, id)
	if errors.Is(err, player.ErrNotFound) {
		log.Error("Completed match references an unknown player", "player_id", id)
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	return p, nil
}

func (s *Service) buildRecord(state match.State) *history.Record {
	winner, _ := state.Participant(state.Result.WinnerID)
	loser, _ := state.Participant(state.Result.LoserID)
	now := s.clock.Now()

	rec := &history.Record{
		ID:                 uuid.New().String(),
		WinnerID:           s.pending.Winner.ID,
		WinnerName:         s.pending.Winner.Name,
		LoserID:            s.pending.Loser.ID,
		LoserName:          s.pending.Loser.Name,
		WinnerPoints:       winner.Points,
		LoserPoints:        loser.Points,
		InitialTarget:      state.InitialTarget,
		Target:             state.Target,
		WinnerBeforeRating: s.pending.Winner.PreviousRating,
		WinnerAfterRating:  s.pending.Winner.CurrentRating,
		LoserBeforeRating:  s.pending.Loser.PreviousRating,
		LoserAfterRating:   s.pending.Loser.CurrentRating,
		MatchType:          string(state.Type),
		PlayedAt:           now,
	}
	if !s.startedAt.IsZero() && now.After(s.startedAt) {
		rec.DurationMinutes = int(now.Sub(s.startedAt).Minutes())
	}
	return rec
}

func (s *Service) refreshLocked(ctx context.Context) error {
	ranked, err := s.players.ListRanked(ctx)
	if err != nil {
		return err
	}
	s.ranked = ranked
	return nil
}

func (s *Service) resetLocked(ctx context.Context) match.State {
	state := s.machine.Reset()
	s.pending = nil
	s.startedAt = time.Time{}
	if err := s.snapshots.Clear(ctx); err != nil {
		log.Warn("Failed to clear live match snapshot", "error", err)
	}
	return state
}

// persist saves the live match. Failures are logged only.
func (s *Service) persist(ctx context.Context) {
	live := snapshot.Live{Match: s.machine.State().Snapshot(), StartedAt: s.startedAt}
	if err := s.snapshots.Save(ctx, live); err != nil {
		log.Warn("Failed to save live match snapshot", "error", err)
	}
}

func sameScore(a, b match.State) bool {
	a1, _ := a.Player1.Get()
	a2, _ := a.Player2.Get()
	b1, _ := b.Player1.Get()
	b2, _ := b.Player2.Get()
	return a1.Points == b1.Points && a2.Points == b2.Points
}
