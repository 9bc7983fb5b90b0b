package session

import (
	"sync"
	"time"

	"github.com/mauv0809/shuttle-ladder/internal/clock"
	"github.com/mauv0809/shuttle-ladder/internal/match"
	"github.com/mauv0809/shuttle-ladder/internal/metrics"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/pubsub"
	"github.com/mauv0809/shuttle-ladder/internal/snapshot"
)

// Pending holds the rated player records of a completed match until it is
// submitted. Counters are not yet incremented.
type Pending struct {
	Winner player.Player `json:"winner"`
	Loser  player.Player `json:"loser"`
}

// Service owns the match on court and everything that happens to it.
type Service struct {
	mu sync.Mutex

	machine   *match.Machine
	startedAt time.Time
	pending   *Pending
	ranked    []player.RankedPlayer

	players   PlayerStore
	snapshots snapshot.Store
	pubsub    pubsub.PubSubClient
	metrics   metrics.Metrics
	clock     clock.Clock
}
