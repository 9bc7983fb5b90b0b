package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-ladder/internal/clock"
	"github.com/mauv0809/shuttle-ladder/internal/config"
	"github.com/mauv0809/shuttle-ladder/internal/database"
	"github.com/mauv0809/shuttle-ladder/internal/match"
	"github.com/mauv0809/shuttle-ladder/internal/metrics"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/pubsub"
	"github.com/mauv0809/shuttle-ladder/internal/session"
	"github.com/mauv0809/shuttle-ladder/internal/snapshot"
	"github.com/prometheus/client_golang/prometheus"
)

var seedNames = []string{
	"Seeder Player A",
	"Seeder Player B",
	"Seeder Player C",
	"Seeder Player D",
	"Seeder Player E",
	"Seeder Player F",
}

// The seeder plays random matches through the same session the server uses,
// so every seeded rating is a real result of the rating engine.
func main() {
	numMatches := flag.Int("matches", 200, "number of matches to play")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := config.Load()
	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	players := player.New(db)
	ids, err := ensurePlayers(ctx, players)
	if err != nil {
		log.Fatalf("Failed to create seed players: %s", err)
	}
	log.Info("Ensured seed players exist.", "count", len(ids))

	sess := session.New(players, snapshot.NewMemory(), pubsub.NewLocal(),
		metrics.NewService(prometheus.NewRegistry()), clock.New(), cfg.DefaultTarget)

	rng := rand.New(rand.NewSource(*seed))
	startTime := time.Now()
	for i := 0; i < *numMatches; i++ {
		a, b := pickTwo(rng, ids)
		if err := playMatch(ctx, sess, rng, a, b); err != nil {
			log.Fatalf("Failed to play match %d: %s", i+1, err)
		}
		if (i+1)%50 == 0 {
			log.Info("Played matches", "completed", i+1, "total", *numMatches)
		}
	}
	log.Info("Successfully seeded matches.", "total", *numMatches, "duration", time.Since(startTime))
}

func ensurePlayers(ctx context.Context, players player.Store) ([]string, error) {
	ids := make([]string, 0, len(seedNames))
	for _, name := range seedNames {
		p, err := players.FindByName(ctx, name)
		if errors.Is(err, player.ErrNotFound) {
			p, err = players.Create(ctx, name)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func pickTwo(rng *rand.Rand, ids []string) (string, string) {
	i := rng.Intn(len(ids))
	j := rng.Intn(len(ids) - 1)
	if j >= i {
		j++
	}
	return ids[i], ids[j]
}

// playMatch scores random rallies until the match completes, then submits it
// without notifying Slack.
func playMatch(ctx context.Context, sess *session.Service, rng *rand.Rand, a, b string) error {
	if _, err := sess.AddParticipant(ctx, a); err != nil {
		return err
	}
	if _, err := sess.AddParticipant(ctx, b); err != nil {
		return err
	}
	state, err := sess.StartMatch(ctx, sess.DefaultTarget(), match.TypeOfficial)
	if err != nil {
		return err
	}
	for state.Status() != match.StatusComplete {
		side := match.SideOne
		if rng.Intn(2) == 1 {
			side = match.SideTwo
		}
		if state, err = sess.IncrementPoint(ctx, side); err != nil {
			return err
		}
	}
	_, err = sess.Submit(ctx, true)
	return err
}
