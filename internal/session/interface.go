package session

import (
	"context"

	"github.com/mauv0809/shuttle-ladder/internal/player"
)

// PlayerStore defines the player operations required by the session.
type PlayerStore interface {
	FindByID(ctx context.Context, id string) (*player.Player, error)
	ListRanked(ctx context.Context) ([]player.RankedPlayer, error)
	ApplyMatchResult(ctx context.Context, result player.MatchResult) error
}
