package notifier

import (
	"context"

	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/player"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For submitted matches
	SendMatchResult(ctx context.Context, rec history.Record, dryRun bool) error
	// For new players joining the ladder
	SendPlayerRegistered(ctx context.Context, name string, dryRun bool) error
	SendLeaderboard(ctx context.Context, players []player.RankedPlayer, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(players []player.RankedPlayer) (any, error)
	FormatPlayerStatsResponse(p *player.RankedPlayer, recent []history.Record) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
