package player

import "context"

// Store is the player directory and leaderboard.
type Store interface {
	Create(ctx context.Context, name string) (*Player, error)
	Rename(ctx context.Context, id string, name string) (*Player, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Player, error)
	FindByName(ctx context.Context, name string) (*Player, error)
	Search(ctx context.Context, query string, excludeIDs []string) ([]RankedPlayer, error)
	ListRanked(ctx context.Context) ([]RankedPlayer, error)
	GetRanked(ctx context.Context, id string) (*RankedPlayer, error)
	// ApplyMatchResult updates both players and inserts the history record
	// in a single transaction.
	ApplyMatchResult(ctx context.Context, result MatchResult) error
}
