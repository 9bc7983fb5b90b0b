package history

import (
	"context"
	"database/sql"
)

// Store reads the match history.
type Store interface {
	List(ctx context.Context, limit int) ([]Record, error)
	ListForPlayer(ctx context.Context, playerID string, limit int) ([]Record, error)
	Get(ctx context.Context, id string) (*Record, error)
}

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
