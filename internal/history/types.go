package history

import (
	"database/sql"
	"sync"
	"time"
)

// Record is one submitted match, with both players' ratings before and
// after the update.
type Record struct {
	ID                 string    `json:"id"`
	WinnerID           string    `json:"winner_id"`
	WinnerName         string    `json:"winner_name"`
	LoserID            string    `json:"loser_id"`
	LoserName          string    `json:"loser_name"`
	WinnerPoints       int       `json:"winner_points"`
	LoserPoints        int       `json:"loser_points"`
	InitialTarget      int       `json:"initial_target"`
	Target             int       `json:"target"`
	WinnerBeforeRating int       `json:"winner_before_rating"`
	WinnerAfterRating  int       `json:"winner_after_rating"`
	LoserBeforeRating  int       `json:"loser_before_rating"`
	LoserAfterRating   int       `json:"loser_after_rating"`
	DurationMinutes    int       `json:"duration_minutes"`
	MatchType          string    `json:"match_type"`
	PlayedAt           time.Time `json:"played_at"`
}

// WinnerDelta is the rating change applied to the winner.
func (r Record) WinnerDelta() int {
	return r.WinnerAfterRating - r.WinnerBeforeRating
}

// LoserDelta is the rating change applied to the loser.
func (r Record) LoserDelta() int {
	return r.LoserAfterRating - r.LoserBeforeRating
}

type store struct {
	db *sql.DB
	mu sync.RWMutex
}
