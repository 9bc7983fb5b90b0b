package player

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/shuttle-ladder/internal/history"
)

// Player is a registered participant with their rating and record.
type Player struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CurrentRating  int    `json:"current_rating"`
	PreviousRating int    `json:"previous_rating"`
	MatchesPlayed  int    `json:"matches_played"`
	MatchesWon     int    `json:"matches_won"`
	MatchesLost    int    `json:"matches_lost"`
}

// RatingChange is the difference between the current and previous rating.
func (p Player) RatingChange() int {
	return p.CurrentRating - p.PreviousRating
}

// RankedPlayer is a Player with their dense leaderboard rank.
type RankedPlayer struct {
	Player
	Rank int `json:"rank"`
}

// MatchResult carries everything that must be written atomically when a
// completed match is submitted.
type MatchResult struct {
	WinnerID     string
	LoserID      string
	WinnerRating int
	LoserRating  int
	Record       *history.Record
}

type store struct {
	db *sql.DB
	mu sync.RWMutex
}
