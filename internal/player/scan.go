package player

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// rawPlayer mirrors a players row with every column nullable, so that rows
// written by older schemas can be detected instead of silently zeroed.
type rawPlayer struct {
	id             string
	name           sql.NullString
	currentRating  sql.NullInt64
	previousRating sql.NullInt64
	matchesPlayed  sql.NullInt64
	matchesWon     sql.NullInt64
	matchesLost    sql.NullInt64
}

func (r *rawPlayer) fields() []any {
	return []any{&r.id, &r.name, &r.currentRating, &r.previousRating, &r.matchesPlayed, &r.matchesWon, &r.matchesLost}
}

func (r *rawPlayer) toPlayer() (*Player, error) {
	if !r.name.Valid || !r.currentRating.Valid || !r.previousRating.Valid ||
		!r.matchesPlayed.Valid || !r.matchesWon.Valid || !r.matchesLost.Valid {
		return nil, fmt.Errorf("%w: %s has missing columns", ErrMalformedRecord, r.id)
	}
	if r.matchesPlayed.Int64 < 0 || r.matchesWon.Int64 < 0 || r.matchesLost.Int64 < 0 {
		return nil, fmt.Errorf("%w: %s has negative counters", ErrMalformedRecord, r.id)
	}
	return &Player{
		ID:             r.id,
		Name:           r.name.String,
		CurrentRating:  int(r.currentRating.Int64),
		PreviousRating: int(r.previousRating.Int64),
		MatchesPlayed:  int(r.matchesPlayed.Int64),
		MatchesWon:     int(r.matchesWon.Int64),
		MatchesLost:    int(r.matchesLost.Int64),
	}, nil
}

func scanPlayer(row rowScanner) (*Player, error) {
	var raw rawPlayer
	if err := row.Scan(raw.fields()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw.toPlayer()
}

func scanRanked(row rowScanner) (*RankedPlayer, error) {
	var raw rawPlayer
	var rank int
	if err := row.Scan(append(raw.fields(), &rank)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p, err := raw.toPlayer()
	if err != nil {
		return nil, err
	}
	return &RankedPlayer{Player: *p, Rank: rank}, nil
}

func scanRankedRows(rows *sql.Rows) ([]RankedPlayer, error) {
	players := []RankedPlayer{}
	for rows.Next() {
		p, err := scanRanked(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
