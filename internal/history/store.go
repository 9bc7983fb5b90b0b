package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit caps List queries when the caller passes no limit.
const DefaultLimit = 50

const selectColumns = `
	SELECT id, winner_id, winner_name, loser_id, loser_name, winner_points, loser_points,
		initial_target, target, winner_before_rating, winner_after_rating,
		loser_before_rating, loser_after_rating, duration_minutes, match_type, played_at
	FROM matches`

// New creates a history Store on top of db.
func New(db *sql.DB) Store {
	return &store{db: db}
}

// Insert writes rec using exec, so it can take part in a caller's
// transaction. A missing ID is filled with a new UUID.
func Insert(ctx context.Context, exec Execer, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}
	_, err := exec.ExecContext(ctx, `
		INSERT INTO matches (id, winner_id, winner_name, loser_id, loser_name, winner_points, loser_points,
			initial_target, target, winner_before_rating, winner_after_rating,
			loser_before_rating, loser_after_rating, duration_minutes, match_type, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.WinnerID, rec.WinnerName, rec.LoserID, rec.LoserName, rec.WinnerPoints, rec.LoserPoints,
		rec.InitialTarget, rec.Target, rec.WinnerBeforeRating, rec.WinnerAfterRating,
		rec.LoserBeforeRating, rec.LoserAfterRating, rec.DurationMinutes, rec.MatchType, rec.PlayedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", rec.ID, err)
	}
	return nil
}

// List returns the most recent matches, newest first.
func (s *store) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY played_at DESC, id LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListForPlayer returns the most recent matches the player took part in.
func (s *store) ListForPlayer(ctx context.Context, playerID string, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE winner_id = ? OR loser_id = ?
		ORDER BY played_at DESC, id LIMIT ?`, playerID, playerID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Get returns a single match by id.
func (s *store) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRecord(scanner interface{ Scan(...any) error }) (*Record, error) {
	var rec Record
	var playedAt int64
	err := scanner.Scan(&rec.ID, &rec.WinnerID, &rec.WinnerName, &rec.LoserID, &rec.LoserName,
		&rec.WinnerPoints, &rec.LoserPoints, &rec.InitialTarget, &rec.Target,
		&rec.WinnerBeforeRating, &rec.WinnerAfterRating, &rec.LoserBeforeRating, &rec.LoserAfterRating,
		&rec.DurationMinutes, &rec.MatchType, &playedAt)
	if err != nil {
		return nil, err
	}
	rec.PlayedAt = time.Unix(playedAt, 0).UTC()
	return &rec, nil
}
