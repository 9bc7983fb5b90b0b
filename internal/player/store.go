package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/rating"
)

// MaxNameLength is the longest accepted display name, in runes.
const MaxNameLength = 64

const rankedColumns = `
	SELECT id, name, current_rating, previous_rating, matches_played, matches_won, matches_lost, player_rank
	FROM ranked_players`

// New creates a new player Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

// NormalizeName trims surrounding whitespace and validates the result.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// Create registers a new player with the initial rating. Names are unique
// ignoring case.
func (s *store) Create(ctx context.Context, name string) (*Player, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	p := &Player{
		ID:             uuid.New().String(),
		Name:           name,
		CurrentRating:  rating.Initial,
		PreviousRating: rating.Initial,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, current_rating, previous_rating, matches_played, matches_won, matches_lost, created_at)
		VALUES (?, ?, ?, ?, 0, 0, 0, ?)`,
		p.ID, p.Name, p.CurrentRating, p.PreviousRating, time.Now().Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	log.Info("Player registered", "id", p.ID, "name", p.Name)
	return p, nil
}

// Rename changes a player's display name.
func (s *store) Rename(ctx context.Context, id string, name string) (*Player, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, "UPDATE players SET name = ? WHERE id = ?", name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to rename player %s: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return s.findByID(ctx, id)
}

// Delete removes a player. Their past matches stay in the history.
func (s *store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	log.Info("Player deleted", "id", id)
	return nil
}

func (s *store) FindByID(ctx context.Context, id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findByID(ctx, id)
}

// FindByName looks a player up ignoring case.
func (s *store) FindByName(ctx context.Context, name string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, current_rating, previous_rating, matches_played, matches_won, matches_lost
		FROM players WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(name))
	return scanPlayer(row)
}

// Search returns ranked players whose name contains query, skipping the
// excluded ids. An empty query matches everyone.
func (s *store) Search(ctx context.Context, query string, excludeIDs []string) ([]RankedPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString(rankedColumns)
	sb.WriteString(` WHERE name LIKE ? ESCAPE '\'`)
	args := []any{"%" + escapeLike(strings.TrimSpace(query)) + "%"}
	if len(excludeIDs) > 0 {
		sb.WriteString(" AND id NOT IN (")
		for i, id := range excludeIDs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("?")
			args = append(args, id)
		}
		sb.WriteString(")")
	}
	sb.WriteString(" ORDER BY player_rank, name COLLATE NOCASE")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRankedRows(rows)
}

// ListRanked returns the full leaderboard.
func (s *store) ListRanked(ctx context.Context) ([]RankedPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, rankedColumns+" ORDER BY player_rank, name COLLATE NOCASE")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRankedRows(rows)
}

func (s *store) GetRanked(ctx context.Context, id string) (*RankedPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, rankedColumns+" WHERE id = ?", id)
	return scanRanked(row)
}

// ApplyMatchResult records a submitted match. Either both players and the
// history row are written, or nothing is.
func (s *store) ApplyMatchResult(ctx context.Context, result MatchResult) error {
	if result.Record == nil {
		return errors.New("match result has no history record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE players
		SET previous_rating = current_rating, current_rating = ?,
			matches_played = matches_played + 1, matches_won = matches_won + 1
		WHERE id = ?`, result.WinnerRating, result.WinnerID)
	if err != nil {
		return fmt.Errorf("failed to update winner %s: %w", result.WinnerID, err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("winner %s: %w", result.WinnerID, err)
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE players
		SET previous_rating = current_rating, current_rating = ?,
			matches_played = matches_played + 1, matches_lost = matches_lost + 1
		WHERE id = ?`, result.LoserRating, result.LoserID)
	if err != nil {
		return fmt.Errorf("failed to update loser %s: %w", result.LoserID, err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("loser %s: %w", result.LoserID, err)
	}

	if err := history.Insert(ctx, tx, result.Record); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match result: %w", err)
	}
	log.Info("Match result applied", "match_id", result.Record.ID, "winner", result.WinnerID, "loser", result.LoserID)
	return nil
}

func (s *store) findByID(ctx context.Context, id string) (*Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, current_rating, previous_rating, matches_played, matches_won, matches_lost
		FROM players WHERE id = ?`, id)
	return scanPlayer(row)
}

// checkNameFree must be called with the write lock held.
func (s *store) checkNameFree(ctx context.Context, name string, exceptID string) error {
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM players WHERE name = ? COLLATE NOCASE AND id != ?", name, exceptID).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check player name: %w", err)
	}
	return ErrDuplicateName
}
