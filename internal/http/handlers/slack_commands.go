package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/notifier"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/session"
	"github.com/slack-go/slack"
)

// recentMatches is how many matches /player-stats lists.
const recentMatches = 5

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(slackMsg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

func LeaderboardCommandHandler(sess *session.Service, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := sess.Leaderboard(r.Context())
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard", "error", err)
			return
		}

		msg, err := n.FormatLeaderboardResponse(players)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PlayerStatsCommandHandler answers `/player-stats <name>` with the player's
// rank, rating and most recent matches.
func PlayerStatsCommandHandler(store player.Store, matches history.Store, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(r.FormValue("text"))
		if name == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", name)
		ranked, recent, err := playerStats(r, store, matches, name)
		var msg any
		switch {
		case errors.Is(err, player.ErrNotFound), errors.Is(err, player.ErrInvalidName), errors.Is(err, player.ErrNameTooLong):
			log.Warn("Could not find player", "player", name, "error", err)
			msg, err = n.FormatPlayerNotFoundResponse(name)
		case err != nil:
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats", "player", name, "error", err)
			return
		default:
			msg, err = n.FormatPlayerStatsResponse(ranked, recent)
		}
		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

func playerStats(r *http.Request, store player.Store, matches history.Store, name string) (*player.RankedPlayer, []history.Record, error) {
	p, err := store.FindByName(r.Context(), name)
	if err != nil {
		return nil, nil, err
	}
	ranked, err := store.GetRanked(r.Context(), p.ID)
	if err != nil {
		return nil, nil, err
	}
	recent, err := matches.ListForPlayer(r.Context(), p.ID, recentMatches)
	if err != nil {
		return nil, nil, err
	}
	return ranked, recent, nil
}
