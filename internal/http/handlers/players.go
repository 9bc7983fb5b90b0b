package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/notifier"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/pubsub"
	"github.com/mauv0809/shuttle-ladder/internal/session"
)

// profileMatches is how many recent matches a player profile shows.
const profileMatches = 10

type nameRequest struct {
	Name string `json:"name"`
}

type profileResponse struct {
	Player  player.RankedPlayer `json:"player"`
	Matches []history.Record    `json:"matches"`
}

// ListPlayersHandler returns the ranked ladder.
func ListPlayersHandler(sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := sess.Leaderboard(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func CreatePlayerHandler(store player.Store, sess *session.Service, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, err)
			return
		}
		p, err := store.Create(r.Context(), req.Name)
		if err != nil {
			WriteError(w, err)
			return
		}
		refreshLeaderboard(r, sess)
		if err := pubsubClient.SendMessage(r.Context(), pubsub.EventPlayerRegistered, pubsub.PlayerRegistered{ID: p.ID, Name: p.Name, DryRun: IsDryRunFromContext(r)}); err != nil {
			log.Error("Failed to publish player registered event", "error", err, "player_id", p.ID)
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// SearchPlayersHandler finds players by name. exclude is a comma separated
// list of ids to leave out, such as the players already in the lobby.
func SearchPlayersHandler(store player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var exclude []string
		for _, id := range strings.Split(r.URL.Query().Get("exclude"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				exclude = append(exclude, id)
			}
		}
		players, err := store.Search(r.Context(), r.URL.Query().Get("q"), exclude)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

// GetPlayerHandler returns a player's standing and recent matches.
func GetPlayerHandler(store player.Store, matches history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		p, err := store.GetRanked(r.Context(), id)
		if err != nil {
			WriteError(w, err)
			return
		}
		recent, err := matches.ListForPlayer(r.Context(), id, profileMatches)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profileResponse{Player: *p, Matches: recent})
	}
}

func RenamePlayerHandler(store player.Store, sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, err)
			return
		}
		p, err := store.Rename(r.Context(), r.PathValue("id"), req.Name)
		if err != nil {
			WriteError(w, err)
			return
		}
		refreshLeaderboard(r, sess)
		writeJSON(w, http.StatusOK, p)
	}
}

func DeletePlayerHandler(store player.Store, sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), r.PathValue("id")); err != nil {
			WriteError(w, err)
			return
		}
		refreshLeaderboard(r, sess)
		w.WriteHeader(http.StatusNoContent)
	}
}

func refreshLeaderboard(r *http.Request, sess *session.Service) {
	if err := sess.RefreshLeaderboard(r.Context()); err != nil {
		log.Error("Failed to refresh leaderboard", "error", err)
	}
}

// AnnounceLeaderboardHandler posts the current ladder to the Slack channel.
func AnnounceLeaderboardHandler(sess *session.Service, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := sess.Leaderboard(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		if err := n.SendLeaderboard(r.Context(), players, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to send leaderboard", "error", err)
			http.Error(w, "Failed to send leaderboard", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
