package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-ladder/internal/notifier"
	"github.com/mauv0809/shuttle-ladder/internal/pubsub"
)

// pushMessage is the body Google Pub/Sub sends to push subscriptions.
type pushMessage struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"`
	} `json:"message"`
}

// NotifyMatchResult returns the subscriber that posts a submitted match to Slack.
func NotifyMatchResult(n notifier.Notifier, pubsubClient pubsub.PubSubClient) pubsub.Handler {
	return func(ctx context.Context, data []byte) error {
		var event pubsub.MatchSubmitted
		if err := pubsubClient.ProcessMessage(data, &event); err != nil {
			return err
		}
		return n.SendMatchResult(ctx, event.Record, event.DryRun)
	}
}

// NotifyPlayerRegistered returns the subscriber that welcomes a new player on Slack.
func NotifyPlayerRegistered(n notifier.Notifier, pubsubClient pubsub.PubSubClient) pubsub.Handler {
	return func(ctx context.Context, data []byte) error {
		var event pubsub.PlayerRegistered
		if err := pubsubClient.ProcessMessage(data, &event); err != nil {
			return err
		}
		return n.SendPlayerRegistered(ctx, event.Name, event.DryRun)
	}
}

// MatchSubmittedPushHandler receives match-submitted messages pushed by Pub/Sub.
func MatchSubmittedPushHandler(n notifier.Notifier, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := readPushMessage(w, r)
		if !ok {
			return
		}
		var event pubsub.MatchSubmitted
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message data", http.StatusBadRequest)
			return
		}
		dryRun := event.DryRun || IsDryRunFromContext(r)
		if err := n.SendMatchResult(r.Context(), event.Record, dryRun); err != nil {
			log.Error("Failed to notify result", "error", err, "match_id", event.Record.ID)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// PlayerRegisteredPushHandler receives player-registered messages pushed by Pub/Sub.
func PlayerRegisteredPushHandler(n notifier.Notifier, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := readPushMessage(w, r)
		if !ok {
			return
		}
		var event pubsub.PlayerRegistered
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message data", http.StatusBadRequest)
			return
		}
		dryRun := event.DryRun || IsDryRunFromContext(r)
		if err := n.SendPlayerRegistered(r.Context(), event.Name, dryRun); err != nil {
			log.Error("Failed to notify player registration", "error", err, "player_id", event.ID)
			http.Error(w, "Failed to notify player registration", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// readPushMessage unwraps the base64 payload of a push request. It writes the
// error response itself and reports whether the caller should continue.
func readPushMessage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return nil, false
	}
	log.Debug("Received push message", "path", r.URL.Path, "body", string(bodyBytes))

	var msg pushMessage
	if err := json.Unmarshal(bodyBytes, &msg); err != nil {
		log.Error("Failed to unmarshal wrapper JSON", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return nil, false
	}
	rawData, err := base64.StdEncoding.DecodeString(msg.Message.Data)
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return nil, false
	}
	return rawData, true
}
