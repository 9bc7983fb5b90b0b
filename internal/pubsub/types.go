package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/shuttle-ladder/internal/history"
)

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub.
// It doubles as the topic name.
type EventType string

const (
	EventMatchSubmitted   EventType = "match-submitted"
	EventPlayerRegistered EventType = "player-registered"
)

// MatchSubmitted is published once a completed match has been persisted.
type MatchSubmitted struct {
	Record history.Record `msgpack:"record"`
	DryRun bool           `msgpack:"dry_run"`
}

// PlayerRegistered is published when a player joins the ladder.
type PlayerRegistered struct {
	ID     string `msgpack:"id"`
	Name   string `msgpack:"name"`
	DryRun bool   `msgpack:"dry_run"`
}

// Handler consumes one raw message delivered by the in-process client.
type Handler func(ctx context.Context, data []byte) error
