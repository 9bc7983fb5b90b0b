package http

import (
	"net/http"

	"github.com/mauv0809/shuttle-ladder/internal/config"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/notifier"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/pubsub"
	"github.com/mauv0809/shuttle-ladder/internal/session"
)

type Server struct {
	Players        player.Store
	History        history.Store
	Session        *session.Service
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	PubSub         pubsub.PubSubClient
	Router         *http.ServeMux
}
