package http

import (
	"net/http"

	"github.com/mauv0809/shuttle-ladder/internal/config"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/http/handlers"
	"github.com/mauv0809/shuttle-ladder/internal/notifier"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/pubsub"
	"github.com/mauv0809/shuttle-ladder/internal/session"
)

func NewServer(players player.Store, matches history.Store, sess *session.Service, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Players:        players,
		History:        matches,
		Session:        sess,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		PubSub:         pubsub,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Session), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(handlers.CreatePlayerHandler(s.Players, s.Session, s.PubSub), paramsMiddleware))
	s.Router.Handle("GET /players/search", Chain(handlers.SearchPlayersHandler(s.Players), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(handlers.GetPlayerHandler(s.Players, s.History), paramsMiddleware))
	s.Router.Handle("PATCH /players/{id}", Chain(handlers.RenamePlayerHandler(s.Players, s.Session), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}", Chain(handlers.DeletePlayerHandler(s.Players, s.Session), paramsMiddleware))

	s.Router.Handle("POST /leaderboard/announce", Chain(handlers.AnnounceLeaderboardHandler(s.Session, s.Notifier), paramsMiddleware))

	s.Router.Handle("GET /matches", Chain(handlers.ListMatchesHandler(s.History), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(handlers.GetMatchHandler(s.History), paramsMiddleware))

	s.Router.Handle("GET /match", Chain(handlers.LiveMatchHandler(s.Session), paramsMiddleware))
	s.Router.Handle("POST /match/participants", Chain(handlers.AddParticipantHandler(s.Session), paramsMiddleware))
	s.Router.Handle("POST /match/start", Chain(handlers.StartMatchHandler(s.Session), paramsMiddleware))
	s.Router.Handle("POST /match/points/{side}/{op}", Chain(handlers.PointHandler(s.Session), paramsMiddleware))
	s.Router.Handle("PUT /match/points", Chain(handlers.EditScoreHandler(s.Session), paramsMiddleware))
	s.Router.Handle("POST /match/reset-points", Chain(handlers.ResetPointsHandler(s.Session), paramsMiddleware))
	s.Router.Handle("POST /match/end", Chain(handlers.EndMatchHandler(s.Session), paramsMiddleware))
	s.Router.Handle("POST /match/submit", Chain(handlers.SubmitMatchHandler(s.Session), paramsMiddleware))

	slackAuth := slackVerificationMiddleware(s.Cfg.Slack.SigningSecret)
	s.Router.Handle("POST /slack/command/leaderboard", Chain(handlers.LeaderboardCommandHandler(s.Session, s.Notifier), paramsMiddleware, slackAuth))
	s.Router.Handle("POST /slack/command/player-stats", Chain(handlers.PlayerStatsCommandHandler(s.Players, s.History, s.Notifier), paramsMiddleware, slackAuth))

	s.Router.Handle("POST /pubsub/match-submitted", Chain(handlers.MatchSubmittedPushHandler(s.Notifier, s.PubSub), paramsMiddleware))
	s.Router.Handle("POST /pubsub/player-registered", Chain(handlers.PlayerRegisteredPushHandler(s.Notifier, s.PubSub), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
