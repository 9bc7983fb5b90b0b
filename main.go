package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-ladder/internal/clock"
	"github.com/mauv0809/shuttle-ladder/internal/config"
	"github.com/mauv0809/shuttle-ladder/internal/database"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	server "github.com/mauv0809/shuttle-ladder/internal/http"
	"github.com/mauv0809/shuttle-ladder/internal/http/handlers"
	"github.com/mauv0809/shuttle-ladder/internal/metrics"
	"github.com/mauv0809/shuttle-ladder/internal/notifier/slack"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/pubsub"
	"github.com/mauv0809/shuttle-ladder/internal/session"
	"github.com/mauv0809/shuttle-ladder/internal/snapshot"
	redisstore "github.com/mauv0809/shuttle-ladder/internal/snapshot/redis"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	cfg := config.Load()
	setupLogger(cfg.Log)

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx := context.Background()
	playerStore := player.New(db)
	historyStore := history.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	snapshots := snapshot.Store(snapshot.NewMemory())
	if cfg.RedisURL != "" {
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		rs, err := redisstore.New(redisCfg)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %s", err)
		}
		defer rs.Close()
		snapshots = rs
		log.Info("Live match snapshots stored in redis")
	}

	pubsubClient, err := pubsub.New(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatalf("Failed to initialize pubsub: %s", err)
	}
	defer pubsubClient.Close()
	if local, ok := pubsubClient.(*pubsub.LocalClient); ok {
		local.Subscribe(pubsub.EventMatchSubmitted, handlers.NotifyMatchResult(notifier, local))
		local.Subscribe(pubsub.EventPlayerRegistered, handlers.NotifyPlayerRegistered(notifier, local))
	}

	sess := session.New(playerStore, snapshots, pubsubClient, metricsSvc, clock.New(), cfg.DefaultTarget)
	if err := sess.Restore(ctx); err != nil {
		log.Error("Failed to restore live match, starting from an empty lobby", "error", err)
	}

	s := server.NewServer(
		playerStore,
		historyStore,
		sess,
		metricsHandler,
		cfg,
		notifier,
		pubsubClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// setupLogger applies the configured level and format. The values were
// validated when the config was loaded.
func setupLogger(cfg config.LogConfig) {
	if level, err := log.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(level)
	}
	if cfg.Format == "json" {
		log.SetFormatter(log.JSONFormatter)
	}
}
