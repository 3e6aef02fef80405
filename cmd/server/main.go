package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexfrontier/internal/config"
	"github.com/freeeve/hexfrontier/internal/handler"
	"github.com/freeeve/hexfrontier/internal/logger"
	"github.com/freeeve/hexfrontier/internal/middleware"
	"github.com/freeeve/hexfrontier/internal/rarity"
	"github.com/freeeve/hexfrontier/internal/repository"
	"github.com/freeeve/hexfrontier/internal/repository/postgres"
	redisrepo "github.com/freeeve/hexfrontier/internal/repository/redis"
	"github.com/freeeve/hexfrontier/internal/repository/store"
	"github.com/freeeve/hexfrontier/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("rarityMode", cfg.RarityMode).Bool("matchLog", cfg.DatabaseURL != "").Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Rarity source
	var src rarity.Source
	switch cfg.RarityMode {
	case "oracle":
		redisClient, err := redisrepo.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()
		src = rarity.NewOracleSource(redisClient, cfg.RarityPollInterval, cfg.RarityTimeout)
		if cfg.RarityDevFulfiller {
			go rarity.NewFulfiller(redisClient, nil).Run(ctx)
		}
	default:
		src = rarity.NewLocalSource(time.Now().UnixNano())
	}

	// Match history (optional)
	var matches repository.MatchRepository
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		matches = store.NewMatchRepo(db)
	}

	// WebSocket hub
	wsHub := handler.NewHub()

	// Services
	sessionSvc := service.NewSessionService(src, wsHub, service.Options{
		TurnCap:           cfg.AITurnCap,
		MaxTurns:          cfg.MaxTurns,
		Width:             cfg.MapWidth,
		Height:            cfg.MapHeight,
		DefaultDifficulty: cfg.DefaultDifficulty,
	})

	// Router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	handler.NewSessionHandler(sessionSvc).Register(mux)
	if matches != nil {
		handler.NewMatchHandler(matches).Register(mux)
	}
	mux.HandleFunc("GET /api/v1/ws", handler.NewWSHandler(wsHub, sessionSvc).ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.Recover, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RarityTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
