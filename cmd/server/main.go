package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parley/config"
	"parley/internal/cache"
	channelRepository "parley/internal/channel/repository"
	"parley/internal/database"
	dmRepository "parley/internal/dm/repository"
	messageRepository "parley/internal/message/repository"
	presenceRepository "parley/internal/presence/repository"
	presenceUsecase "parley/internal/presence/usecase"
	relayUsecase "parley/internal/relay/usecase"
	"parley/internal/retention"
	userRepository "parley/internal/user/repository"
	"parley/internal/ws"
	"parley/pkg/blob"
	"parley/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, err := config.LoadConfig("config")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	appLogger, err := logger.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	ephemeral := cache.New(ctx, cfg, *appLogger)
	defer ephemeral.Close()

	hub := ws.NewHub(ephemeral, *appLogger)
	if ephemeral.Enabled() {
		go func() {
			if err := hub.RunBridge(ctx); err != nil {
				appLogger.Error("event bridge stopped", "err", err)
			}
		}()
	}

	userRepo := userRepository.NewUserRepository(db, *appLogger)
	channelRepo := channelRepository.NewChannelRepository(db, *appLogger)
	messageRepo := messageRepository.NewMessageRepository(db, *appLogger)
	conversationRepo := dmRepository.NewConversationRepository(db, *appLogger)
	presenceRepo := presenceRepository.NewPresenceRepository(db, *appLogger)

	tracker := presenceUsecase.NewTracker(presenceRepo, ephemeral, hub, *appLogger)
	relay := relayUsecase.NewRelayUsecase(channelRepo, messageRepo, conversationRepo, userRepo, ephemeral, hub, *appLogger)
	gateway := ws.NewGateway(hub, relay, tracker, userRepo, cfg, *appLogger)

	blobs, err := blob.NewDiskStore(cfg.Blob.BaseDir, cfg.Blob.PublicURL)
	if err != nil {
		return fmt.Errorf("init blob store: %w", err)
	}

	sweeper := retention.NewSweeper(messageRepo, conversationRepo, channelRepo, presenceRepo, blobs, ephemeral, cfg, *appLogger)
	go sweeper.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gateway.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok connections=%d\n", hub.ConnectionCount())
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("server listening",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"retention_window", sweeper.Window().String(),
		)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	stop()

	grace := time.Duration(cfg.Server.ShutdownGraceSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("http shutdown incomplete", "err", err)
	}
	hub.Shutdown()

	return nil
}
