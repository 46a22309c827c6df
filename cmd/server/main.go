package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"personachat-backend/internal/api"
	"personachat-backend/internal/backend"
	"personachat-backend/internal/config"
	"personachat-backend/internal/handlers"
	"personachat-backend/internal/services"
	"personachat-backend/internal/store"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("starting personachat backend")

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// 2. Snapshot store
	snapshotStore, err := store.NewSQLite(cfg.SnapshotDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open snapshot store")
	}
	defer snapshotStore.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := snapshotStore.Ping(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping snapshot store")
	}
	log.Info().Str("path", cfg.SnapshotDBPath).Msg("snapshot store ready")

	// 3. Backend client and seed configuration
	backendClient := backend.NewHTTPClient(cfg.BackendBaseURL, cfg.RequestTimeout)
	seed := resolveSeed(cfg, backendClient)

	// 4. Services and handlers
	workspaceService := services.NewWorkspaceService(snapshotStore, seed)
	exchangeService := services.NewExchangeService(workspaceService, backendClient)

	router := api.NewRouter(api.RouterDependencies{
		WorkspaceHandler: handlers.NewWorkspaceHandler(workspaceService),
		PersonaHandler:   handlers.NewPersonaHandler(workspaceService),
		MessageHandler:   handlers.NewMessageHandler(workspaceService),
		ExchangeHandler:  handlers.NewExchangeHandler(exchangeService),
		Config:           cfg,
	})

	// 5. HTTP server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Long write timeout: exchange requests block on the chat backend.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("port", cfg.HTTPPort).Msg("server failed")
		}
	}()

	<-stopChan
	log.Info().Msg("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// resolveSeed picks the workspace seed configuration. Precedence: local YAML
// seed file, then the backend's /config endpoint, then the built-in trio.
func resolveSeed(cfg *config.Config, client backend.Client) *config.Seed {
	if cfg.SeedConfigPath != "" {
		seed, err := config.LoadSeedFile(cfg.SeedConfigPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SeedConfigPath).Msg("failed to load seed file")
		}
		log.Info().Str("path", cfg.SeedConfigPath).Msg("seed loaded from file")
		return seed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if remote, err := client.FetchConfig(ctx); err == nil && len(remote.SamplePersonas) > 0 {
		seed := &config.Seed{DefaultContext: remote.DefaultContext}
		for _, sp := range remote.SamplePersonas {
			seed.SamplePersonas = append(seed.SamplePersonas, config.SeedPersona{
				Name:       sp.Name,
				Prompt:     sp.Prompt,
				ColorIndex: sp.ColorIndex,
				AvatarPath: sp.AvatarPath,
			})
		}
		log.Info().Int("personas", len(seed.SamplePersonas)).Msg("seed loaded from backend")
		return seed
	}

	log.Info().Msg("using built-in seed")
	return config.BuiltinSeed()
}
