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

	"github.com/stemsi/profile-directory/internal/config"
	"github.com/stemsi/profile-directory/internal/database"
	"github.com/stemsi/profile-directory/internal/handler"
	"github.com/stemsi/profile-directory/internal/logger"
	"github.com/stemsi/profile-directory/internal/repository"
	"github.com/stemsi/profile-directory/internal/router"
	"github.com/stemsi/profile-directory/internal/service"
	"github.com/stemsi/profile-directory/internal/validator"
)

// profilestore is a reference implementation of the /profileDetails store
// for local development. It shares JWT_SECRET with the directory so the
// directory's admin tokens authorize mutations.
func main() {
	cfg := config.Load()

	log := logger.Setup("profilestore", cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.StorePort).
		Msg("Starting Profile Store")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	repo := repository.NewProfileRepository(pool)
	authService := service.NewAuthService(cfg)
	storeHandler := handler.NewStoreHandler(repo, log)

	r := router.SetupStoreRouter(storeHandler, authService, cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.StorePort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Store listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
