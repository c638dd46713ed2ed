package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stemsi/profile-directory/internal/config"
	"github.com/stemsi/profile-directory/internal/database"
	"github.com/stemsi/profile-directory/internal/geocode"
	"github.com/stemsi/profile-directory/internal/handler"
	"github.com/stemsi/profile-directory/internal/listing"
	"github.com/stemsi/profile-directory/internal/logger"
	"github.com/stemsi/profile-directory/internal/middleware"
	"github.com/stemsi/profile-directory/internal/notify"
	"github.com/stemsi/profile-directory/internal/router"
	"github.com/stemsi/profile-directory/internal/service"
	"github.com/stemsi/profile-directory/internal/store"
	"github.com/stemsi/profile-directory/internal/validator"
	"github.com/stemsi/profile-directory/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup("directory", cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.APIURL).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Profile Directory")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Search Fields ─────────────────────────────────────────────────
	publicFields, err := listing.ResolveFieldSet(config.SplitList(cfg.PublicSearchFields), listing.PublicFields)
	if err != nil {
		log.Warn().Err(err).Strs("fields", fieldNames(publicFields)).Msg("Invalid SEARCH_FIELDS_PUBLIC, using default")
	}
	adminFields, err := listing.ResolveFieldSet(config.SplitList(cfg.AdminSearchFields), listing.AdminFields)
	if err != nil {
		log.Warn().Err(err).Strs("fields", fieldNames(adminFields)).Msg("Invalid SEARCH_FIELDS_ADMIN, using default")
	}

	// ─── Change Feed ───────────────────────────────────────────────────
	hub := notify.NewHub(log)
	defer hub.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	var publisher notify.Publisher = hub
	if rdb != nil {
		defer rdb.Close()
		publisher = notify.NewRedisPublisher(rdb, config.CacheKey.ProfilesChangedChannel())
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	profileService := service.NewProfileService(
		store.New(cfg.APIURL, cfg.StoreTimeout, log),
		geocode.New(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderRPS, log),
		publisher,
		service.ProfileOptions{
			PublicFields: publicFields,
			AdminFields:  adminFields,
			PageSize:     cfg.PageSize,
		},
		log,
	)

	// ─── Initialize Handlers ──────────────────────────────────────────
	cookie := middleware.SessionCookie{MaxAge: cfg.JWTExpiry, Secure: cfg.CookieSecure}
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cookie, log),
		Profile: handler.NewProfileHandler(profileService),
		Admin:   handler.NewAdminHandler(profileService, cookie),
		Page:    handler.NewPageHandler(profileService, authService, cookie, log),
		WS:      handler.NewWSHandler(hub, log, cfg.AllowedOrigins),
		System:  handler.NewSystemHandler(rdb, hub, log),
	}

	signInLimiter := middleware.NewRateLimiter(cfg.SignInRatePerMin, time.Minute)
	defer signInLimiter.Stop()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, signInLimiter, cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// ─── Start Background Workers ─────────────────────────────────────
	if rdb != nil {
		feed := worker.NewChangeFeedWorker(rdb, hub, config.CacheKey.ProfilesChangedChannel(), log)
		g.Go(func() error {
			// A broken feed only costs live refreshes; keep serving.
			if err := feed.Start(gctx); err != nil {
				log.Error().Err(err).Msg("Change feed worker stopped")
			}
			return nil
		})
	}

	// ─── Start Server ──────────────────────────────────────────────────
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

func fieldNames(set listing.FieldSet) []string {
	out := make([]string, len(set))
	for i, f := range set {
		out[i] = string(f)
	}
	return out
}
