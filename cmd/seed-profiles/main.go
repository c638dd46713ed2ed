package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/sync/errgroup"

	"github.com/stemsi/profile-directory/internal/config"
	"github.com/stemsi/profile-directory/internal/logger"
	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/service"
	"github.com/stemsi/profile-directory/internal/session"
	"github.com/stemsi/profile-directory/internal/store"
	"github.com/stemsi/profile-directory/internal/validator"
)

// seed-profiles fills the profile store through its HTTP API with fake
// profiles, authenticating with a freshly issued admin token.
func main() {
	count := flag.Int("n", 45, "Number of profiles to create")
	workers := flag.Int("concurrency", 4, "Parallel requests")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup("seed-profiles", cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	token, err := service.NewAuthService(cfg).GenerateAdminToken()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue admin token")
	}
	sess := session.New(token)
	client := store.New(cfg.APIURL, cfg.StoreTimeout, log)

	fmt.Printf("=== Seeding %d Profiles into %s ===\n", *count, cfg.APIURL)

	var created atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)

	for i := 0; i < *count; i++ {
		in := fakeProfile()
		g.Go(func() error {
			if _, err := client.Create(gctx, sess, in); err != nil {
				return fmt.Errorf("create %q: %w", in.Name, err)
			}
			if n := created.Add(1); n%10 == 0 {
				fmt.Printf("Created %d profiles...\n", n)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Seeding stopped")
	}
	fmt.Printf("\nSeed completed! Added %d/%d profiles.\n", created.Load(), *count)
}

func fakeProfile() model.ProfileInput {
	email := gofakeit.Email()
	return model.ProfileInput{
		Name:        gofakeit.Name(),
		Avatar:      "https://i.pravatar.cc/150?u=" + url.QueryEscape(email),
		Description: gofakeit.JobTitle(),
		Location:    gofakeit.City(),
		Email:       email,
		Phone:       gofakeit.Phone(),
	}
}
