package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	googleapi "flex_reviews/internal/adapters/google"
	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
	"flex_reviews/internal/shared"
	"flex_reviews/internal/storage/memory"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.HostawayBase).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Msg("ingestor starting")

	store := openStore(cfg)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var hostawayClient domain.HostawayClient
	if c, err := hostaway.New(cfg.HostawayBase, cfg.HostawayAccount, cfg.HostawayKey, cfg.HostawayRPS); err != nil {
		log.Warn().Err(err).Msg("hostaway client unavailable, fallback dataset will be used")
	} else {
		hostawayClient = c
	}
	var googleClient domain.GoogleClient
	if cfg.GoogleKey != "" {
		googleClient = googleapi.New(cfg.GoogleBase, cfg.GoogleKey)
	}

	ing := app.NewIngestionService(hostawayClient, googleClient, store, cache, cfg.CacheTTL, cfg.ProviderTimeout)

	if _, _, err := ing.SyncHostaway(ctx, cfg.ReviewCount, 0, true); err != nil {
		log.Fatal().Err(err).Msg("hostaway sync failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for propertyID, place := range shared.KnownPlaces {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(propertyID string, place shared.Place) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := ing.SyncGoogleProperty(ctx, propertyID, place.Name, place.PlaceID, true); err != nil {
				log.Warn().Str("property", propertyID).Err(err).Msg("google sync failed")
				return
			}
			log.Info().Str("property", propertyID).Msg("google sync ok")
		}(propertyID, place)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}

func openStore(cfg shared.Config) domain.ReviewStore {
	switch cfg.StorageDriver {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		return mysqlrepo.New(db)
	default:
		log.Warn().Msg("memory storage selected; ingested data will not outlive this process")
		return memory.New()
	}
}
