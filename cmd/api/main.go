package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	googleapi "flex_reviews/internal/adapters/google"
	"flex_reviews/internal/adapters/hostaway"
	server "flex_reviews/internal/adapters/http_server"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
	"flex_reviews/internal/shared"
	"flex_reviews/internal/storage/memory"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	store := openStore(cfg)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var hostawayClient domain.HostawayClient
	if c, err := hostaway.New(cfg.HostawayBase, cfg.HostawayAccount, cfg.HostawayKey, cfg.HostawayRPS); err != nil {
		// no credentials: ingestion falls back to the bundled dataset
		log.Warn().Err(err).Msg("hostaway client unavailable")
	} else {
		hostawayClient = c
	}
	var googleClient domain.GoogleClient
	if cfg.GoogleKey != "" {
		googleClient = googleapi.New(cfg.GoogleBase, cfg.GoogleKey)
	}

	q := app.NewQueryService(store, cache, cfg.CacheTTL)
	m := app.NewModerationService(store, cache)
	a := app.NewAnalyticsService(store)
	ing := app.NewIngestionService(hostawayClient, googleClient, store, cache, cfg.CacheTTL, cfg.ProviderTimeout)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, M: m, A: a, I: ing})

	log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.StorageDriver).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
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
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db)
	default:
		return memory.New()
	}
}
