package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	StorageDriver   string // memory | mysql
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	HostawayBase    string
	HostawayAccount string
	HostawayKey     string
	HostawayRPS     int
	GoogleBase      string
	GoogleKey       string
	Workers         int
	ReviewCount     int
	CacheTTL        time.Duration
	ProviderTimeout time.Duration
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		StorageDriver:   env("STORAGE_DRIVER", "memory"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/flexrev?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisDB:         atoi("REDIS_DB", 0),
		RedisPass:       env("REDIS_PASSWORD", ""),
		HostawayBase:    env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		HostawayAccount: env("HOSTAWAY_ACCOUNT_ID", "61148"),
		HostawayKey:     env("HOSTAWAY_API_KEY", ""),
		HostawayRPS:     atoi("HOSTAWAY_RPS", 5),
		GoogleBase:      env("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		GoogleKey:       env("GOOGLE_PLACES_API_KEY", ""),
		Workers:         atoi("INGEST_WORKERS", 4),
		ReviewCount:     atoi("INGEST_REVIEW_COUNT", 100),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		ProviderTimeout: time.Duration(atoi("PROVIDER_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	if c.HostawayKey == "" {
		log.Warn().Msg("HOSTAWAY_API_KEY is empty; ingestion will serve fallback data")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
