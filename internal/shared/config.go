package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	GeocodeBase string
	GeocodeRPS  int
	GeocodeUA   string

	SentimentBase  string
	SentimentModel string
	SentimentKey   string
	SentimentRPS   int

	RemoteFilterBase string // empty disables the remote filter client

	CatalogCSV  string
	SeedWorkers int
	CacheTTL    time.Duration
}

func Load() Config {
	// best-effort .env for local development
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
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotelrec?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		GeocodeBase: env("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeRPS:  atoi("GEOCODE_RPS", 1),
		GeocodeUA:   env("GEOCODE_USER_AGENT", "hotelrec/1.0"),

		SentimentBase:  env("SENTIMENT_BASE_URL", "https://api-inference.huggingface.co"),
		SentimentModel: env("SENTIMENT_MODEL", "distilbert-base-uncased-finetuned-sst-2-english"),
		SentimentKey:   env("SENTIMENT_API_KEY", ""),
		SentimentRPS:   atoi("SENTIMENT_RPS", 5),

		RemoteFilterBase: env("REMOTE_FILTER_BASE_URL", ""),

		CatalogCSV:  env("CATALOG_CSV", "hotels_clean.csv"),
		SeedWorkers: atoi("SEED_WORKERS", 8),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.SentimentKey == "" {
		log.Warn().Msg("SENTIMENT_API_KEY is empty; classification may be rate-limited")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
