package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotelrec/internal/adapters/geocode"
	server "hotelrec/internal/adapters/http_server"
	"hotelrec/internal/adapters/observability"
	redisad "hotelrec/internal/adapters/redis"
	"hotelrec/internal/adapters/remotefilter"
	"hotelrec/internal/adapters/sentiment"
	"hotelrec/internal/app"
	"hotelrec/internal/domain"
	"hotelrec/internal/shared"
	mysqlrepo "hotelrec/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	catalog := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	var geocoder domain.Geocoder = geocode.New(cfg.GeocodeBase, cfg.GeocodeUA, cfg.GeocodeRPS)
	geocoder = geocode.WithCache(geocoder, cache, int(cfg.CacheTTL.Seconds()))
	resolver := app.NewResolver(geocoder)

	// The classifier is constructed once, lazily, on first score; a failed
	// construction degrades scoring to the fixed fallback.
	scorer := app.NewScorer(func() (domain.SentimentClassifier, error) {
		return sentiment.New(cfg.SentimentBase, cfg.SentimentModel, cfg.SentimentKey, cfg.SentimentRPS)
	})

	var remote domain.RemoteFilter
	if cfg.RemoteFilterBase != "" {
		remote = remotefilter.New(cfg.RemoteFilterBase)
	}

	svc := app.NewRecommendationService(catalog, cache, scorer, resolver, remote, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{R: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
