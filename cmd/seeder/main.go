package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotelrec/internal/adapters/observability"
	"hotelrec/internal/app"
	"hotelrec/internal/shared"
	mysqlrepo "hotelrec/internal/storage/mysql"
)

// Reads the cleaned catalog CSV and upserts every row into MySQL with a
// bounded number of concurrent writers.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("csv", cfg.CatalogCSV).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	f, err := os.Open(cfg.CatalogCSV)
	if err != nil {
		log.Fatal().Err(err).Msg("open catalog CSV failed")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; mapper handles gaps

	header, err := r.Read()
	if err != nil {
		log.Fatal().Err(err).Msg("read CSV header failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup
	seeded, skipped := 0, 0

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Int("line", line).Err(err).Msg("bad CSV row, skipping")
			skipped++
			continue
		}

		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		h := app.MapHotelRecord(rec)
		if h.ID == "" || h.Name == "" {
			log.Warn().Int("line", line).Msg("row missing id/name, skipping")
			skipped++
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		seeded++
		go func(line int) {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.UpsertHotel(ctx, h); err != nil {
				log.Warn().Int("line", line).Str("id", h.ID).Err(err).Msg("upsert failed")
				return
			}
		}(line)
	}

	wg.Wait()
	log.Info().Int("seeded", seeded).Int("skipped", skipped).Msg("seeding completed")
}
