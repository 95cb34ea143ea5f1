// Command seed loads the emission factor dataset into MongoDB.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"carbon-travel-api/config"
	"carbon-travel-api/internal/database"
	"carbon-travel-api/internal/s3"
)

func main() {
	file := flag.String("file", "data/emission_factors.json", "factor dataset, a local path or s3://bucket/key")
	replace := flag.Bool("replace", false, "replace the whole collection instead of upserting rows")
	flag.Parse()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		config.Logger.Fatal().Err(err).Msg("Could not load config")
	}
	config.InitLogger(cfg.Log.Level, cfg.Log.Format)
	log := config.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r, err := open(ctx, cfg, *file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to open factor dataset")
	}
	rows, err := database.ParseFactorRows(r)
	r.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Invalid factor dataset")
	}

	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}
	if err := database.SeedFactors(ctx, database.NewFactorRepository(db), rows, *replace, log); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
}

func open(ctx context.Context, cfg config.Config, file string) (io.ReadCloser, error) {
	if !s3.IsURI(file) {
		return os.Open(file)
	}
	fetcher, err := s3.NewFetcher(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	return fetcher.Open(ctx, file)
}
