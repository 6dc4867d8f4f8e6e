package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"tendly/internal/config"
	"tendly/internal/ingest"
	"tendly/internal/model"
	"tendly/internal/source/ted"
	"tendly/internal/storage"

	"github.com/joho/godotenv"
)

func main() {

	limit := flag.Int("limit", 100, "maximum number of notices to fetch")
	country := flag.String("country", "EU", "country code for this run")
	flag.Parse()

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	cfg.CountryCode = *country

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("error opening store: %v", err)
	}
	defer store.Close()

	client := ted.NewClient()
	runner := ingest.NewRunner(store, cfg.CountryCode)

	params := map[string]interface{}{
		"limit": *limit,
	}

	run := runner.Run(client, *limit, params)
	if run.Status == model.RunStatusError {
		os.Exit(1)
	}
}
