package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"tendly/internal/config"
	"tendly/internal/ingest"
	"tendly/internal/model"
	"tendly/internal/source/ocds"
	"tendly/internal/storage"

	"github.com/joho/godotenv"
)

func main() {

	limit := flag.Int("limit", 100, "maximum number of releases to fetch")
	stage := flag.String("stage", "", "comma-separated OCDS stages to request (tender,planning,award)")
	daysBack := flag.Int("days-back", 7, "how many days of updates to request")
	country := flag.String("country", "", "country code override for this run")
	flag.Parse()

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if *country != "" {
		cfg.CountryCode = *country
	}

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("error opening store: %v", err)
	}
	defer store.Close()

	client := ocds.NewClient(*stage, *daysBack)
	runner := ingest.NewRunner(store, cfg.CountryCode)

	params := map[string]interface{}{
		"limit":     *limit,
		"stage":     *stage,
		"days_back": *daysBack,
	}

	run := runner.Run(client, *limit, params)
	if run.Status == model.RunStatusError {
		os.Exit(1)
	}
}
