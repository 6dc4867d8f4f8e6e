package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"tendly/internal/config"
	"tendly/internal/generator"
	"tendly/internal/ingest"
	"tendly/internal/model"
	"tendly/internal/storage"

	"github.com/joho/godotenv"
)

func main() {

	count := flag.Int("count", 100, "number of synthetic tenders to insert")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("error opening store: %v", err)
	}
	defer store.Close()

	gen := generator.New(*seed)
	runner := ingest.NewRunner(store, cfg.CountryCode)

	params := map[string]interface{}{
		"count": *count,
		"seed":  *seed,
	}

	run := runner.Run(gen, *count, params)
	if run.Status == model.RunStatusError {
		os.Exit(1)
	}
}
