package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"tendly/db"
	"tendly/internal/cache"
	"tendly/internal/config"
	"tendly/internal/handler"
	"tendly/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("error opening store: %v", err)
	}
	defer store.Close()

	var statsCache *cache.StatsCache
	if cfg.RedisURL != "" {
		redisClient, err := db.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer redisClient.Close()
		statsCache = cache.NewStatsCache(redisClient, 5*time.Minute)
	}

	tenderHandler := handler.NewTenderHandler(store, statsCache, cfg.CountryCode)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/tenders", tenderHandler.GetTenders)
	r.GET("/tenders/search", tenderHandler.SearchTenders)
	r.GET("/statistics", tenderHandler.GetStatistics)
	r.GET("/runs", tenderHandler.GetRuns)
	r.GET("/health", tenderHandler.GetHealth)

	err = r.Run(cfg.ServerAddress)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
