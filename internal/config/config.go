package config

import "github.com/spf13/viper"

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config carries everything the entry points need to wire the pipeline.
// It is built once in main and passed down; no package holds a cached copy.
type Config struct {
	Backend       string
	DatabaseURL   string
	SQLitePath    string
	MigrationURL  string
	CountryCode   string
	RedisURL      string
	ServerAddress string
	FrontendURL   string
}

// Load reads configuration from the environment (the cmds call godotenv
// first, so a local .env file is honored).
func Load() Config {
	v := viper.New()
	v.SetDefault("STORAGE_BACKEND", BackendPostgres)
	v.SetDefault("SQLITE_PATH", "sql/tenders.db")
	v.SetDefault("MIGRATION_URL", "file://migrations")
	v.SetDefault("COUNTRY_CODE", "UK")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.AutomaticEnv()

	return Config{
		Backend:       v.GetString("STORAGE_BACKEND"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		MigrationURL:  v.GetString("MIGRATION_URL"),
		CountryCode:   v.GetString("COUNTRY_CODE"),
		RedisURL:      v.GetString("REDIS_URL"),
		ServerAddress: v.GetString("SERVER_ADDRESS"),
		FrontendURL:   v.GetString("FRONTEND_URL"),
	}
}
