package storage

import (
	"fmt"

	"tendly/db"
	"tendly/internal/config"
	"tendly/internal/model"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// SearchFilter holds the optional tender search filters. Empty fields are
// skipped; set fields combine with AND.
type SearchFilter struct {
	Keyword string
	Buyer   string
	Status  string
}

// TenderStore is the storage contract shared by the ingestion pipeline and
// the read API. Reads are scoped to the country code the store was built
// with; an empty scope reads across all jurisdictions.
//
// InsertTender reports (false, nil) for a duplicate (notice_id, country_code)
// pair, which is a normal outcome and leaves the store untouched. A returned
// error always means the whole tender, including its lots and documents, was
// rolled back.
type TenderStore interface {
	InsertTender(t *model.Tender) (bool, error)
	GetAllTenders(limit, offset int) ([]model.Tender, error)
	SearchTenders(f SearchFilter) ([]model.Tender, error)
	GetStatistics() (model.Statistics, error)
	LogRun(run *model.ScrapingRun) error
	GetRuns(limit int) ([]model.ScrapingRun, error)
	Close() error
}

// Open builds the store selected by the configuration. Postgres is migrated
// before use; the SQLite backend applies its embedded schema on open.
func Open(cfg config.Config) (TenderStore, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		conn, err := db.ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		store, err := NewSQLiteStore(conn, cfg.CountryCode)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return store, nil
	case config.BackendPostgres:
		if err := migratePostgres(cfg.MigrationURL, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		conn, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return NewPostgresStore(conn, cfg.CountryCode), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func migratePostgres(migrationURL, databaseURL string) error {
	if migrationURL == "" {
		return nil
	}
	m, err := migrate.New(migrationURL, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
