package model

import "time"

const (
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

// ScrapingRun is one append-only audit row per ingestion invocation.
type ScrapingRun struct {
	ID                int64
	ScrapeDate        time.Time
	Source            string
	CountryCode       string
	RecordsFetched    int
	RecordsInserted   int
	RecordsDuplicates int
	RecordsErrors     int
	Status            string
	ErrorMessage      *string
	Parameters        *string
	DurationSeconds   *float64
}
