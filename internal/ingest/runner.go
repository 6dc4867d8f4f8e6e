package ingest

import (
	"encoding/json"
	"log/slog"
	"time"

	"tendly/internal/model"

	"github.com/google/uuid"
)

// Source produces canonical tenders for one jurisdiction. FetchTenders
// returns the mapped records plus the count of per-record mapping failures;
// an error return means the fetch itself failed and the run is lost.
type Source interface {
	Name() string
	FetchTenders(total int) ([]model.Tender, int, error)
}

// Store is the slice of the storage contract the runner needs.
type Store interface {
	InsertTender(t *model.Tender) (bool, error)
	LogRun(run *model.ScrapingRun) error
}

// Runner drives one synchronous ingestion run: fetch, map, insert, count,
// log. Inserts are sequential; each tender is its own transaction, so a run
// that fails midway leaves the records inserted so far in place and the
// counts reflect exactly that.
type Runner struct {
	store       Store
	countryCode string
}

func NewRunner(store Store, countryCode string) *Runner {
	return &Runner{store: store, countryCode: countryCode}
}

// Run executes one ingestion run and always writes exactly one scraping_log
// row, success or error. Storage errors on individual records are skipped
// and counted; only a source fetch failure ends the run early.
func (r *Runner) Run(src Source, total int, params interface{}) *model.ScrapingRun {
	start := time.Now()
	runID := uuid.New().String()

	run := &model.ScrapingRun{
		Source:      src.Name(),
		CountryCode: r.countryCode,
		Status:      model.RunStatusSuccess,
	}
	if params != nil {
		if b, err := json.Marshal(params); err == nil {
			s := string(b)
			run.Parameters = &s
		}
	}

	slog.Info("starting ingestion run",
		"run_id", runID, "source", src.Name(), "country_code", r.countryCode, "total", total)

	tenders, parseErrors, err := src.FetchTenders(total)
	if err != nil {
		msg := err.Error()
		run.Status = model.RunStatusError
		run.ErrorMessage = &msg
		run.RecordsErrors = parseErrors
		slog.Error("ingestion run failed", "run_id", runID, "source", src.Name(), "error", err)
		r.finish(run, start, runID)
		return run
	}

	run.RecordsFetched = len(tenders)
	run.RecordsErrors = parseErrors

	for i := range tenders {
		t := &tenders[i]
		t.CountryCode = r.countryCode

		inserted, err := r.store.InsertTender(t)
		if err != nil {
			slog.Error("error inserting tender",
				"run_id", runID, "notice_id", t.NoticeID, "error", err)
			run.RecordsErrors++
			continue
		}
		if !inserted {
			run.RecordsDuplicates++
			continue
		}
		run.RecordsInserted++
	}

	r.finish(run, start, runID)
	return run
}

func (r *Runner) finish(run *model.ScrapingRun, start time.Time, runID string) {
	duration := time.Since(start).Seconds()
	run.DurationSeconds = &duration
	run.ScrapeDate = time.Now()

	if err := r.store.LogRun(run); err != nil {
		slog.Error("error logging run", "run_id", runID, "source", run.Source, "error", err)
	}

	slog.Info("ingestion run complete",
		"run_id", runID,
		"source", run.Source,
		"status", run.Status,
		"fetched", run.RecordsFetched,
		"inserted", run.RecordsInserted,
		"duplicates", run.RecordsDuplicates,
		"errors", run.RecordsErrors,
	)
}
