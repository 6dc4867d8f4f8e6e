package ingest

import (
	"errors"
	"testing"

	"tendly/internal/model"

	"github.com/go-playground/assert/v2"
)

type fakeSource struct {
	name        string
	tenders     []model.Tender
	parseErrors int
	err         error
}

func (f *fakeSource) Name() string {
	return f.name
}

func (f *fakeSource) FetchTenders(total int) ([]model.Tender, int, error) {
	return f.tenders, f.parseErrors, f.err
}

type fakeStore struct {
	inserted   []model.Tender
	duplicates map[string]bool
	insertErr  map[string]error
	runs       []model.ScrapingRun
	logErr     error
}

func (f *fakeStore) InsertTender(t *model.Tender) (bool, error) {
	if err := f.insertErr[t.NoticeID]; err != nil {
		return false, err
	}
	if f.duplicates[t.NoticeID] {
		return false, nil
	}
	f.inserted = append(f.inserted, *t)
	return true, nil
}

func (f *fakeStore) LogRun(run *model.ScrapingRun) error {
	f.runs = append(f.runs, *run)
	return f.logErr
}

func tenders(ids ...string) []model.Tender {
	out := make([]model.Tender, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Tender{NoticeID: id})
	}
	return out
}

func TestRun_CountsAndLogs(t *testing.T) {
	src := &fakeSource{
		name:        "api",
		tenders:     tenders("001-2024", "002-2024", "003-2024"),
		parseErrors: 1,
	}
	store := &fakeStore{duplicates: map[string]bool{"002-2024": true}}

	runner := NewRunner(store, "UK")
	run := runner.Run(src, 10, map[string]interface{}{"limit": 10})

	assert.Equal(t, model.RunStatusSuccess, run.Status)
	assert.Equal(t, "api", run.Source)
	assert.Equal(t, "UK", run.CountryCode)
	assert.Equal(t, 3, run.RecordsFetched)
	assert.Equal(t, 2, run.RecordsInserted)
	assert.Equal(t, 1, run.RecordsDuplicates)
	assert.Equal(t, 1, run.RecordsErrors)
	assert.Equal(t, `{"limit":10}`, *run.Parameters)
	assert.NotEqual(t, (*float64)(nil), run.DurationSeconds)

	// Exactly one log row per run.
	assert.Equal(t, 1, len(store.runs))
	assert.Equal(t, model.RunStatusSuccess, store.runs[0].Status)
}

func TestRun_StampsCountryCode(t *testing.T) {
	src := &fakeSource{name: "ted_api", tenders: tenders("000001-2024")}
	store := &fakeStore{}

	runner := NewRunner(store, "EU")
	runner.Run(src, 10, nil)

	assert.Equal(t, 1, len(store.inserted))
	assert.Equal(t, "EU", store.inserted[0].CountryCode)
}

func TestRun_StorageErrorSkipsRecord(t *testing.T) {
	src := &fakeSource{name: "api", tenders: tenders("001-2024", "002-2024")}
	store := &fakeStore{
		insertErr: map[string]error{"001-2024": errors.New("disk full")},
	}

	runner := NewRunner(store, "UK")
	run := runner.Run(src, 10, nil)

	// The failed record is counted, not fatal; the next one still lands.
	assert.Equal(t, model.RunStatusSuccess, run.Status)
	assert.Equal(t, 1, run.RecordsErrors)
	assert.Equal(t, 1, run.RecordsInserted)
	assert.Equal(t, 1, len(store.inserted))
	assert.Equal(t, "002-2024", store.inserted[0].NoticeID)
}

func TestRun_FetchFailureLogsErrorRun(t *testing.T) {
	src := &fakeSource{name: "api", err: errors.New("connection refused")}
	store := &fakeStore{}

	runner := NewRunner(store, "UK")
	run := runner.Run(src, 10, nil)

	assert.Equal(t, model.RunStatusError, run.Status)
	assert.Equal(t, "connection refused", *run.ErrorMessage)
	assert.Equal(t, 0, run.RecordsFetched)
	assert.Equal(t, 0, len(store.inserted))
	assert.Equal(t, 1, len(store.runs))
	assert.Equal(t, model.RunStatusError, store.runs[0].Status)
}

func TestRun_LogFailureDoesNotPanic(t *testing.T) {
	src := &fakeSource{name: "api", tenders: tenders("001-2024")}
	store := &fakeStore{logErr: errors.New("log table missing")}

	runner := NewRunner(store, "UK")
	run := runner.Run(src, 10, nil)

	assert.Equal(t, model.RunStatusSuccess, run.Status)
	assert.Equal(t, 1, run.RecordsInserted)
}
