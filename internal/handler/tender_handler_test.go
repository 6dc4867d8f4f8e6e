package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tendly/internal/model"
	"tendly/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeStore struct {
	tenders    []model.Tender
	searched   []model.Tender
	lastFilter storage.SearchFilter
	stats      model.Statistics
	runs       []model.ScrapingRun
	err        error
}

func (f *fakeStore) GetAllTenders(limit, offset int) ([]model.Tender, error) {
	return f.tenders, f.err
}

func (f *fakeStore) SearchTenders(filter storage.SearchFilter) ([]model.Tender, error) {
	f.lastFilter = filter
	return f.searched, f.err
}

func (f *fakeStore) GetStatistics() (model.Statistics, error) {
	return f.stats, f.err
}

func (f *fakeStore) GetRuns(limit int) ([]model.ScrapingRun, error) {
	return f.runs, f.err
}

func newTestRouter(store TenderStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTenderHandler(store, nil, "UK")
	r.GET("/tenders", h.GetTenders)
	r.GET("/tenders/search", h.SearchTenders)
	r.GET("/statistics", h.GetStatistics)
	r.GET("/runs", h.GetRuns)
	r.GET("/health", h.GetHealth)
	return r
}

func sampleTender() model.Tender {
	title := "Supply of IT Equipment"
	status := model.StatusActive
	amount := 50000.0
	pubDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return model.Tender{
		ID:              1,
		NoticeID:        "001-2024",
		CountryCode:     "UK",
		Title:           &title,
		Status:          &status,
		ValueAmount:     &amount,
		PublicationDate: &pubDate,
		CreatedAt:       time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetTenders_ReturnsTenders(t *testing.T) {
	store := &fakeStore{
		tenders: []model.Tender{sampleTender()},
		stats:   model.Statistics{TotalTenders: 1},
	}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tenders?limit=10&offset=0", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res TenderListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, len(res.Tenders))
	assert.Equal(t, "001-2024", res.Tenders[0].NoticeID)
	assert.Equal(t, "Supply of IT Equipment", *res.Tenders[0].Title)
	assert.Equal(t, "2024-01-15T00:00:00Z", *res.Tenders[0].PublicationDate)
}

func TestGetTenders_DefaultLimit(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tenders", nil)
	r.ServeHTTP(w, req)

	var res TenderListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, 0, res.Offset)
}

func TestGetTenders_LimitClamped(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tenders?limit=5000", nil)
	r.ServeHTTP(w, req)

	var res TenderListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 100, res.Limit)
}

func TestGetTenders_DBError(t *testing.T) {
	store := &fakeStore{err: errors.New("DB down")}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tenders", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSearchTenders_PassesFilters(t *testing.T) {
	store := &fakeStore{searched: []model.Tender{sampleTender()}}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tenders/search?keyword=road&buyer=education&status=active", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "road", store.lastFilter.Keyword)
	assert.Equal(t, "education", store.lastFilter.Buyer)
	assert.Equal(t, "active", store.lastFilter.Status)

	var res SearchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Total)
}

func TestGetStatistics_ReturnsCounts(t *testing.T) {
	store := &fakeStore{
		stats: model.Statistics{
			TotalTenders:  5,
			ByStatus:      map[string]int{"active": 3, "complete": 2},
			RecentTenders: 4,
		},
	}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/statistics", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res StatisticsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 5, res.TotalTenders)
	assert.Equal(t, 3, res.ByStatus["active"])
	assert.Equal(t, 4, res.RecentTenders)
}

func TestGetRuns_ReturnsRuns(t *testing.T) {
	errMsg := "source unavailable"
	store := &fakeStore{
		runs: []model.ScrapingRun{
			{
				ID:           2,
				ScrapeDate:   time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC),
				Source:       "api",
				CountryCode:  "UK",
				Status:       model.RunStatusError,
				ErrorMessage: &errMsg,
			},
			{
				ID:              1,
				ScrapeDate:      time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
				Source:          "api",
				CountryCode:     "UK",
				RecordsFetched:  10,
				RecordsInserted: 8,
				Status:          model.RunStatusSuccess,
			},
		},
	}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/runs", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res []RunResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, "error", res[0].Status)
	assert.Equal(t, "source unavailable", *res[0].ErrorMessage)
	assert.Equal(t, 8, res[1].RecordsInserted)
}

func TestGetHealth_Healthy(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "healthy", res["status"])
}

func TestGetHealth_Unhealthy(t *testing.T) {
	store := &fakeStore{err: errors.New("DB down")}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
