package ocds

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
	"golang.org/x/time/rate"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		baseURL:    srv.URL,
		httpClient: srv.Client(),
		limiter:    rate.NewLimiter(rate.Inf, 1),
		daysBack:   7,
	}
}

func TestFetchReleases_EmptyPageTerminates(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"releases": [], "cursor": "next"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)

	releases, err := c.FetchReleases(50)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(releases))
	assert.Equal(t, 1, requests)
}

func TestFetchReleases_FollowsCursorAndTruncates(t *testing.T) {
	var cursors []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("cursor")
		cursors = append(cursors, cursor)
		if cursor == "" {
			w.Write([]byte(`{"releases": [{"id": "001-2024"}, {"id": "002-2024"}], "cursor": "page2"}`))
			return
		}
		w.Write([]byte(`{"releases": [{"id": "003-2024"}, {"id": "004-2024"}], "cursor": ""}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)

	releases, err := c.FetchReleases(3)
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(releases))
	assert.Equal(t, []string{"", "page2"}, cursors)
}

func TestFetchReleases_SendsWindowAndStages(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"releases": []}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	c.stages = "tender"

	_, err := c.FetchReleases(10)
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"tender"}, query["stages"])
	assert.Equal(t, []string{"10"}, query["limit"])
	assert.NotEqual(t, 0, len(query["updatedFrom"]))
	assert.NotEqual(t, 0, len(query["updatedTo"]))
}

func TestFetchReleases_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv)

	_, err := c.FetchReleases(10)
	assert.NotEqual(t, nil, err)
}

func TestFetchTenders_CountsParseErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"releases": [
			{"id": "001-2024"},
			{"tender": {"title": "missing id"}},
			{"id": "003-2024"}
		]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv)

	tenders, parseErrors, err := c.FetchTenders(10)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(tenders))
	assert.Equal(t, 1, parseErrors)
	assert.Equal(t, "001-2024", tenders[0].NoticeID)
}
