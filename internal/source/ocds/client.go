package ocds

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tendly/internal/model"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.find-tender.service.gov.uk/api/1.0/ocdsReleasePackages"
	maxPageLimit   = 100
)

// Client fetches OCDS release packages from the UK Find a Tender service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	stages     string
	daysBack   int
}

// NewClient builds a UK source client. stages is an optional comma-joined
// phase filter (planning, tender, award); daysBack bounds the updatedFrom
// window.
func NewClient(stages string, daysBack int) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		stages:     stages,
		daysBack:   daysBack,
	}
}

func (c *Client) Name() string {
	return "api"
}

type releasePage struct {
	Releases []json.RawMessage `json:"releases"`
	Cursor   string            `json:"cursor"`
}

// FetchPage requests one page of releases. Releases are kept as raw JSON so
// a single malformed release can be skipped later without losing the page.
func (c *Client) FetchPage(limit int, updatedFrom, updatedTo, cursor string) (*releasePage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(min(limit, maxPageLimit)))
	if c.stages != "" {
		params.Set("stages", c.stages)
	}
	if updatedFrom != "" {
		params.Set("updatedFrom", updatedFrom)
	}
	if updatedTo != "" {
		params.Set("updatedTo", updatedTo)
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "UK-Tender-Scraper/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("find-tender fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("find-tender fetch: unexpected status %s", resp.Status)
	}

	var page releasePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("find-tender decode: %w", err)
	}
	return &page, nil
}

// FetchReleases pages through the API until total releases are collected,
// the source returns an empty page, or no continuation cursor remains. The
// result is truncated to exactly total.
func (c *Client) FetchReleases(total int) ([]json.RawMessage, error) {
	updatedTo := time.Now()
	updatedFrom := updatedTo.AddDate(0, 0, -c.daysBack)
	const layout = "2006-01-02T15:04:05"

	var all []json.RawMessage
	cursor := ""

	for len(all) < total {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return nil, err
		}

		remaining := total - len(all)
		page, err := c.FetchPage(remaining, updatedFrom.Format(layout), updatedTo.Format(layout), cursor)
		if err != nil {
			return nil, err
		}
		if len(page.Releases) == 0 {
			break
		}

		all = append(all, page.Releases...)

		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	if len(all) > total {
		all = all[:total]
	}
	return all, nil
}

// FetchTenders fetches and maps releases into canonical tenders. A release
// that fails to map is skipped and counted; it never aborts the batch.
func (c *Client) FetchTenders(total int) ([]model.Tender, int, error) {
	releases, err := c.FetchReleases(total)
	if err != nil {
		return nil, 0, err
	}

	tenders := make([]model.Tender, 0, len(releases))
	parseErrors := 0
	for _, raw := range releases {
		t, err := ParseRelease(raw)
		if err != nil {
			slog.Warn("skipping malformed release", "source", c.Name(), "error", err)
			parseErrors++
			continue
		}
		tenders = append(tenders, *t)
	}
	return tenders, parseErrors, nil
}
