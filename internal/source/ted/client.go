package ted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tendly/internal/model"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.ted.europa.eu"
	searchEndpoint = "/v3/notices/search"
)

// Fields requested from the notice search API. The four value fields cover
// the candidates the amount probe walks through.
var defaultFields = []string{
	"ND", "PD", "DD", "TI", "CY", "TD", "NC", "DT",
	"total-value", "result-value-cur-lot", "framework-value-notice", "BT-27-Lot",
}

// Client fetches notices from the EU Tenders Electronic Daily search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
	}
}

func (c *Client) Name() string {
	return "ted_api"
}

type searchRequest struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
}

type searchResponse struct {
	Notices []json.RawMessage `json:"notices"`
}

// SearchNotices runs one expert query, e.g. "PD=20240115".
func (c *Client) SearchNotices(query string) (*searchResponse, error) {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, err
	}

	body, err := json.Marshal(searchRequest{Query: query, Fields: defaultFields})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+searchEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "UK-Tender-Scraper/1.0-EU")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ted fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ted fetch: unexpected status %s", resp.Status)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ted decode: %w", err)
	}
	return &result, nil
}

// FetchNotices queries notices published yesterday (the latest day TED has
// fully indexed) and truncates to total. The search API carries no
// continuation token, so one request covers a run.
func (c *Client) FetchNotices(total int) ([]json.RawMessage, error) {
	date := time.Now().AddDate(0, 0, -1).Format("20060102")

	result, err := c.SearchNotices("PD=" + date)
	if err != nil {
		return nil, err
	}

	notices := result.Notices
	if len(notices) > total {
		notices = notices[:total]
	}
	return notices, nil
}

// FetchTenders fetches and maps notices into canonical tenders, counting
// per-notice mapping failures without aborting the batch.
func (c *Client) FetchTenders(total int) ([]model.Tender, int, error) {
	notices, err := c.FetchNotices(total)
	if err != nil {
		return nil, 0, err
	}

	tenders := make([]model.Tender, 0, len(notices))
	parseErrors := 0
	for _, raw := range notices {
		t, err := ParseNotice(raw)
		if err != nil {
			slog.Warn("skipping malformed notice", "source", c.Name(), "error", err)
			parseErrors++
			continue
		}
		tenders = append(tenders, *t)
	}
	return tenders, parseErrors, nil
}
