package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tendly/internal/cache"
	"tendly/internal/model"
	"tendly/internal/storage"

	"github.com/gin-gonic/gin"
)

type TenderStore interface {
	GetAllTenders(limit, offset int) ([]model.Tender, error)
	SearchTenders(f storage.SearchFilter) ([]model.Tender, error)
	GetStatistics() (model.Statistics, error)
	GetRuns(limit int) ([]model.ScrapingRun, error)
}

type TenderHandler struct {
	store       TenderStore
	statsCache  *cache.StatsCache
	countryCode string
}

// NewTenderHandler builds the API handler. statsCache may be nil, in which
// case statistics always come straight from the store.
func NewTenderHandler(store TenderStore, statsCache *cache.StatsCache, countryCode string) *TenderHandler {
	return &TenderHandler{store: store, statsCache: statsCache, countryCode: countryCode}
}

func (h *TenderHandler) GetTenders(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	tenders, err := h.store.GetAllTenders(limit, offset)
	if err != nil {
		slog.Error("error fetching tenders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stats, err := h.store.GetStatistics()
	if err != nil {
		slog.Error("error fetching tender total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := TenderListResponse{
		Tenders: toTenderResponses(tenders),
		Total:   stats.TotalTenders,
		Limit:   limit,
		Offset:  offset,
	}

	c.JSON(http.StatusOK, res)
}

func (h *TenderHandler) SearchTenders(c *gin.Context) {
	filter := storage.SearchFilter{
		Keyword: c.Query("keyword"),
		Buyer:   c.Query("buyer"),
		Status:  c.Query("status"),
	}

	tenders, err := h.store.SearchTenders(filter)
	if err != nil {
		slog.Error("error searching tenders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := SearchResponse{
		Tenders: toTenderResponses(tenders),
		Total:   len(tenders),
	}

	c.JSON(http.StatusOK, res)
}

func (h *TenderHandler) GetStatistics(c *gin.Context) {
	if h.statsCache != nil {
		if stats, ok := h.statsCache.Get(c.Request.Context(), h.countryCode); ok {
			c.JSON(http.StatusOK, toStatisticsResponse(*stats))
			return
		}
	}

	stats, err := h.store.GetStatistics()
	if err != nil {
		slog.Error("error fetching statistics", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if h.statsCache != nil {
		h.statsCache.Set(c.Request.Context(), h.countryCode, &stats)
	}

	c.JSON(http.StatusOK, toStatisticsResponse(stats))
}

func (h *TenderHandler) GetRuns(c *gin.Context) {
	limit := getQueryLimit(c)

	runs, err := h.store.GetRuns(limit)
	if err != nil {
		slog.Error("error fetching runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		res = append(res, RunResponse{
			ID:                r.ID,
			ScrapeDate:        r.ScrapeDate.Format(time.RFC3339),
			Source:            r.Source,
			CountryCode:       r.CountryCode,
			RecordsFetched:    r.RecordsFetched,
			RecordsInserted:   r.RecordsInserted,
			RecordsDuplicates: r.RecordsDuplicates,
			RecordsErrors:     r.RecordsErrors,
			Status:            r.Status,
			ErrorMessage:      r.ErrorMessage,
			Parameters:        r.Parameters,
			DurationSeconds:   r.DurationSeconds,
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *TenderHandler) GetHealth(c *gin.Context) {
	_, err := h.store.GetStatistics()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func toStatisticsResponse(stats model.Statistics) StatisticsResponse {
	byStatus := stats.ByStatus
	if byStatus == nil {
		byStatus = map[string]int{}
	}
	return StatisticsResponse{
		TotalTenders:  stats.TotalTenders,
		ByStatus:      byStatus,
		RecentTenders: stats.RecentTenders,
	}
}

func toTenderResponses(tenders []model.Tender) []TenderResponse {
	res := make([]TenderResponse, 0, len(tenders))
	for i := range tenders {
		res = append(res, toTenderResponse(&tenders[i]))
	}
	return res
}

func toTenderResponse(t *model.Tender) TenderResponse {
	res := TenderResponse{
		ID:                        t.ID,
		NoticeID:                  t.NoticeID,
		CountryCode:               t.CountryCode,
		OCID:                      t.OCID,
		Title:                     t.Title,
		Description:               t.Description,
		Status:                    t.Status,
		Stage:                     t.Stage,
		PublicationDate:           formatDate(t.PublicationDate),
		ValueAmount:               t.ValueAmount,
		ValueCurrency:             t.ValueCurrency,
		BuyerName:                 t.BuyerName,
		BuyerID:                   t.BuyerID,
		BuyerEmail:                t.BuyerEmail,
		BuyerAddress:              t.BuyerAddress,
		ClassificationID:          t.ClassificationID,
		ClassificationDescription: t.ClassificationDescription,
		MainProcurementCategory:   t.MainProcurementCategory,
		LegalBasis:                t.LegalBasis,
		TenderPeriodEnd:           formatDate(t.TenderPeriodEnd),
		CreatedAt:                 t.CreatedAt.Format(time.RFC3339),
	}

	for _, l := range t.Lots {
		res.Lots = append(res.Lots, LotResponse{
			LotID:              l.LotID,
			Description:        l.Description,
			ValueAmount:        l.ValueAmount,
			ValueCurrency:      l.ValueCurrency,
			Status:             l.Status,
			DurationDays:       l.DurationDays,
			HasRenewal:         l.HasRenewal,
			RenewalDescription: l.RenewalDescription,
			HasOptions:         l.HasOptions,
			OptionsDescription: l.OptionsDescription,
		})
	}

	for _, d := range t.Documents {
		res.Documents = append(res.Documents, DocumentResponse{
			DocumentID:    d.DocumentID,
			DocumentType:  d.DocumentType,
			NoticeType:    d.NoticeType,
			Description:   d.Description,
			URL:           d.URL,
			DatePublished: formatDate(d.DatePublished),
			Format:        d.Format,
		})
	}

	return res
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
