package handler

type TenderResponse struct {
	ID                        int64              `json:"id"`
	NoticeID                  string             `json:"notice_id"`
	CountryCode               string             `json:"country_code"`
	OCID                      *string            `json:"ocid"`
	Title                     *string            `json:"title"`
	Description               *string            `json:"description"`
	Status                    *string            `json:"status"`
	Stage                     *string            `json:"stage"`
	PublicationDate           *string            `json:"publication_date"`
	ValueAmount               *float64           `json:"value_amount"`
	ValueCurrency             *string            `json:"value_currency"`
	BuyerName                 *string            `json:"buyer_name"`
	BuyerID                   *string            `json:"buyer_id"`
	BuyerEmail                *string            `json:"buyer_email"`
	BuyerAddress              *string            `json:"buyer_address"`
	ClassificationID          *string            `json:"classification_id"`
	ClassificationDescription *string            `json:"classification_description"`
	MainProcurementCategory   *string            `json:"main_procurement_category"`
	LegalBasis                *string            `json:"legal_basis"`
	TenderPeriodEnd           *string            `json:"tender_period_end"`
	CreatedAt                 string             `json:"created_at"`
	Lots                      []LotResponse      `json:"lots,omitempty"`
	Documents                 []DocumentResponse `json:"documents,omitempty"`
}

type LotResponse struct {
	LotID              *string  `json:"lot_id"`
	Description        *string  `json:"description"`
	ValueAmount        *float64 `json:"value_amount"`
	ValueCurrency      *string  `json:"value_currency"`
	Status             *string  `json:"status"`
	DurationDays       *int     `json:"duration_days"`
	HasRenewal         *bool    `json:"has_renewal"`
	RenewalDescription *string  `json:"renewal_description"`
	HasOptions         *bool    `json:"has_options"`
	OptionsDescription *string  `json:"options_description"`
}

type DocumentResponse struct {
	DocumentID    *string `json:"document_id"`
	DocumentType  *string `json:"document_type"`
	NoticeType    *string `json:"notice_type"`
	Description   *string `json:"description"`
	URL           *string `json:"url"`
	DatePublished *string `json:"date_published"`
	Format        *string `json:"format"`
}

type TenderListResponse struct {
	Tenders []TenderResponse `json:"tenders"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type SearchResponse struct {
	Tenders []TenderResponse `json:"tenders"`
	Total   int              `json:"total"`
}

type StatisticsResponse struct {
	TotalTenders  int            `json:"total_tenders"`
	ByStatus      map[string]int `json:"by_status"`
	RecentTenders int            `json:"recent_tenders"`
}

type RunResponse struct {
	ID                int64    `json:"id"`
	ScrapeDate        string   `json:"scrape_date"`
	Source            string   `json:"source"`
	CountryCode       string   `json:"country_code"`
	RecordsFetched    int      `json:"records_fetched"`
	RecordsInserted   int      `json:"records_inserted"`
	RecordsDuplicates int      `json:"records_duplicates"`
	RecordsErrors     int      `json:"records_errors"`
	Status            string   `json:"status"`
	ErrorMessage      *string  `json:"error_message"`
	Parameters        *string  `json:"parameters"`
	DurationSeconds   *float64 `json:"duration_seconds"`
}
