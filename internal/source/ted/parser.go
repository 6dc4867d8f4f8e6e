package ted

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tendly/internal/model"
)

type notice struct {
	ND Field `json:"ND"` // notice document id
	PD Field `json:"PD"` // publication date
	DD Field `json:"DD"` // dispatch date
	TI Field `json:"TI"` // title, often multilingual
	CY Field `json:"CY"` // country
	TD Field `json:"TD"` // document type
	NC Field `json:"NC"` // nature of contract
	DT Field `json:"DT"` // deadline

	TotalValue     json.RawMessage `json:"total-value"`
	ResultValue    json.RawMessage `json:"result-value-cur-lot"`
	FrameworkValue json.RawMessage `json:"framework-value-notice"`
	EstimatedValue json.RawMessage `json:"BT-27-Lot"`
}

// TED document type codes observed on the notice search API.
var statusByDocType = map[string]string{
	"1": model.StatusPlanned,  // prior information notice
	"2": model.StatusActive,   // contract notice
	"3": model.StatusActive,   // contract award notice
	"4": model.StatusComplete, // periodic indicative notice
	"5": model.StatusActive,   // qualification system
	"6": model.StatusComplete, // contract award
	"7": model.StatusActive,   // corrigendum
	"8": model.StatusActive,   // voluntary ex ante transparency notice
	"9": model.StatusActive,   // concession notice
}

var categoryByNature = map[string]string{
	"1": "works",
	"2": "supplies",
	"3": "services",
	"4": "services", // services category A
	"5": "services", // services category B
	"6": "works",    // works concession
	"7": "services", // services concession
	"8": "supplies", // mixed
}

// ParseNotice maps one TED notice onto the canonical tender. TED exposes no
// separate buyer entity, so the buyer is synthesized from the country code,
// and the description duplicates the title.
func ParseNotice(raw json.RawMessage) (*model.Tender, error) {
	var n notice
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("decode notice: %w", err)
	}

	noticeID := n.ND.First()
	if noticeID == "" {
		return nil, errors.New("notice missing ND")
	}

	t := &model.Tender{NoticeID: noticeID}

	if pd := n.PD.First(); pd != "" {
		t.OCID = &pd
	}
	t.PublicationDate = parseDate(n.DD.First())

	if title := n.TI.Text(); title != "" {
		t.Title = &title
		description := title
		t.Description = &description
	}

	country := n.CY.First()
	buyerName := fmt.Sprintf("%s Contracting Authority", country)
	t.BuyerName = &buyerName
	t.BuyerID = &country

	status := mapStatus(n.TD.First())
	t.Status = &status

	nature := n.NC.First()
	if nature != "" {
		t.Stage = &nature
	}
	category := mapCategory(nature)
	t.MainProcurementCategory = &category

	// Candidate value fields in fixed priority order; the first one that
	// yields a parseable amount wins.
	for _, raw := range []json.RawMessage{n.TotalValue, n.ResultValue, n.FrameworkValue, n.EstimatedValue} {
		if len(raw) == 0 {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		amount := extractAmount(v)
		if amount == nil {
			continue
		}
		t.ValueAmount = amount
		currency := "EUR"
		if c := extractCurrency(v); c != nil {
			currency = *c
		}
		t.ValueCurrency = &currency
		break
	}

	t.TenderPeriodEnd = parseDate(n.DT.First())

	return t, nil
}

func mapStatus(docType string) string {
	if status, ok := statusByDocType[docType]; ok {
		return status
	}
	return model.StatusActive
}

func mapCategory(nature string) string {
	if category, ok := categoryByNature[nature]; ok {
		return category
	}
	return "services"
}

// parseDate accepts the compact 8-digit YYYYMMDD form or an ISO-8601
// string. Anything else resolves to nil rather than an error.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if len(s) == 8 && allDigits(s) {
		if ts, err := time.Parse("20060102", s); err == nil {
			return &ts
		}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
