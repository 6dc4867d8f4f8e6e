package ocds

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"tendly/internal/model"
)

type release struct {
	ID       string           `json:"id"`
	OCID     *string          `json:"ocid"`
	Tag      []string         `json:"tag"`
	Date     string           `json:"date"`
	Tender   *releaseTender   `json:"tender"`
	Buyer    *releaseBuyer    `json:"buyer"`
	Parties  []releaseParty   `json:"parties"`
	Planning *releasePlanning `json:"planning"`
}

type releaseTender struct {
	Title                   *string                `json:"title"`
	Description             *string                `json:"description"`
	Status                  *string                `json:"status"`
	MainProcurementCategory *string                `json:"mainProcurementCategory"`
	Value                   *releaseValue          `json:"value"`
	Classification          *releaseClassification `json:"classification"`
	LegalBasis              *releaseLegalBasis     `json:"legalBasis"`
	Lots                    []releaseLot           `json:"lots"`
	Documents               []releaseDocument      `json:"documents"`
}

type releaseValue struct {
	Amount   *float64 `json:"amount"`
	Currency *string  `json:"currency"`
}

type releaseClassification struct {
	ID          *string `json:"id"`
	Description *string `json:"description"`
}

type releaseLegalBasis struct {
	ID *string `json:"id"`
}

type releaseLot struct {
	ID             *string            `json:"id"`
	Description    *string            `json:"description"`
	Status         *string            `json:"status"`
	Value          *releaseValue      `json:"value"`
	HasRenewal     *bool              `json:"hasRenewal"`
	HasOptions     *bool              `json:"hasOptions"`
	ContractPeriod *contractPeriod    `json:"contractPeriod"`
	Renewal        *descriptionObject `json:"renewal"`
	Options        *descriptionObject `json:"options"`
}

type contractPeriod struct {
	DurationInDays *int `json:"durationInDays"`
}

type descriptionObject struct {
	Description *string `json:"description"`
}

type releaseBuyer struct {
	Name *string `json:"name"`
	ID   *string `json:"id"`
}

type releaseParty struct {
	Roles        []string      `json:"roles"`
	ContactPoint *contactPoint `json:"contactPoint"`
	Address      *partyAddress `json:"address"`
}

type contactPoint struct {
	Email *string `json:"email"`
}

type partyAddress struct {
	StreetAddress *string `json:"streetAddress"`
	Locality      *string `json:"locality"`
	PostalCode    *string `json:"postalCode"`
	CountryName   *string `json:"countryName"`
}

type releasePlanning struct {
	Documents []releaseDocument `json:"documents"`
}

type releaseDocument struct {
	ID            *string `json:"id"`
	DocumentType  *string `json:"documentType"`
	NoticeType    *string `json:"noticeType"`
	Description   *string `json:"description"`
	URL           *string `json:"url"`
	DatePublished *string `json:"datePublished"`
	Format        *string `json:"format"`
}

// ParseRelease maps one OCDS release onto the canonical tender. CountryCode
// is left empty; the runner stamps it with the configured jurisdiction.
func ParseRelease(raw json.RawMessage) (*model.Tender, error) {
	var rel release
	if err := json.Unmarshal(raw, &rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if rel.ID == "" {
		return nil, errors.New("release missing id")
	}

	t := &model.Tender{
		NoticeID: rel.ID,
		OCID:     rel.OCID,
	}

	if len(rel.Tag) > 0 {
		// A release may carry several lifecycle tags at once, e.g. both
		// "tender" and "award"; they are kept as one joined stage string.
		stage := strings.Join(rel.Tag, ",")
		t.Stage = &stage
	}
	t.PublicationDate = parseTime(rel.Date)

	if tender := rel.Tender; tender != nil {
		t.Title = tender.Title
		t.Description = tender.Description
		t.Status = tender.Status
		t.MainProcurementCategory = tender.MainProcurementCategory

		if v := tender.Value; v != nil {
			t.ValueAmount = v.Amount
			t.ValueCurrency = v.Currency
		}
		if c := tender.Classification; c != nil {
			t.ClassificationID = c.ID
			t.ClassificationDescription = c.Description
		}
		if lb := tender.LegalBasis; lb != nil {
			t.LegalBasis = lb.ID
		}

		for _, lot := range tender.Lots {
			t.Lots = append(t.Lots, parseLot(lot))
		}
	}

	if b := rel.Buyer; b != nil {
		t.BuyerName = b.Name
		t.BuyerID = b.ID
	}
	for _, party := range rel.Parties {
		if !slices.Contains(party.Roles, "buyer") {
			continue
		}
		if party.ContactPoint != nil {
			t.BuyerEmail = party.ContactPoint.Email
		}
		if party.Address != nil {
			if addr := joinAddress(party.Address); addr != "" {
				t.BuyerAddress = &addr
			}
		}
		break
	}

	// Planning-stage and tender-stage documents are concatenated as-is.
	// Documents appearing in both lists are intentionally kept twice; see
	// the design notes on cross-list dedup.
	if rel.Planning != nil {
		for _, doc := range rel.Planning.Documents {
			t.Documents = append(t.Documents, parseDocument(doc))
		}
	}
	if rel.Tender != nil {
		for _, doc := range rel.Tender.Documents {
			t.Documents = append(t.Documents, parseDocument(doc))
		}
	}

	return t, nil
}

func parseLot(lot releaseLot) model.Lot {
	l := model.Lot{
		LotID:       lot.ID,
		Description: lot.Description,
		Status:      lot.Status,
		HasRenewal:  lot.HasRenewal,
		HasOptions:  lot.HasOptions,
	}
	if v := lot.Value; v != nil {
		l.ValueAmount = v.Amount
		l.ValueCurrency = v.Currency
	}
	if cp := lot.ContractPeriod; cp != nil {
		l.DurationDays = cp.DurationInDays
	}
	// Descriptive text only accompanies an affirmative flag.
	if lot.HasRenewal != nil && *lot.HasRenewal && lot.Renewal != nil {
		l.RenewalDescription = lot.Renewal.Description
	}
	if lot.HasOptions != nil && *lot.HasOptions && lot.Options != nil {
		l.OptionsDescription = lot.Options.Description
	}
	return l
}

func parseDocument(doc releaseDocument) model.Document {
	d := model.Document{
		DocumentID:   doc.ID,
		DocumentType: doc.DocumentType,
		NoticeType:   doc.NoticeType,
		Description:  doc.Description,
		URL:          doc.URL,
		Format:       doc.Format,
	}
	if doc.DatePublished != nil {
		d.DatePublished = parseTime(*doc.DatePublished)
	}
	return d
}

func joinAddress(addr *partyAddress) string {
	var parts []string
	for _, p := range []*string{addr.StreetAddress, addr.Locality, addr.PostalCode, addr.CountryName} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}
