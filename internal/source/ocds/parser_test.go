package ocds

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestParseRelease_FullRelease(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "001-2024",
		"ocid": "ocds-h6vhtk-04a913",
		"tag": ["tender"],
		"date": "2024-01-15T09:30:00Z",
		"tender": {
			"title": "Supply of IT Equipment",
			"description": "Laptops and peripherals for schools",
			"status": "active",
			"mainProcurementCategory": "goods",
			"value": {"amount": 50000, "currency": "GBP"},
			"classification": {"id": "30000000", "description": "Office and computing machinery"},
			"legalBasis": {"id": "32014L0024"}
		},
		"buyer": {"name": "Department for Education", "id": "GB-GOV-1234"},
		"parties": [
			{"roles": ["supplier"], "contactPoint": {"email": "supplier@example.com"}},
			{
				"roles": ["buyer"],
				"contactPoint": {"email": "procurement@education.gov.uk"},
				"address": {
					"streetAddress": "20 Great Smith St",
					"locality": "London",
					"postalCode": "SW1P 3BT",
					"countryName": "United Kingdom"
				}
			}
		]
	}`)

	tender, err := ParseRelease(raw)
	assert.Equal(t, nil, err)

	assert.Equal(t, "001-2024", tender.NoticeID)
	assert.Equal(t, "ocds-h6vhtk-04a913", *tender.OCID)
	assert.Equal(t, "tender", *tender.Stage)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), *tender.PublicationDate)
	assert.Equal(t, "Supply of IT Equipment", *tender.Title)
	assert.Equal(t, "active", *tender.Status)
	assert.Equal(t, "goods", *tender.MainProcurementCategory)
	assert.Equal(t, 50000.0, *tender.ValueAmount)
	assert.Equal(t, "GBP", *tender.ValueCurrency)
	assert.Equal(t, "30000000", *tender.ClassificationID)
	assert.Equal(t, "32014L0024", *tender.LegalBasis)
	assert.Equal(t, "Department for Education", *tender.BuyerName)
	assert.Equal(t, "GB-GOV-1234", *tender.BuyerID)
	assert.Equal(t, "procurement@education.gov.uk", *tender.BuyerEmail)
	assert.Equal(t, "20 Great Smith St, London, SW1P 3BT, United Kingdom", *tender.BuyerAddress)
}

func TestParseRelease_MultipleTagsJoined(t *testing.T) {
	raw := json.RawMessage(`{"id": "002-2024", "tag": ["tender", "award"]}`)

	tender, err := ParseRelease(raw)
	assert.Equal(t, nil, err)
	assert.Equal(t, "tender,award", *tender.Stage)
}

func TestParseRelease_LotFlagGating(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "003-2024",
		"tender": {
			"lots": [
				{
					"id": "1",
					"hasRenewal": true,
					"renewal": {"description": "Extendable by 12 months"},
					"hasOptions": false,
					"options": {"description": "should be dropped"},
					"contractPeriod": {"durationInDays": 365},
					"value": {"amount": 12000, "currency": "GBP"}
				}
			]
		}
	}`)

	tender, err := ParseRelease(raw)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(tender.Lots))

	lot := tender.Lots[0]
	assert.Equal(t, "1", *lot.LotID)
	assert.Equal(t, true, *lot.HasRenewal)
	assert.Equal(t, "Extendable by 12 months", *lot.RenewalDescription)
	assert.Equal(t, false, *lot.HasOptions)
	assert.Equal(t, (*string)(nil), lot.OptionsDescription)
	assert.Equal(t, 365, *lot.DurationDays)
	assert.Equal(t, 12000.0, *lot.ValueAmount)
}

func TestParseRelease_DocumentsConcatenated(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "004-2024",
		"planning": {
			"documents": [
				{"id": "doc-1", "documentType": "plannedProcurementNotice", "url": "https://example.com/doc-1"}
			]
		},
		"tender": {
			"documents": [
				{"id": "doc-1", "documentType": "tenderNotice", "url": "https://example.com/doc-1"},
				{"id": "doc-2", "documentType": "biddingDocuments", "datePublished": "2024-01-10T00:00:00Z"}
			]
		}
	}`)

	tender, err := ParseRelease(raw)
	assert.Equal(t, nil, err)

	// Planning documents come first, and the shared doc-1 appears twice.
	assert.Equal(t, 3, len(tender.Documents))
	assert.Equal(t, "plannedProcurementNotice", *tender.Documents[0].DocumentType)
	assert.Equal(t, "tenderNotice", *tender.Documents[1].DocumentType)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), *tender.Documents[2].DatePublished)
}

func TestParseRelease_MissingID(t *testing.T) {
	raw := json.RawMessage(`{"tender": {"title": "No id"}}`)

	_, err := ParseRelease(raw)
	assert.NotEqual(t, nil, err)
}

func TestParseRelease_MinimalRelease(t *testing.T) {
	raw := json.RawMessage(`{"id": "005-2024"}`)

	tender, err := ParseRelease(raw)
	assert.Equal(t, nil, err)
	assert.Equal(t, "005-2024", tender.NoticeID)
	assert.Equal(t, (*string)(nil), tender.Title)
	assert.Equal(t, (*string)(nil), tender.Stage)
	assert.Equal(t, (*time.Time)(nil), tender.PublicationDate)
}
