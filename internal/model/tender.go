package model

import "time"

const (
	StatusPlanned      = "planned"
	StatusActive       = "active"
	StatusComplete     = "complete"
	StatusCancelled    = "cancelled"
	StatusUnsuccessful = "unsuccessful"
)

// Tender is the canonical record every source normalizes into. Optional
// fields are pointers: nil means the source did not supply the field, which
// is distinct from an empty or zero value.
type Tender struct {
	ID                        int64
	NoticeID                  string
	CountryCode               string
	OCID                      *string
	Title                     *string
	Description               *string
	Status                    *string
	Stage                     *string
	PublicationDate           *time.Time
	ValueAmount               *float64
	ValueCurrency             *string
	BuyerName                 *string
	BuyerID                   *string
	BuyerEmail                *string
	BuyerAddress              *string
	ClassificationID          *string
	ClassificationDescription *string
	MainProcurementCategory   *string
	LegalBasis                *string
	TenderPeriodEnd           *time.Time
	CreatedAt                 time.Time
	Lots                      []Lot
	Documents                 []Document
}

// Lot is a sub-contract division owned by its tender.
type Lot struct {
	ID                 int64
	TenderID           int64
	LotID              *string
	Description        *string
	ValueAmount        *float64
	ValueCurrency      *string
	Status             *string
	DurationDays       *int
	HasRenewal         *bool
	RenewalDescription *string
	HasOptions         *bool
	OptionsDescription *string
}

// Document is an attached notice document owned by its tender.
type Document struct {
	ID            int64
	TenderID      int64
	DocumentID    *string
	DocumentType  *string
	NoticeType    *string
	Description   *string
	URL           *string
	DatePublished *time.Time
	Format        *string
}

type Statistics struct {
	TotalTenders  int
	ByStatus      map[string]int
	RecentTenders int
}
