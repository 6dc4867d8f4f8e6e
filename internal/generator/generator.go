package generator

import (
	"fmt"
	"time"

	"tendly/internal/model"

	"github.com/brianvoe/gofakeit/v7"
)

var statuses = []string{
	model.StatusPlanned, model.StatusActive, model.StatusComplete,
	model.StatusCancelled, model.StatusUnsuccessful,
}

var stages = []string{"planning", "tender", "award"}

var categories = []string{"goods", "services", "works"}

type cpvCode struct {
	id          string
	description string
}

var cpvCodes = []cpvCode{
	{"09000000", "Petroleum products, fuel, electricity and other sources of energy"},
	{"15000000", "Food, beverages, tobacco and related products"},
	{"30000000", "Office and computing machinery, equipment and supplies"},
	{"33000000", "Medical equipments, pharmaceuticals and personal care products"},
	{"34000000", "Transport equipment and auxiliary products to transportation"},
	{"35000000", "Security, fire-fighting, police and defence equipment"},
	{"39000000", "Furniture, furnishings, domestic appliances and cleaning products"},
	{"44000000", "Construction structures and materials"},
	{"45000000", "Construction work"},
	{"48000000", "Software package and information systems"},
	{"50000000", "Repair and maintenance services"},
	{"60000000", "Transport services"},
	{"64000000", "Postal and telecommunications services"},
	{"66000000", "Financial and insurance services"},
	{"71000000", "Architectural, construction, engineering services"},
	{"72000000", "IT services: consulting, software development"},
	{"73000000", "Research and development services"},
	{"79000000", "Business services: law, marketing, consulting"},
	{"80000000", "Education and training services"},
	{"85000000", "Health and social work services"},
	{"90000000", "Sewage, refuse, cleaning and environmental services"},
}

var ukAuthorities = []string{
	"Department for Education",
	"Ministry of Defence",
	"Home Office",
	"Department of Health and Social Care",
	"HM Treasury",
	"Cabinet Office",
	"Department for Transport",
	"NHS England",
	"Greater London Authority",
	"Manchester City Council",
	"Birmingham City Council",
	"Leeds City Council",
	"Liverpool City Council",
	"Bristol City Council",
	"Newcastle City Council",
	"Sheffield City Council",
	"Police Service of Scotland",
	"Welsh Government",
	"Scottish Government",
	"Northern Ireland Executive",
}

var legalBases = []string{"32014L0024", "32014L0025", "2023/54"}

var documentTypes = []string{
	"tenderNotice", "awardNotice", "contractNotice",
	"technicalSpecifications", "evaluationCriteria",
	"contractDraft", "clarifications",
}

var documentFormats = []string{"application/pdf", "text/html", "application/msword"}

var titleProducts = []string{
	"IT Equipment", "Medical Supplies", "Office Furniture",
	"Vehicles", "Catering Equipment", "Security Systems",
	"Software Licenses", "Laboratory Equipment", "Cleaning Products",
}

var titleServices = []string{
	"IT Support", "Facilities Management", "Consultancy",
	"Training", "Legal", "HR", "Marketing", "Security",
	"Waste Management", "Catering", "Transport",
}

var titleProjects = []string{
	"New Office Building", "School Extension", "Hospital Wing",
	"Road Infrastructure", "Community Centre", "Sports Facility",
}

// Generator produces synthetic UK tenders for demos and local testing.
// The same seed always produces the same sequence of records.
type Generator struct {
	faker *gofakeit.Faker
}

func New(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

func (g *Generator) Name() string {
	return "generator"
}

// FetchTenders satisfies the ingest source contract so seeded data flows
// through the same insert and run-logging path as live data.
func (g *Generator) FetchTenders(total int) ([]model.Tender, int, error) {
	tenders := make([]model.Tender, 0, total)
	for i := 0; i < total; i++ {
		tenders = append(tenders, g.Tender(i+1))
	}
	return tenders, 0, nil
}

// Tender builds a single synthetic record. The notice number keeps IDs
// unique within one generated batch.
func (g *Generator) Tender(noticeNumber int) model.Tender {
	year := g.faker.Number(2023, 2025)
	noticeID := fmt.Sprintf("%06d-%d", noticeNumber, year)
	ocid := fmt.Sprintf("ocds-h6vhtk-%06x", g.faker.Number(0, 0xFFFFFF))

	pubDate := time.Now().AddDate(0, 0, -g.faker.Number(0, 365))

	cpv := cpvCodes[g.faker.Number(0, len(cpvCodes)-1)]
	buyerName := ukAuthorities[g.faker.Number(0, len(ukAuthorities)-1)]
	buyerID := fmt.Sprintf("GB-GOV-%d", g.faker.Number(1000, 9999))
	buyerEmail := g.faker.Email()
	buyerAddress := g.ukAddress()

	title := g.title()
	description := g.faker.Paragraph(1, 3, 12, " ")
	status := statuses[g.faker.Number(0, len(statuses)-1)]
	stage := stages[g.faker.Number(0, len(stages)-1)]
	category := categories[g.faker.Number(0, len(categories)-1)]
	legalBasis := legalBases[g.faker.Number(0, len(legalBases)-1)]

	amount := roundMoney(g.faker.Float64Range(10000, 10000000))
	currency := "GBP"

	t := model.Tender{
		NoticeID:                  noticeID,
		OCID:                      &ocid,
		Title:                     &title,
		Description:               &description,
		Status:                    &status,
		Stage:                     &stage,
		PublicationDate:           &pubDate,
		ValueAmount:               &amount,
		ValueCurrency:             &currency,
		BuyerName:                 &buyerName,
		BuyerID:                   &buyerID,
		BuyerEmail:                &buyerEmail,
		BuyerAddress:              &buyerAddress,
		ClassificationID:          &cpv.id,
		ClassificationDescription: &cpv.description,
		MainProcurementCategory:   &category,
		LegalBasis:                &legalBasis,
	}

	if g.faker.Float64Range(0, 1) < 0.3 {
		t.Lots = g.lots()
	}
	if g.faker.Float64Range(0, 1) < 0.5 {
		t.Documents = g.documents()
	}

	return t
}

func (g *Generator) title() string {
	templates := []string{
		"Supply and Delivery of %s",
		"Provision of %s Services",
		"%s Framework Agreement",
		"Construction of %s",
		"Maintenance and Support for %s",
		"%s Consultancy Services",
		"Installation of %s",
		"Design and Build of %s",
		"Managed %s Service",
		"Procurement of %s",
	}
	// Template index decides which noun pool fits the phrasing.
	i := g.faker.Number(0, len(templates)-1)
	var noun string
	switch i {
	case 0, 4, 6, 9:
		noun = titleProducts[g.faker.Number(0, len(titleProducts)-1)]
	case 3, 7:
		noun = titleProjects[g.faker.Number(0, len(titleProjects)-1)]
	default:
		noun = titleServices[g.faker.Number(0, len(titleServices)-1)]
	}
	return fmt.Sprintf(templates[i], noun)
}

func (g *Generator) ukAddress() string {
	return fmt.Sprintf("%s, %s, %s, United Kingdom",
		g.faker.Street(), g.faker.City(), g.faker.Zip())
}

func (g *Generator) lots() []model.Lot {
	n := g.faker.Number(1, 3)
	lots := make([]model.Lot, 0, n)
	for i := 0; i < n; i++ {
		lotID := fmt.Sprintf("%d", i+1)
		description := g.faker.Paragraph(1, 2, 10, " ")
		amount := roundMoney(g.faker.Float64Range(5000, 1000000))
		currency := "GBP"
		status := statuses[g.faker.Number(0, len(statuses)-1)]
		duration := g.faker.Number(30, 1095)
		hasRenewal := g.faker.Bool()
		hasOptions := g.faker.Bool()

		lot := model.Lot{
			LotID:         &lotID,
			Description:   &description,
			ValueAmount:   &amount,
			ValueCurrency: &currency,
			Status:        &status,
			DurationDays:  &duration,
			HasRenewal:    &hasRenewal,
			HasOptions:    &hasOptions,
		}
		if hasRenewal {
			renewal := "Option to extend for additional period"
			lot.RenewalDescription = &renewal
		}
		if hasOptions {
			options := "Additional services may be requested"
			lot.OptionsDescription = &options
		}
		lots = append(lots, lot)
	}
	return lots
}

func (g *Generator) documents() []model.Document {
	n := g.faker.Number(1, 3)
	docs := make([]model.Document, 0, n)
	for i := 0; i < n; i++ {
		docID := fmt.Sprintf("doc-%d", i+1)
		docType := documentTypes[g.faker.Number(0, len(documentTypes)-1)]
		description := g.faker.Sentence(8)
		url := g.faker.URL()
		published := time.Now().AddDate(0, 0, -g.faker.Number(0, 30))
		format := documentFormats[g.faker.Number(0, len(documentFormats)-1)]

		docs = append(docs, model.Document{
			DocumentID:    &docID,
			DocumentType:  &docType,
			Description:   &description,
			URL:           &url,
			DatePublished: &published,
			Format:        &format,
		})
	}
	return docs
}

func roundMoney(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
