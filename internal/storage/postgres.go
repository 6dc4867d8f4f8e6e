package storage

import (
	"database/sql"
	"fmt"

	"tendly/internal/model"
)

// PostgresStore keeps tender data in the tendly schema of a shared Postgres
// database. countryCode scopes every read; inserts carry the tender's own
// country code.
type PostgresStore struct {
	db          *sql.DB
	countryCode string
}

func NewPostgresStore(db *sql.DB, countryCode string) *PostgresStore {
	return &PostgresStore{db: db, countryCode: countryCode}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) InsertTender(t *model.Tender) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`
		INSERT INTO tendly.tenders (
			notice_id, country_code, ocid, title, description, status, stage,
			publication_date, value_amount, value_currency,
			buyer_name, buyer_id, buyer_email, buyer_address,
			classification_id, classification_description,
			main_procurement_category, legal_basis, tender_period_end
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (notice_id, country_code) DO NOTHING
		RETURNING id
	`, t.NoticeID, t.CountryCode, t.OCID, t.Title, t.Description, t.Status, t.Stage,
		t.PublicationDate, t.ValueAmount, t.ValueCurrency,
		t.BuyerName, t.BuyerID, t.BuyerEmail, t.BuyerAddress,
		t.ClassificationID, t.ClassificationDescription,
		t.MainProcurementCategory, t.LegalBasis, t.TenderPeriodEnd).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for i := range t.Lots {
		lot := &t.Lots[i]
		_, err = tx.Exec(`
			INSERT INTO tendly.lots (
				tender_id, lot_id, description, value_amount, value_currency,
				status, duration_days, has_renewal, renewal_description,
				has_options, options_description
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, id, lot.LotID, lot.Description, lot.ValueAmount, lot.ValueCurrency,
			lot.Status, lot.DurationDays, lot.HasRenewal, lot.RenewalDescription,
			lot.HasOptions, lot.OptionsDescription)
		if err != nil {
			return false, fmt.Errorf("insert lot: %w", err)
		}
	}

	for i := range t.Documents {
		doc := &t.Documents[i]
		_, err = tx.Exec(`
			INSERT INTO tendly.documents (
				tender_id, document_id, document_type, notice_type,
				description, url, date_published, format
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, id, doc.DocumentID, doc.DocumentType, doc.NoticeType,
			doc.Description, doc.URL, doc.DatePublished, doc.Format)
		if err != nil {
			return false, fmt.Errorf("insert document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	t.ID = id
	return true, nil
}

const pgTenderColumns = `
	id, notice_id, country_code, ocid, title, description, status, stage,
	publication_date, value_amount, value_currency,
	buyer_name, buyer_id, buyer_email, buyer_address,
	classification_id, classification_description,
	main_procurement_category, legal_basis, tender_period_end, created_at
`

func (s *PostgresStore) GetAllTenders(limit, offset int) ([]model.Tender, error) {
	query := `SELECT ` + pgTenderColumns + ` FROM tendly.tenders`
	args := []interface{}{}
	if s.countryCode != "" {
		query += ` WHERE country_code = $1`
		args = append(args, s.countryCode)
	}
	query += fmt.Sprintf(` ORDER BY publication_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTenders(rows)
}

func (s *PostgresStore) SearchTenders(f SearchFilter) ([]model.Tender, error) {
	query := `SELECT ` + pgTenderColumns + ` FROM tendly.tenders WHERE 1=1`
	args := []interface{}{}

	if s.countryCode != "" {
		args = append(args, s.countryCode)
		query += fmt.Sprintf(` AND country_code = $%d`, len(args))
	}
	if f.Keyword != "" {
		args = append(args, "%"+f.Keyword+"%")
		query += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}
	if f.Buyer != "" {
		args = append(args, "%"+f.Buyer+"%")
		query += fmt.Sprintf(` AND buyer_name ILIKE $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY publication_date DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTenders(rows)
}

func (s *PostgresStore) GetStatistics() (model.Statistics, error) {
	stats := model.Statistics{ByStatus: make(map[string]int)}
	scope := ``
	args := []interface{}{}
	if s.countryCode != "" {
		scope = ` WHERE country_code = $1`
		args = append(args, s.countryCode)
	}

	err := s.db.QueryRow(`SELECT COUNT(*) FROM tendly.tenders`+scope, args...).Scan(&stats.TotalTenders)
	if err != nil {
		return stats, err
	}

	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM tendly.tenders`+scope+` GROUP BY status`, args...)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var status sql.NullString
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, err
		}
		stats.ByStatus[status.String] = count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	recent := `SELECT COUNT(*) FROM tendly.tenders WHERE created_at >= now() - interval '7 days'`
	if s.countryCode != "" {
		recent += ` AND country_code = $1`
	}
	if err := s.db.QueryRow(recent, args...).Scan(&stats.RecentTenders); err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *PostgresStore) LogRun(run *model.ScrapingRun) error {
	return s.db.QueryRow(`
		INSERT INTO tendly.scraping_log (
			source, country_code, records_fetched, records_inserted,
			records_duplicates, records_errors, status, error_message,
			parameters, duration_seconds
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, scrape_date
	`, run.Source, run.CountryCode, run.RecordsFetched, run.RecordsInserted,
		run.RecordsDuplicates, run.RecordsErrors, run.Status, run.ErrorMessage,
		run.Parameters, run.DurationSeconds).Scan(&run.ID, &run.ScrapeDate)
}

func (s *PostgresStore) GetRuns(limit int) ([]model.ScrapingRun, error) {
	query := `
		SELECT id, scrape_date, source, country_code, records_fetched,
			records_inserted, records_duplicates, records_errors,
			status, error_message, parameters, duration_seconds
		FROM tendly.scraping_log`
	args := []interface{}{}
	if s.countryCode != "" {
		query += ` WHERE country_code = $1`
		args = append(args, s.countryCode)
	}
	query += fmt.Sprintf(` ORDER BY scrape_date DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRuns(rows)
}

func scanTenders(rows *sql.Rows) ([]model.Tender, error) {
	var tenders []model.Tender
	for rows.Next() {
		var t model.Tender
		err := rows.Scan(
			&t.ID, &t.NoticeID, &t.CountryCode, &t.OCID, &t.Title, &t.Description,
			&t.Status, &t.Stage, &t.PublicationDate, &t.ValueAmount, &t.ValueCurrency,
			&t.BuyerName, &t.BuyerID, &t.BuyerEmail, &t.BuyerAddress,
			&t.ClassificationID, &t.ClassificationDescription,
			&t.MainProcurementCategory, &t.LegalBasis, &t.TenderPeriodEnd, &t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tenders, nil
}

func scanRuns(rows *sql.Rows) ([]model.ScrapingRun, error) {
	var runs []model.ScrapingRun
	for rows.Next() {
		var r model.ScrapingRun
		err := rows.Scan(
			&r.ID, &r.ScrapeDate, &r.Source, &r.CountryCode, &r.RecordsFetched,
			&r.RecordsInserted, &r.RecordsDuplicates, &r.RecordsErrors,
			&r.Status, &r.ErrorMessage, &r.Parameters, &r.DurationSeconds,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
