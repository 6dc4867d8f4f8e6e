package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	"tendly/internal/model"
)

//go:embed schema.sql
var sqliteSchema string

// SQLiteStore is the embedded backend. It implements the same contract as
// PostgresStore over a single database file, so it needs no server or
// migration step; the schema is applied when the store is opened.
type SQLiteStore struct {
	db          *sql.DB
	countryCode string
}

func NewSQLiteStore(db *sql.DB, countryCode string) (*SQLiteStore, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db, countryCode: countryCode}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertTender(t *model.Tender) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`
		INSERT INTO tenders (
			notice_id, country_code, ocid, title, description, status, stage,
			publication_date, value_amount, value_currency,
			buyer_name, buyer_id, buyer_email, buyer_address,
			classification_id, classification_description,
			main_procurement_category, legal_basis, tender_period_end
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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
			INSERT INTO lots (
				tender_id, lot_id, description, value_amount, value_currency,
				status, duration_days, has_renewal, renewal_description,
				has_options, options_description
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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
			INSERT INTO documents (
				tender_id, document_id, document_type, notice_type,
				description, url, date_published, format
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
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

const sqliteTenderColumns = `
	id, notice_id, country_code, ocid, title, description, status, stage,
	publication_date, value_amount, value_currency,
	buyer_name, buyer_id, buyer_email, buyer_address,
	classification_id, classification_description,
	main_procurement_category, legal_basis, tender_period_end, created_at
`

func (s *SQLiteStore) GetAllTenders(limit, offset int) ([]model.Tender, error) {
	query := `SELECT ` + sqliteTenderColumns + ` FROM tenders`
	args := []interface{}{}
	if s.countryCode != "" {
		query += ` WHERE country_code = ?`
		args = append(args, s.countryCode)
	}
	query += ` ORDER BY publication_date DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTenders(rows)
}

func (s *SQLiteStore) SearchTenders(f SearchFilter) ([]model.Tender, error) {
	query := `SELECT ` + sqliteTenderColumns + ` FROM tenders WHERE 1=1`
	args := []interface{}{}

	if s.countryCode != "" {
		query += ` AND country_code = ?`
		args = append(args, s.countryCode)
	}
	if f.Keyword != "" {
		query += ` AND (LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))`
		kw := "%" + f.Keyword + "%"
		args = append(args, kw, kw)
	}
	if f.Buyer != "" {
		query += ` AND LOWER(buyer_name) LIKE LOWER(?)`
		args = append(args, "%"+f.Buyer+"%")
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	query += ` ORDER BY publication_date DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTenders(rows)
}

func (s *SQLiteStore) GetStatistics() (model.Statistics, error) {
	stats := model.Statistics{ByStatus: make(map[string]int)}
	scope := ``
	args := []interface{}{}
	if s.countryCode != "" {
		scope = ` WHERE country_code = ?`
		args = append(args, s.countryCode)
	}

	err := s.db.QueryRow(`SELECT COUNT(*) FROM tenders`+scope, args...).Scan(&stats.TotalTenders)
	if err != nil {
		return stats, err
	}

	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM tenders`+scope+` GROUP BY status`, args...)
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

	recent := `SELECT COUNT(*) FROM tenders WHERE created_at >= datetime('now', '-7 days')`
	if s.countryCode != "" {
		recent += ` AND country_code = ?`
	}
	if err := s.db.QueryRow(recent, args...).Scan(&stats.RecentTenders); err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *SQLiteStore) LogRun(run *model.ScrapingRun) error {
	res, err := s.db.Exec(`
		INSERT INTO scraping_log (
			source, country_code, records_fetched, records_inserted,
			records_duplicates, records_errors, status, error_message,
			parameters, duration_seconds
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Source, run.CountryCode, run.RecordsFetched, run.RecordsInserted,
		run.RecordsDuplicates, run.RecordsErrors, run.Status, run.ErrorMessage,
		run.Parameters, run.DurationSeconds)
	if err != nil {
		return err
	}
	run.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) GetRuns(limit int) ([]model.ScrapingRun, error) {
	query := `
		SELECT id, scrape_date, source, country_code, records_fetched,
			records_inserted, records_duplicates, records_errors,
			status, error_message, parameters, duration_seconds
		FROM scraping_log`
	args := []interface{}{}
	if s.countryCode != "" {
		query += ` WHERE country_code = ?`
		args = append(args, s.countryCode)
	}
	query += ` ORDER BY scrape_date DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRuns(rows)
}
