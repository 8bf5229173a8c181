package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"rentvision/models"
)

// PostgresStore persists cleaned rental records to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS rentals (
			id           SERIAL PRIMARY KEY,
			state        TEXT          NOT NULL,
			district     TEXT          NOT NULL,
			house_type   TEXT          NOT NULL,
			price        NUMERIC(10,2) NOT NULL,
			furnishing   TEXT          NOT NULL DEFAULT '',
			size_sqft    NUMERIC(10,2) NOT NULL DEFAULT 0,
			bedrooms     NUMERIC(4,1)  NOT NULL DEFAULT 0,
			bathrooms    NUMERIC(4,1)  NOT NULL DEFAULT 0,
			extract_date DATE,
			latitude     DOUBLE PRECISION,
			longitude    DOUBLE PRECISION
		);

		CREATE INDEX IF NOT EXISTS idx_rentals_area  ON rentals(state, district, house_type);
		CREATE INDEX IF NOT EXISTS idx_rentals_price ON rentals(price);
	`)
	return err
}

// Clear deletes all existing records from the table.
func (ps *PostgresStore) Clear() error {
	_, err := ps.db.Exec("DELETE FROM rentals")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL cleaned records, clearing old data first.
func (ps *PostgresStore) Write(records []*models.RentalRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := ps.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := ps.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(batch []*models.RentalRecord) error {
	const cols = 11
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		var date sql.NullTime
		if r.HasDate {
			date = sql.NullTime{Time: r.ExtractDate, Valid: true}
		}
		var lat, lng sql.NullFloat64
		if r.HasCoords {
			lat = sql.NullFloat64{Float64: r.Latitude, Valid: true}
			lng = sql.NullFloat64{Float64: r.Longitude, Valid: true}
		}

		valueArgs = append(valueArgs,
			r.State, r.District, r.Type, r.Price, r.Furnishing,
			r.SizeSqft, r.Bedrooms, r.Bathrooms, date, lat, lng)
	}

	query := fmt.Sprintf(`
		INSERT INTO rentals (state, district, house_type, price, furnishing,
			size_sqft, bedrooms, bathrooms, extract_date, latitude, longitude)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.Exec(query, valueArgs...)
	return err
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// FetchAll retrieves all stored records — used to build the stats engine
// when the store, not the CSV, is the source of truth.
func (ps *PostgresStore) FetchAll() ([]*models.RentalRecord, error) {
	rows, err := ps.db.Query(`
		SELECT id, state, district, house_type, price, furnishing,
		       size_sqft, bedrooms, bathrooms, extract_date, latitude, longitude
		FROM rentals
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// scanRecords is shared with the SQLite store; both stores use the same
// column order.
func scanRecords(rows *sql.Rows) ([]*models.RentalRecord, error) {
	var records []*models.RentalRecord
	for rows.Next() {
		r := &models.RentalRecord{}
		var date sql.NullTime
		var lat, lng sql.NullFloat64
		if err := rows.Scan(
			&r.ID, &r.State, &r.District, &r.Type, &r.Price, &r.Furnishing,
			&r.SizeSqft, &r.Bedrooms, &r.Bathrooms, &date, &lat, &lng,
		); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		if date.Valid {
			r.ExtractDate = date.Time
			r.HasDate = true
		}
		if lat.Valid && lng.Valid {
			r.Latitude = lat.Float64
			r.Longitude = lng.Float64
			r.HasCoords = true
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
