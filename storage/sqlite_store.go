package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"rentvision/models"
)

// SQLiteStore persists cleaned rental records to a local SQLite file.
// It satisfies the same RecordStore interface as PostgresStore, for
// deployments without a database server.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	ss := &SQLiteStore{db: db}
	if err := ss.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return ss, nil
}

func (ss *SQLiteStore) migrate() error {
	_, err := ss.db.Exec(`
		CREATE TABLE IF NOT EXISTS rentals (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			state        TEXT NOT NULL,
			district     TEXT NOT NULL,
			house_type   TEXT NOT NULL,
			price        REAL NOT NULL,
			furnishing   TEXT NOT NULL DEFAULT '',
			size_sqft    REAL NOT NULL DEFAULT 0,
			bedrooms     REAL NOT NULL DEFAULT 0,
			bathrooms    REAL NOT NULL DEFAULT 0,
			extract_date TIMESTAMP,
			latitude     REAL,
			longitude    REAL
		);

		CREATE INDEX IF NOT EXISTS idx_rentals_area ON rentals(state, district, house_type);
	`)
	return err
}

// Write replaces the stored dataset with the given records inside a single
// transaction.
func (ss *SQLiteStore) Write(records []*models.RentalRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM rentals"); err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rentals (state, district, house_type, price, furnishing,
			size_sqft, bedrooms, bathrooms, extract_date, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var date sql.NullTime
		if r.HasDate {
			date = sql.NullTime{Time: r.ExtractDate, Valid: true}
		}
		var lat, lng sql.NullFloat64
		if r.HasCoords {
			lat = sql.NullFloat64{Float64: r.Latitude, Valid: true}
			lng = sql.NullFloat64{Float64: r.Longitude, Valid: true}
		}
		if _, err := stmt.Exec(
			r.State, r.District, r.Type, r.Price, r.Furnishing,
			r.SizeSqft, r.Bedrooms, r.Bathrooms, date, lat, lng,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: insert: %w", err)
		}
	}

	return tx.Commit()
}

// FetchAll retrieves all stored records.
func (ss *SQLiteStore) FetchAll() ([]*models.RentalRecord, error) {
	rows, err := ss.db.Query(`
		SELECT id, state, district, house_type, price, furnishing,
		       size_sqft, bedrooms, bathrooms, extract_date, latitude, longitude
		FROM rentals
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch all: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (ss *SQLiteStore) Close() error {
	return ss.db.Close()
}
