package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"dpwhparse/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS contracts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rowNumber TEXT,
  contractId TEXT,
  description TEXT,
  contractorName1 TEXT, contractorId1 TEXT,
  contractorName2 TEXT, contractorId2 TEXT,
  contractorName3 TEXT, contractorId3 TEXT,
  contractorName4 TEXT, contractorId4 TEXT,
  region TEXT,
  implementingOffice TEXT,
  sourceOfFunds TEXT,
  costPhp REAL,
  effectivityDate TEXT,
  expiryDate TEXT,
  status TEXT,
  accomplishmentPct REAL,
  year INTEGER NOT NULL,
  sourceOffice TEXT NOT NULL,
  fileSource TEXT NOT NULL,
  criticalErrors TEXT,
  errors TEXT,
  warnings TEXT,
  infoNotes TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_contracts_year ON contracts(year);
CREATE INDEX IF NOT EXISTS idx_contracts_sourceOffice ON contracts(sourceOffice);
CREATE INDEX IF NOT EXISTS idx_contracts_contractId ON contracts(contractId);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  yearFilter INTEGER,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ClearYear removes previously stored contracts so a re-parse of the
// same year replaces rather than duplicates. Year 0 clears everything.
func (d *DB) ClearYear(year int) error {
	if year == 0 {
		_, err := d.conn.Exec(`DELETE FROM contracts`)
		return err
	}
	_, err := d.conn.Exec(`DELETE FROM contracts WHERE year = ?`, year)
	return err
}

func (d *DB) InsertContracts(records []internal.ContractRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO contracts (
  rowNumber, contractId, description,
  contractorName1, contractorId1,
  contractorName2, contractorId2,
  contractorName3, contractorId3,
  contractorName4, contractorId4,
  region, implementingOffice, sourceOfFunds,
  costPhp, effectivityDate, expiryDate,
  status, accomplishmentPct,
  year, sourceOffice, fileSource,
  criticalErrors, errors, warnings, infoNotes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			r.RowNumber, r.ContractID, r.Description,
			r.ContractorName1, r.ContractorID1,
			r.ContractorName2, r.ContractorID2,
			r.ContractorName3, r.ContractorID3,
			r.ContractorName4, r.ContractorID4,
			r.Region, r.ImplementingOffice, r.SourceOfFunds,
			r.CostPHP, r.EffectivityDate, r.ExpiryDate,
			r.Status, r.AccomplishmentPct,
			r.Year, r.SourceOffice, r.FileSource,
			r.CriticalErrors, r.Errors, r.Warnings, r.InfoNotes,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const contractColumns = `
  rowNumber, contractId, description,
  contractorName1, contractorId1,
  contractorName2, contractorId2,
  contractorName3, contractorId3,
  contractorName4, contractorId4,
  region, implementingOffice, sourceOfFunds,
  costPhp, effectivityDate, expiryDate,
  status, accomplishmentPct,
  year, sourceOffice, fileSource,
  criticalErrors, errors, warnings, infoNotes`

// ListContracts returns stored contracts ordered by (year, office, id).
// Year 0 lists every year.
func (d *DB) ListContracts(year int) ([]internal.ContractRecord, error) {
	query := `SELECT` + contractColumns + `
FROM contracts`
	args := []any{}
	if year != 0 {
		query += ` WHERE year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY year, sourceOffice, id`

	return d.queryContracts(query, args...)
}

// ListContractsWithWarnings returns stored contracts whose warnings
// column is non-empty.
func (d *DB) ListContractsWithWarnings(year int) ([]internal.ContractRecord, error) {
	query := `SELECT` + contractColumns + `
FROM contracts
WHERE warnings IS NOT NULL AND TRIM(warnings) != ''`
	args := []any{}
	if year != 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY year, sourceOffice, id`

	return d.queryContracts(query, args...)
}

func (d *DB) queryContracts(query string, args ...any) ([]internal.ContractRecord, error) {
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ContractRecord
	for rows.Next() {
		var r internal.ContractRecord
		if err := rows.Scan(
			&r.RowNumber, &r.ContractID, &r.Description,
			&r.ContractorName1, &r.ContractorID1,
			&r.ContractorName2, &r.ContractorID2,
			&r.ContractorName3, &r.ContractorID3,
			&r.ContractorName4, &r.ContractorID4,
			&r.Region, &r.ImplementingOffice, &r.SourceOfFunds,
			&r.CostPHP, &r.EffectivityDate, &r.ExpiryDate,
			&r.Status, &r.AccomplishmentPct,
			&r.Year, &r.SourceOffice, &r.FileSource,
			&r.CriticalErrors, &r.Errors, &r.Warnings, &r.InfoNotes,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, yearFilter int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, err := json.Marshal(timings)
	if err != nil {
		return fmt.Errorf("marshal timings: %w", err)
	}
	countsJSON, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("marshal counts: %w", err)
	}

	_, err = d.conn.Exec(`
INSERT INTO runs (traceId, yearFilter, countsJson, timingsJson) VALUES (?, ?, ?, ?)
`, traceID, yearFilter, string(countsJSON), string(timingsJSON))
	return err
}
