package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS conversion_cache (
	entry_id      TEXT PRIMARY KEY,
	report_id     TEXT NOT NULL,
	function      TEXT NOT NULL,
	args          TEXT NOT NULL,
	converted     TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversion_key
	ON conversion_cache (report_id, function, args, created_at);

CREATE TABLE IF NOT EXISTS comparison_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	first_report  TEXT NOT NULL,
	second_report TEXT NOT NULL,
	conversion    TEXT NOT NULL,
	comparison    TEXT NOT NULL,
	similarity    REAL NOT NULL,
	equivalent    INTEGER NOT NULL,
	reason        TEXT,
	created_at    TEXT NOT NULL
);
`
// #endregion schema

// #region store-struct
// Store manages cached trace conversions in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region lookup
// Lookup returns the most recent cached payload for a conversion key.
// The second return value is false on a cache miss.
func (s *Store) Lookup(reportID, function, args string) ([]byte, bool, error) {
	var converted string
	err := s.db.QueryRow(
		`SELECT converted FROM conversion_cache
		 WHERE report_id = ? AND function = ? AND args = ?
		 ORDER BY rowid DESC LIMIT 1`,
		reportID, function, args,
	).Scan(&converted)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}
	return []byte(converted), true, nil
}
// #endregion lookup

// #region put
// Put stores a conversion payload under its cache key.
func (s *Store) Put(reportID, function, args string, converted []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO conversion_cache (entry_id, report_id, function, args, converted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), reportID, function, args, string(converted),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}
// #endregion put

// #region list
// List returns the most recent cache entries.
func (s *Store) List(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT entry_id, report_id, function, args, converted, created_at
		 FROM conversion_cache ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var converted string
		var createdStr string
		if err := rows.Scan(&e.EntryID, &e.ReportID, &e.Function, &e.Args, &converted, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Converted = []byte(converted)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion list

// #region get
// Get retrieves a single cache entry by id.
func (s *Store) Get(entryID string) (Entry, error) {
	var e Entry
	var converted string
	var createdStr string
	err := s.db.QueryRow(
		`SELECT entry_id, report_id, function, args, converted, created_at
		 FROM conversion_cache WHERE entry_id = ?`, entryID,
	).Scan(&e.EntryID, &e.ReportID, &e.Function, &e.Args, &converted, &createdStr)
	if err != nil {
		return Entry{}, fmt.Errorf("get entry %s: %w", entryID, err)
	}
	e.Converted = []byte(converted)
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return e, nil
}
// #endregion get
