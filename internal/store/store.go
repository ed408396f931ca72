package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trackfx/trackfx/internal/analysis"
)

// Store caches analysis results in a SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	sum TEXT NOT NULL,
	config TEXT NOT NULL,
	result BLOB NOT NULL,
	created INTEGER NOT NULL,
	PRIMARY KEY (sum, config)
);
CREATE INDEX IF NOT EXISTS idx_created ON analyses(created);
`

// Open opens or creates the database at path. ":memory:" gives a private,
// temporary database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// A single connection keeps in-memory databases alive and shared.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %v", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the result stored for a chart checksum and settings key.
func (s *Store) Load(sum, key string) (*analysis.Result, bool, error) {
	var data []byte
	err := s.db.QueryRow("SELECT result FROM analyses WHERE sum = ? AND config = ?", sum, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query: %v", err)
	}
	var res analysis.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false, fmt.Errorf("could not decode cached result: %v", err)
	}
	return &res, true, nil
}

// Save stores res, replacing any earlier result for the same chart and settings.
func (s *Store) Save(sum, key string, res *analysis.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("could not encode result: %v", err)
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO analyses (sum, config, result, created)
		VALUES (?, ?, ?, ?)`,
		sum, key, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store: %v", err)
	}
	return nil
}

// Prune deletes results stored before t and returns how many there were.
func (s *Store) Prune(t time.Time) (int64, error) {
	r, err := s.db.Exec("DELETE FROM analyses WHERE created < ?", t.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune: %v", err)
	}
	return r.RowsAffected()
}
