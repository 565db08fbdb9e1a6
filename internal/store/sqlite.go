package store

import (
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// SlotName is the key the history is stored under.
const SlotName = "weather-history"

// SQLiteSlot keeps named slot values in a key/value table.
type SQLiteSlot struct {
	db   *sql.DB
	name string
}

// NewSQLiteSlot opens (or creates) the database at path and applies the schema.
func NewSQLiteSlot(path, name string) (*SQLiteSlot, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	schema := `CREATE TABLE IF NOT EXISTS slots (
        name TEXT PRIMARY KEY,
        value BLOB NOT NULL,
        updated_at TEXT NOT NULL
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	if name == "" {
		name = SlotName
	}
	return &SQLiteSlot{db: db, name: name}, nil
}

func (s *SQLiteSlot) Read() ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, s.name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLiteSlot) Write(data []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO slots(name, value, updated_at) VALUES(?,?,?)`,
		s.name, data, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteSlot) Erase() error {
	_, err := s.db.Exec(`DELETE FROM slots WHERE name = ?`, s.name)
	return err
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
