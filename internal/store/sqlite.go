package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS state (
	slice      TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLite persists snapshots in a single-file database, one row per slice.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the snapshot database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (p *SQLite) Load() (*Snapshot, error) {
	rows, err := p.db.Query(`SELECT slice, payload FROM state`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	var snap Snapshot
	found := false
	for rows.Next() {
		var slice, payload string
		if err := rows.Scan(&slice, &payload); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		switch slice {
		case "chat":
			if err := json.Unmarshal([]byte(payload), &snap.Chat); err != nil {
				return nil, fmt.Errorf("decode chat slice: %w", err)
			}
			found = true
		case "dashboard":
			if err := json.Unmarshal([]byte(payload), &snap.Dashboard); err != nil {
				return nil, fmt.Errorf("decode dashboard slice: %w", err)
			}
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &snap, nil
}

func (p *SQLite) Save(snap Snapshot) error {
	chat, err := json.Marshal(snap.Chat)
	if err != nil {
		return fmt.Errorf("encode chat slice: %w", err)
	}
	dashboard, err := json.Marshal(snap.Dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard slice: %w", err)
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot save: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
INSERT INTO state (slice, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(slice) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`
	if _, err := tx.Exec(upsert, "chat", string(chat)); err != nil {
		return fmt.Errorf("save chat slice: %w", err)
	}
	if _, err := tx.Exec(upsert, "dashboard", string(dashboard)); err != nil {
		return fmt.Errorf("save dashboard slice: %w", err)
	}
	return tx.Commit()
}

func (p *SQLite) Close() error { return p.db.Close() }
