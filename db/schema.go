// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database of the given type and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch strings.ToLower(dbType) {
	case TypeSQLite, "":
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single sqlite connection serializes writers and keeps :memory: databases shared
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// The schema sticks to types and syntax shared by sqlite and postgres.
const schema = `
-- Accounts and balances
CREATE TABLE IF NOT EXISTS account (
    address TEXT PRIMARY KEY,
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    ip_hash TEXT,
    created_at TIMESTAMP NOT NULL,
    last_seen_at TIMESTAMP NOT NULL
);

-- Balance journal
CREATE TABLE IF NOT EXISTS ledger_entry (
    id TEXT PRIMARY KEY,
    account TEXT NOT NULL,
    entry_type TEXT NOT NULL CHECK (entry_type IN ('credit', 'debit')),
    amount BIGINT NOT NULL CHECK (amount > 0),
    reason TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_entry_account ON ledger_entry(account);

-- Emitted events
CREATE TABLE IF NOT EXISTS event_log (
    id TEXT PRIMARY KEY,
    round_number BIGINT NOT NULL,
    kind TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_log_round ON event_log(round_number);
CREATE INDEX IF NOT EXISTS idx_event_log_kind ON event_log(kind);

-- Settlement archive
CREATE TABLE IF NOT EXISTS round_result (
    id TEXT PRIMARY KEY,
    round_number BIGINT NOT NULL UNIQUE,
    outcome TEXT NOT NULL CHECK (outcome IN ('win', 'draw', 'void')),
    winner_project_id BIGINT,
    payload TEXT NOT NULL,
    settled_at TIMESTAMP NOT NULL
);
`
