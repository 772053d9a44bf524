package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Precios como TEXT (decimal exacto); timestamps como TEXT en tsLayout.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		department    TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL CHECK (role IN ('requester', 'approver', 'issuer')),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id                 TEXT PRIMARY KEY,
		number             TEXT NOT NULL UNIQUE,
		name               TEXT NOT NULL,
		model_number       TEXT NOT NULL DEFAULT '',
		serial_number      TEXT NOT NULL DEFAULT '',
		registered_on      TEXT NOT NULL,
		company_name       TEXT NOT NULL DEFAULT '',
		measurement        TEXT NOT NULL,
		quantity           INTEGER NOT NULL CHECK (quantity >= 1),
		unit_price         TEXT NOT NULL DEFAULT '0',
		total_price        TEXT NOT NULL DEFAULT '0',
		property_type      TEXT NOT NULL CHECK (property_type IN ('permanent', 'temporary', 'permanent-temporary')),
		available_quantity INTEGER NOT NULL CHECK (available_quantity >= 0 AND available_quantity <= quantity),
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS requests (
		id                   TEXT PRIMARY KEY,
		requester_id         TEXT NOT NULL,
		requester_name       TEXT NOT NULL,
		requester_department TEXT NOT NULL,
		property_id          TEXT NOT NULL,
		property_number      TEXT NOT NULL,
		property_name        TEXT NOT NULL,
		measurement          TEXT NOT NULL,
		requested_quantity   INTEGER NOT NULL CHECK (requested_quantity >= 1),
		status               TEXT NOT NULL CHECK (status IN ('pending', 'approved', 'adjusted', 'rejected', 'issued')),
		approved_quantity    INTEGER,
		reason               TEXT,
		approver_id          TEXT,
		issuer_id            TEXT,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL,
		issued_at            TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_status ON requests (status)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_requester ON requests (requester_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_property ON requests (property_id)`,
	`CREATE TABLE IF NOT EXISTS issuances (
		id                   TEXT PRIMARY KEY,
		request_id           TEXT NOT NULL,
		property_id          TEXT NOT NULL,
		requester_id         TEXT NOT NULL,
		requester_name       TEXT NOT NULL,
		requester_department TEXT NOT NULL,
		property_number      TEXT NOT NULL,
		property_name        TEXT NOT NULL,
		model_number         TEXT NOT NULL DEFAULT '',
		serial_number        TEXT NOT NULL DEFAULT '',
		measurement          TEXT NOT NULL,
		issued_quantity      INTEGER NOT NULL CHECK (issued_quantity >= 1),
		issuer_id            TEXT NOT NULL,
		issuer_name          TEXT NOT NULL,
		is_permanent         INTEGER NOT NULL,
		model22_number       TEXT NOT NULL DEFAULT '',
		issued_at            TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_issuances_request ON issuances (request_id)`,
	`CREATE INDEX IF NOT EXISTS idx_issuances_requester ON issuances (requester_id)`,
}

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}
