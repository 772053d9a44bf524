package sqlite

import (
	"testing"

	"github.com/jmoiron/sqlx"
)

// NewTestDB crea una base SQLite en memoria con el esquema aplicado.
func NewTestDB(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("abrir base de test: %v", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		t.Fatalf("esquema de test: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
