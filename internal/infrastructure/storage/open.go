// Package storage elige el adaptador de persistencia según DB_DRIVER.
package storage

import (
	"context"

	"github.com/jhoicas/Propiedades-api/internal/application/lifecycle"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
	"github.com/jhoicas/Propiedades-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Propiedades-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Propiedades-api/pkg/config"
)

// Store agrupa los repositorios del driver elegido. Close libera la conexión.
type Store struct {
	Tx         lifecycle.TxRunner
	Properties repository.PropertyRepository
	Requests   repository.RequestRepository
	Issuances  repository.IssuanceRepository
	Users      repository.UserRepository
	Close      func()
}

// Open conecta, crea el esquema si falta y devuelve los repositorios.
func Open(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	if cfg.Driver == config.DriverSQLite {
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.EnsureSchema(db); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			Tx:         sqlite.NewTxRunner(db),
			Properties: sqlite.NewPropertyRepository(db),
			Requests:   sqlite.NewRequestRepository(db),
			Issuances:  sqlite.NewIssuanceRepository(db),
			Users:      sqlite.NewUserRepository(db),
			Close:      func() { db.Close() },
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{
		Tx:         postgres.NewTxRunner(pool),
		Properties: postgres.NewPropertyRepository(pool),
		Requests:   postgres.NewRequestRepository(pool),
		Issuances:  postgres.NewIssuanceRepository(pool),
		Users:      postgres.NewUserRepository(pool),
		Close:      pool.Close,
	}, nil
}
