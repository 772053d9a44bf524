//go:build integration

package lifecycle_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Propiedades-api/internal/application/dto"
	"github.com/jhoicas/Propiedades-api/internal/application/lifecycle"
	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Propiedades-api/pkg/config"
	"github.com/jhoicas/Propiedades-api/pkg/logger"
)

// Ejecutar con: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/application/lifecycle/
type pgFixture struct {
	c         *lifecycle.Coordinator
	requester entity.Actor
	approver  entity.Actor
	issuer    entity.Actor
}

func newPostgresCoordinator(t *testing.T) pgFixture {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{Driver: "postgres", DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))

	// IDs y usernames únicos por ejecución: la base no se limpia entre corridas.
	run := uuid.New().String()[:8]
	f := pgFixture{
		requester: entity.Actor{ID: "u-" + run, Role: entity.RoleRequester},
		approver:  entity.Actor{ID: "a-" + run, Role: entity.RoleApprover},
		issuer:    entity.Actor{ID: "s-" + run, Role: entity.RoleIssuer},
	}
	users := postgres.NewUserRepository(pool)
	now := time.Now().UTC()
	for _, a := range []entity.Actor{f.requester, f.approver, f.issuer} {
		require.NoError(t, users.Create(ctx, &entity.User{
			ID: a.ID, Username: a.ID, Name: a.ID, Role: a.Role, PasswordHash: "x", CreatedAt: now, UpdatedAt: now,
		}))
	}
	f.c = lifecycle.NewCoordinator(lifecycle.Deps{
		Tx:         postgres.NewTxRunner(pool),
		Properties: postgres.NewPropertyRepository(pool),
		Requests:   postgres.NewRequestRepository(pool),
		Issuances:  postgres.NewIssuanceRepository(pool),
		Users:      users,
		Receipts:   &fakeReceipts{},
		Log:        logger.Nop(),
	})
	return f
}

func (f pgFixture) property(t *testing.T, qty int) string {
	t.Helper()
	p, err := f.c.CreateProperty(context.Background(), f.approver, dto.CreatePropertyRequest{
		Number: "PG-" + uuid.New().String(), Name: "Laptop", Measurement: "pcs", Quantity: qty,
		UnitPrice: decimal.RequireFromString("250.00"), PropertyType: "permanent",
	})
	require.NoError(t, err)
	return p.ID
}

func TestPostgres_AprobacionesConcurrentesNoSobrevenden(t *testing.T) {
	ctx := context.Background()
	f := newPostgresCoordinator(t)
	pid := f.property(t, 10)

	ids := make([]string, 8)
	for i := range ids {
		r, err := f.c.Submit(ctx, f.requester, dto.SubmitRequest{PropertyID: pid, RequestedQuantity: 3})
		require.NoError(t, err)
		ids[i] = r.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.c.Approve(ctx, f.approver, id)
		}(i, id)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, 5, short)
	p, err := f.c.GetProperty(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 1, p.AvailableQuantity)
}

func TestPostgres_EntregaConcurrenteUnaSola(t *testing.T) {
	ctx := context.Background()
	f := newPostgresCoordinator(t)
	pid := f.property(t, 5)
	r, err := f.c.Submit(ctx, f.requester, dto.SubmitRequest{PropertyID: pid, RequestedQuantity: 2})
	require.NoError(t, err)
	_, err = f.c.Approve(ctx, f.approver, r.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.c.Issue(ctx, f.issuer, dto.IssueRequest{RequestID: r.ID})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrAlreadyIssued) || errors.Is(err, domain.ErrInvalidTransition), "error: %v", err)
	}
	assert.Equal(t, 1, ok)
	require.NoError(t, f.c.DeleteProperty(ctx, f.approver, pid), "sin solicitudes abiertas")
}
