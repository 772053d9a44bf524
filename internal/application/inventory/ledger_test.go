package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Propiedades-api/internal/application/inventory"
	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/infrastructure/sqlite"
)

func setup(t *testing.T, qty int) (*inventory.Ledger, *sqlite.PropertyRepo) {
	t.Helper()
	repo := sqlite.NewPropertyRepository(sqlite.NewTestDB(t))
	now := time.Now()
	require.NoError(t, repo.Create(context.Background(), &entity.Property{
		ID: "p-1", Number: "IRD-001", Name: "Laptop", Measurement: "pcs", RegisteredOn: now,
		Quantity: qty, UnitPrice: decimal.NewFromInt(100), TotalPrice: decimal.NewFromInt(int64(100 * qty)),
		Type: entity.PropertyPermanent, AvailableQuantity: qty, CreatedAt: now, UpdatedAt: now,
	}))
	return inventory.NewLedger(repo), repo
}

func TestReserve(t *testing.T) {
	ctx := context.Background()
	ledger, _ := setup(t, 10)

	require.NoError(t, ledger.Reserve(ctx, "p-1", 4))
	avail, err := ledger.Available(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 6, avail)

	assert.ErrorIs(t, ledger.Reserve(ctx, "p-1", 7), domain.ErrInsufficientStock)
	assert.ErrorIs(t, ledger.Reserve(ctx, "p-1", 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, ledger.Reserve(ctx, "nope", 1), domain.ErrNotFound)

	avail, err = ledger.Available(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 6, avail, "las reservas fallidas no tocan el stock")
}

func TestRelease_NoSuperaQuantity(t *testing.T) {
	ctx := context.Background()
	ledger, _ := setup(t, 5)
	require.NoError(t, ledger.Reserve(ctx, "p-1", 2))
	require.NoError(t, ledger.Release(ctx, "p-1", 10))

	avail, err := ledger.Available(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 5, avail)
	assert.ErrorIs(t, ledger.Release(ctx, "nope", 1), domain.ErrNotFound)
}

func TestResize(t *testing.T) {
	ctx := context.Background()
	ledger, repo := setup(t, 10)
	require.NoError(t, ledger.Reserve(ctx, "p-1", 7))

	assert.ErrorIs(t, ledger.Resize(ctx, "p-1", 6), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, ledger.Resize(ctx, "p-1", 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, ledger.Resize(ctx, "nope", 3), domain.ErrNotFound)

	require.NoError(t, ledger.Resize(ctx, "p-1", 12))
	p, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 12, p.Quantity)
	assert.Equal(t, 5, p.AvailableQuantity)
	assert.Equal(t, 7, p.Reserved())
}

func TestReserve_Concurrente(t *testing.T) {
	ctx := context.Background()
	ledger, _ := setup(t, 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ledger.Reserve(ctx, "p-1", 3)
		}(i)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			short++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
	avail, err := ledger.Available(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, avail)
}
