package issuance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Propiedades-api/internal/application/inventory"
	"github.com/jhoicas/Propiedades-api/internal/application/issuance"
	"github.com/jhoicas/Propiedades-api/internal/application/requests"
	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
	"github.com/jhoicas/Propiedades-api/internal/infrastructure/sqlite"
)

var (
	clock     = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	requester = &entity.User{ID: "u-1", Name: "Sidrak H.", Department: "ADRD", Role: entity.RoleRequester}
	issuer    = &entity.User{ID: "s-1", Name: "Store Manager", Department: "Store Department", Role: entity.RoleIssuer}
)

type fixture struct {
	lc         *requests.Lifecycle
	rec        *issuance.Recorder
	ledger     *inventory.Ledger
	properties repository.PropertyRepository
	requests   repository.RequestRepository
	issuances  repository.IssuanceRepository
}

func setup(t *testing.T, propertyType entity.PropertyType) fixture {
	t.Helper()
	db := sqlite.NewTestDB(t)
	props := sqlite.NewPropertyRepository(db)
	reqs := sqlite.NewRequestRepository(db)
	iss := sqlite.NewIssuanceRepository(db)
	require.NoError(t, props.Create(context.Background(), &entity.Property{
		ID: "p-1", Number: "IRD-001", Name: "Laptop", ModelNumber: "XPS-13", SerialNumber: "SN-9",
		Measurement: "pcs", RegisteredOn: clock, Quantity: 10, UnitPrice: decimal.Zero, TotalPrice: decimal.Zero,
		Type: propertyType, AvailableQuantity: 10, CreatedAt: clock, UpdatedAt: clock,
	}))
	ledger := inventory.NewLedger(props)
	now := func() time.Time { return clock }
	return fixture{
		lc:         requests.NewLifecycle(reqs, props, ledger, now),
		rec:        issuance.NewRecorder(reqs, iss, props, now),
		ledger:     ledger,
		properties: props,
		requests:   reqs,
		issuances:  iss,
	}
}

func TestIssue_Aprobada(t *testing.T) {
	ctx := context.Background()
	f := setup(t, entity.PropertyPermanentTemporary)
	r, err := f.lc.Submit(ctx, requester, "p-1", 4)
	require.NoError(t, err)
	_, err = f.lc.Approve(ctx, r.ID, "a-1")
	require.NoError(t, err)

	got, err := f.rec.Issue(ctx, r.ID, issuer, "M22-0042")
	require.NoError(t, err)
	assert.Equal(t, 4, got.IssuedQuantity)
	assert.True(t, got.IsPermanent, "permanent-temporary se entrega como permanente")
	assert.Equal(t, "M22-0042", got.Model22Number)
	assert.Equal(t, "XPS-13", got.ModelNumber)
	assert.Equal(t, "Store Manager", got.IssuerName)

	avail, err := f.ledger.Available(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 6, avail, "la entrega no vuelve a descontar")

	stored, err := f.requests.GetByID(ctx, r.ID)
	require.NoError(t, err)
	at, ok := stored.IssuedAt()
	require.True(t, ok)
	assert.Equal(t, clock, at)
}

func TestIssue_AjustadaUsaCantidadAprobada(t *testing.T) {
	ctx := context.Background()
	f := setup(t, entity.PropertyTemporary)
	r, err := f.lc.Submit(ctx, requester, "p-1", 8)
	require.NoError(t, err)
	_, err = f.lc.Adjust(ctx, r.ID, "a-1", 5, "partial stock")
	require.NoError(t, err)

	got, err := f.rec.Issue(ctx, r.ID, issuer, "")
	require.NoError(t, err)
	assert.Equal(t, 5, got.IssuedQuantity)
	assert.False(t, got.IsPermanent)
}

func TestIssue_DosVecesUnaEntrega(t *testing.T) {
	ctx := context.Background()
	f := setup(t, entity.PropertyPermanent)
	r, err := f.lc.Submit(ctx, requester, "p-1", 2)
	require.NoError(t, err)
	_, err = f.lc.Approve(ctx, r.ID, "a-1")
	require.NoError(t, err)

	_, err = f.rec.Issue(ctx, r.ID, issuer, "")
	require.NoError(t, err)
	_, err = f.rec.Issue(ctx, r.ID, issuer, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyIssued)

	n, err := f.issuances.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIssue_EstadosNoEntregables(t *testing.T) {
	ctx := context.Background()
	f := setup(t, entity.PropertyPermanent)
	pending, err := f.lc.Submit(ctx, requester, "p-1", 2)
	require.NoError(t, err)
	_, err = f.rec.Issue(ctx, pending.ID, issuer, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	rejected, err := f.lc.Submit(ctx, requester, "p-1", 2)
	require.NoError(t, err)
	_, err = f.lc.Reject(ctx, rejected.ID, "a-1", "no")
	require.NoError(t, err)
	_, err = f.rec.Issue(ctx, rejected.ID, issuer, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.rec.Issue(ctx, "nope", issuer, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := f.issuances.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIssue_TipoCapturadoAlEntregar(t *testing.T) {
	ctx := context.Background()
	f := setup(t, entity.PropertyPermanent)
	r, err := f.lc.Submit(ctx, requester, "p-1", 1)
	require.NoError(t, err)
	_, err = f.lc.Approve(ctx, r.ID, "a-1")
	require.NoError(t, err)
	got, err := f.rec.Issue(ctx, r.ID, issuer, "")
	require.NoError(t, err)

	p, err := f.properties.GetByID(ctx, "p-1")
	require.NoError(t, err)
	p.Type = entity.PropertyTemporary
	require.NoError(t, f.properties.Update(ctx, p))

	stored, err := f.issuances.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPermanent, "editar la propiedad no reclasifica entregas pasadas")
}
