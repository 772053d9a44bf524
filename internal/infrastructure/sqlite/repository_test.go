package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

var t0 = time.Date(2026, 5, 4, 9, 30, 0, 123, time.UTC)

func newProperty(id, number string, qty int) *entity.Property {
	price := decimal.RequireFromString("12.50")
	return &entity.Property{
		ID: id, Number: number, Name: "Laptop", Measurement: "pcs",
		RegisteredOn: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Quantity:     qty, UnitPrice: price, TotalPrice: entity.ComputeTotalPrice(qty, price),
		Type: entity.PropertyPermanent, AvailableQuantity: qty, CreatedAt: t0, UpdatedAt: t0,
	}
}

func TestPropertyRepo_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(NewTestDB(t))

	require.NoError(t, repo.Create(ctx, newProperty("p-1", "IRD-001", 10)))
	got, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "IRD-001", got.Number)
	assert.Equal(t, 10, got.AvailableQuantity)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("125")))
	assert.Equal(t, t0, got.CreatedAt)
	assert.Equal(t, "2026-01-15", got.RegisteredOn.Format(dateLayout))

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, newProperty("p-2", "IRD-001", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestPropertyRepo_DecrementIncrement(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(NewTestDB(t))
	require.NoError(t, repo.Create(ctx, newProperty("p-1", "IRD-001", 5)))

	ok, err := repo.DecrementAvailable(ctx, "p-1", 3)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.DecrementAvailable(ctx, "p-1", 3)
	require.NoError(t, err)
	assert.False(t, ok, "solo quedan 2")

	ok, err = repo.IncrementAvailable(ctx, "p-1", 100)
	require.NoError(t, err)
	assert.True(t, ok)
	p, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.AvailableQuantity, "nunca supera quantity")

	ok, err = repo.DecrementAvailable(ctx, "nope", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPropertyRepo_Resize(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(NewTestDB(t))
	require.NoError(t, repo.Create(ctx, newProperty("p-1", "IRD-001", 10)))
	_, err := repo.DecrementAvailable(ctx, "p-1", 6)
	require.NoError(t, err)

	ok, err := repo.Resize(ctx, "p-1", 5)
	require.NoError(t, err)
	assert.False(t, ok, "6 reservadas no caben en 5")

	ok, err = repo.Resize(ctx, "p-1", 8)
	require.NoError(t, err)
	assert.True(t, ok)
	p, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 8, p.Quantity)
	assert.Equal(t, 2, p.AvailableQuantity)
	assert.True(t, p.TotalPrice.Equal(decimal.RequireFromString("100")))

	ok, err = repo.Resize(ctx, "nope", 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPropertyRepo_UpdateDeleteList(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(NewTestDB(t))
	require.NoError(t, repo.Create(ctx, newProperty("p-1", "IRD-002", 4)))
	require.NoError(t, repo.Create(ctx, newProperty("p-2", "IRD-001", 2)))

	p, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	p.Name = "Laptop Dell"
	p.UnitPrice = decimal.RequireFromString("3")
	require.NoError(t, repo.Update(ctx, p))
	p, err = repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Laptop Dell", p.Name)
	assert.True(t, p.TotalPrice.Equal(decimal.RequireFromString("12")))

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "IRD-001", list[0].Number)
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.Delete(ctx, "p-2"))
	assert.ErrorIs(t, repo.Delete(ctx, "p-2"), domain.ErrNotFound)
}

func newRequest(t *testing.T, id string, qty int, created time.Time) *entity.Request {
	t.Helper()
	r, err := entity.NewRequest(id,
		&entity.User{ID: "u-1", Name: "Sidrak H.", Department: "ADRD"},
		&entity.Property{ID: "p-1", Number: "IRD-001", Name: "Laptop", Measurement: "pcs"},
		qty, created)
	require.NoError(t, err)
	return r
}

func TestRequestRepo_EstadosYCAS(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository(NewTestDB(t))
	pending := newRequest(t, "r-1", 8, t0)
	require.NoError(t, repo.Create(ctx, pending))

	adjusted, err := pending.Adjust("a-1", 5, "partial stock", t0.Add(time.Minute))
	require.NoError(t, err)
	ok, err := repo.UpdateIfStatus(ctx, adjusted, entity.StatusPending)
	require.NoError(t, err)
	assert.True(t, ok)

	// Segundo CAS desde pending pierde.
	rejected, err := pending.Reject("a-2", "tarde", t0.Add(2*time.Minute))
	require.NoError(t, err)
	ok, err = repo.UpdateIfStatus(ctx, rejected, entity.StatusPending)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, adjusted.State, got.State)

	issued, err := got.Issue("i-1", t0.Add(time.Hour))
	require.NoError(t, err)
	ok, err = repo.UpdateIfStatus(ctx, issued, entity.StatusAdjusted)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	at, isIssued := got.IssuedAt()
	require.True(t, isIssued)
	assert.Equal(t, t0.Add(time.Hour), at)
	alloc, _ := got.Allocation()
	assert.Equal(t, 5, alloc.AllocatedQuantity())
}

func TestRequestRepo_ListYConteo(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository(NewTestDB(t))
	for i, id := range []string{"r-1", "r-2", "r-3"} {
		require.NoError(t, repo.Create(ctx, newRequest(t, id, 1, t0.Add(time.Duration(i)*time.Second))))
	}
	r3, err := repo.GetByID(ctx, "r-3")
	require.NoError(t, err)
	approved, err := r3.Approve("a-1", t0)
	require.NoError(t, err)
	_, err = repo.UpdateIfStatus(ctx, approved, entity.StatusPending)
	require.NoError(t, err)

	all, err := repo.List(ctx, repository.RequestFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r-3", all[0].ID, "más reciente primero")

	pending, err := repo.List(ctx, repository.RequestFilter{Status: entity.StatusPending, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	none, err := repo.List(ctx, repository.RequestFilter{RequesterID: "otro", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, none)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[entity.StatusPending])
	assert.Equal(t, 1, counts[entity.StatusApproved])

	r1, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	rejected, err := r1.Reject("a-1", "no", t0)
	require.NoError(t, err)
	_, err = repo.UpdateIfStatus(ctx, rejected, entity.StatusPending)
	require.NoError(t, err)

	open, err := repo.CountOpen(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, open, "rejected no cuenta")
	open, err = repo.CountOpen(ctx, "p-otra")
	require.NoError(t, err)
	assert.Zero(t, open)
}

func TestIssuanceRepo_UnicaPorSolicitud(t *testing.T) {
	ctx := context.Background()
	repo := NewIssuanceRepository(NewTestDB(t))
	rec := &entity.Issuance{
		ID: "i-1", RequestID: "r-1", PropertyID: "p-1", RequesterID: "u-1", RequesterName: "Sidrak H.",
		RequesterDepartment: "ADRD", PropertyNumber: "IRD-001", PropertyName: "Laptop", Measurement: "pcs",
		IssuedQuantity: 4, IssuerID: "s-1", IssuerName: "Store Manager", IsPermanent: true,
		Model22Number: "M22-0001", IssuedAt: t0,
	}
	require.NoError(t, repo.Create(ctx, rec))

	dup := *rec
	dup.ID = "i-2"
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrAlreadyIssued)

	got, err := repo.GetByRequestID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	list, err := repo.List(ctx, repository.IssuanceFilter{RequesterID: "u-1", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = repo.List(ctx, repository.IssuanceFilter{RequesterID: "otro", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewTestDB(t))
	u := &entity.User{ID: "u-1", Username: "user", PasswordHash: "x", Name: "Sidrak H.", Department: "ADRD",
		Role: entity.RoleRequester, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, u), domain.ErrDuplicate)

	got, err := repo.GetByUsername(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, u, got)
	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
