package requests

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Propiedades-api/internal/application/inventory"
	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

// Lifecycle es la máquina de estados de una solicitud:
//
//	pending → approved | adjusted | rejected
//	approved | adjusted → issued (ver issuance.Recorder)
//
// Decide en cada transición cuánto inventario reservar. Cada cambio de estado se
// persiste con compare-and-set sobre el estado de origen: si otro actor movió la
// solicitud primero, la transición falla con ErrInvalidTransition.
type Lifecycle struct {
	requests   repository.RequestRepository
	properties repository.PropertyRepository
	ledger     *inventory.Ledger
	now        func() time.Time
}

// NewLifecycle construye la máquina de estados. Los repositorios pueden estar atados a una tx.
func NewLifecycle(
	requests repository.RequestRepository,
	properties repository.PropertyRepository,
	ledger *inventory.Ledger,
	now func() time.Time,
) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{requests: requests, properties: properties, ledger: ledger, now: now}
}

// Submit crea una solicitud pending. No toca el inventario: la reserva ocurre al aprobar.
func (lc *Lifecycle) Submit(ctx context.Context, requester *entity.User, propertyID string, requestedQuantity int) (*entity.Request, error) {
	if requestedQuantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	property, err := lc.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, domain.ErrNotFound
	}
	req, err := entity.NewRequest(uuid.New().String(), requester, property, requestedQuantity, lc.now())
	if err != nil {
		return nil, err
	}
	if err := lc.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Approve reserva RequestedQuantity y pasa la solicitud a approved.
// Si la reserva falla la solicitud sigue pending.
func (lc *Lifecycle) Approve(ctx context.Context, requestID, approverID string) (*entity.Request, error) {
	return lc.allocate(ctx, requestID, func(r *entity.Request) (*entity.Request, error) {
		return r.Approve(approverID, lc.now())
	})
}

// Adjust reserva approvedQuantity (no la cantidad solicitada) y pasa la solicitud a adjusted.
func (lc *Lifecycle) Adjust(ctx context.Context, requestID, approverID string, approvedQuantity int, reason string) (*entity.Request, error) {
	return lc.allocate(ctx, requestID, func(r *entity.Request) (*entity.Request, error) {
		return r.Adjust(approverID, approvedQuantity, reason, lc.now())
	})
}

// Reject pasa la solicitud a rejected. Nada se había reservado, así que no hay efecto en inventario.
func (lc *Lifecycle) Reject(ctx context.Context, requestID, approverID, reason string) (*entity.Request, error) {
	current, err := lc.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	next, err := current.Reject(approverID, reason, lc.now())
	if err != nil {
		return nil, err
	}
	ok, err := lc.requests.UpdateIfStatus(ctx, next, entity.StatusPending)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidTransition
	}
	return next, nil
}

// allocate: validar transición → reservar → CAS de estado.
// Si el CAS pierde contra otro actor, la reserva se devuelve con Release.
func (lc *Lifecycle) allocate(ctx context.Context, requestID string, transition func(*entity.Request) (*entity.Request, error)) (*entity.Request, error) {
	current, err := lc.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	next, err := transition(current)
	if err != nil {
		return nil, err
	}
	alloc, _ := next.Allocation()
	amount := alloc.AllocatedQuantity()

	if err := lc.ledger.Reserve(ctx, next.PropertyID, amount); err != nil {
		return nil, err
	}
	ok, err := lc.requests.UpdateIfStatus(ctx, next, entity.StatusPending)
	if err == nil && ok {
		return next, nil
	}
	if relErr := lc.ledger.Release(ctx, next.PropertyID, amount); relErr != nil && err == nil {
		err = relErr
	}
	if err != nil {
		return nil, err
	}
	return nil, domain.ErrInvalidTransition
}

func (lc *Lifecycle) load(ctx context.Context, requestID string) (*entity.Request, error) {
	r, err := lc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}
