package lifecycle

import (
	"context"
	"time"

	"github.com/jhoicas/Propiedades-api/internal/application/dto"
	"github.com/jhoicas/Propiedades-api/internal/application/inventory"
	"github.com/jhoicas/Propiedades-api/internal/application/issuance"
	"github.com/jhoicas/Propiedades-api/internal/application/requests"
	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
	"github.com/jhoicas/Propiedades-api/pkg/logger"
)

// Deps dependencias del coordinador. Los repositorios son los del pool (lecturas fuera de tx);
// las escrituras usan los que entrega Tx.
type Deps struct {
	Tx         TxRunner
	Properties repository.PropertyRepository
	Requests   repository.RequestRepository
	Issuances  repository.IssuanceRepository
	Users      repository.UserRepository
	Receipts   ReceiptGenerator
	Log        *logger.Logger
	Now        func() time.Time
}

// Coordinator es la fachada del ciclo de vida: una operación por acción de la API,
// una verificación de rol por operación y una transacción por operación.
type Coordinator struct {
	tx         TxRunner
	properties repository.PropertyRepository
	requests   repository.RequestRepository
	issuances  repository.IssuanceRepository
	users      repository.UserRepository
	receipts   ReceiptGenerator
	log        *logger.Logger
	now        func() time.Time
}

// NewCoordinator construye el coordinador.
func NewCoordinator(d Deps) *Coordinator {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &Coordinator{
		tx:         d.Tx,
		properties: d.Properties,
		requests:   d.Requests,
		issuances:  d.Issuances,
		users:      d.Users,
		receipts:   d.Receipts,
		log:        d.Log,
		now:        d.Now,
	}
}

// Submit crea una solicitud pending a nombre del actor (solo requester).
func (c *Coordinator) Submit(ctx context.Context, actor entity.Actor, in dto.SubmitRequest) (*dto.RequestResponse, error) {
	if err := authorize(actor, OpSubmit); err != nil {
		return nil, err
	}
	if in.PropertyID == "" {
		return nil, domain.ErrInvalidInput
	}
	// El usuario se resuelve antes de abrir la tx: dentro de ella solo se usan repos de la tx.
	requester, err := c.resolveUser(ctx, actor)
	if err != nil {
		return nil, c.fail(OpSubmit, "", err)
	}
	var created *entity.Request
	err = c.tx.Run(ctx, func(properties repository.PropertyRepository, reqs repository.RequestRepository, _ repository.IssuanceRepository) error {
		r, err := c.lifecycle(properties, reqs).Submit(ctx, requester, in.PropertyID, in.RequestedQuantity)
		created = r
		return err
	})
	if err != nil {
		return nil, c.fail(OpSubmit, "", err)
	}
	c.log.Info().
		Str("request_id", created.ID).
		Str("property_id", created.PropertyID).
		Str("requester_id", created.RequesterID).
		Int("requested_quantity", created.RequestedQuantity).
		Msg("solicitud creada")
	return dto.NewRequestResponse(created), nil
}

// Approve aprueba la solicitud por la cantidad solicitada y reserva el stock (solo approver).
func (c *Coordinator) Approve(ctx context.Context, actor entity.Actor, requestID string) (*dto.RequestResponse, error) {
	return c.transition(ctx, actor, OpApprove, requestID, func(lc *requests.Lifecycle) (*entity.Request, error) {
		return lc.Approve(ctx, requestID, actor.ID)
	})
}

// Adjust aprueba por una cantidad menor o igual a la solicitada (solo approver).
func (c *Coordinator) Adjust(ctx context.Context, actor entity.Actor, requestID string, in dto.AdjustRequest) (*dto.RequestResponse, error) {
	return c.transition(ctx, actor, OpAdjust, requestID, func(lc *requests.Lifecycle) (*entity.Request, error) {
		return lc.Adjust(ctx, requestID, actor.ID, in.ApprovedQuantity, in.Reason)
	})
}

// Reject rechaza una solicitud pending (solo approver).
func (c *Coordinator) Reject(ctx context.Context, actor entity.Actor, requestID string, in dto.RejectRequest) (*dto.RequestResponse, error) {
	return c.transition(ctx, actor, OpReject, requestID, func(lc *requests.Lifecycle) (*entity.Request, error) {
		return lc.Reject(ctx, requestID, actor.ID, in.Reason)
	})
}

// Issue registra la entrega física de una solicitud approved/adjusted (solo issuer).
func (c *Coordinator) Issue(ctx context.Context, actor entity.Actor, in dto.IssueRequest) (*dto.IssuanceResponse, error) {
	if err := authorize(actor, OpIssue); err != nil {
		return nil, err
	}
	if in.RequestID == "" {
		return nil, domain.ErrInvalidInput
	}
	issuer, err := c.resolveUser(ctx, actor)
	if err != nil {
		return nil, c.fail(OpIssue, in.RequestID, err)
	}
	var rec *entity.Issuance
	err = c.tx.Run(ctx, func(properties repository.PropertyRepository, reqs repository.RequestRepository, iss repository.IssuanceRepository) error {
		r, err := issuance.NewRecorder(reqs, iss, properties, c.now).Issue(ctx, in.RequestID, issuer, in.Model22Number)
		rec = r
		return err
	})
	if err != nil {
		return nil, c.fail(OpIssue, in.RequestID, err)
	}
	c.log.Info().
		Str("issuance_id", rec.ID).
		Str("request_id", rec.RequestID).
		Str("issuer_id", rec.IssuerID).
		Int("issued_quantity", rec.IssuedQuantity).
		Bool("is_permanent", rec.IsPermanent).
		Msg("entrega registrada")
	return dto.NewIssuanceResponse(rec), nil
}

func (c *Coordinator) transition(
	ctx context.Context,
	actor entity.Actor,
	op Operation,
	requestID string,
	fn func(lc *requests.Lifecycle) (*entity.Request, error),
) (*dto.RequestResponse, error) {
	if err := c.authorizeStored(ctx, actor, op); err != nil {
		return nil, c.fail(op, requestID, err)
	}
	var updated *entity.Request
	err := c.tx.Run(ctx, func(properties repository.PropertyRepository, reqs repository.RequestRepository, _ repository.IssuanceRepository) error {
		r, err := fn(c.lifecycle(properties, reqs))
		updated = r
		return err
	})
	if err != nil {
		return nil, c.fail(op, requestID, err)
	}
	ev := c.log.Info().
		Str("op", string(op)).
		Str("request_id", updated.ID).
		Str("status", string(updated.Status())).
		Str("actor_id", actor.ID)
	if alloc, ok := updated.Allocation(); ok {
		ev = ev.Int("reserved", alloc.AllocatedQuantity())
	}
	ev.Msg("solicitud actualizada")
	return dto.NewRequestResponse(updated), nil
}

func (c *Coordinator) lifecycle(properties repository.PropertyRepository, reqs repository.RequestRepository) *requests.Lifecycle {
	return requests.NewLifecycle(reqs, properties, inventory.NewLedger(properties), c.now)
}

// resolveUser completa nombre y departamento del actor. Un actor sin usuario no está autorizado.
func (c *Coordinator) resolveUser(ctx context.Context, actor entity.Actor) (*entity.User, error) {
	u, err := c.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != actor.Role {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// authorizeStored valida el permiso del rol y que el usuario persistido conserve ese rol.
func (c *Coordinator) authorizeStored(ctx context.Context, actor entity.Actor, op Operation) error {
	if err := authorize(actor, op); err != nil {
		return err
	}
	_, err := c.resolveUser(ctx, actor)
	return err
}

// fail registra el error y lo devuelve sin modificar. Los de negocio van a nivel warn;
// el resto son fallas de persistencia (nada se confirmó, el llamador puede reintentar).
func (c *Coordinator) fail(op Operation, requestID string, err error) error {
	if domain.IsBusinessError(err) {
		c.log.Warn().Str("op", string(op)).Str("request_id", requestID).Err(err).Msg("operación rechazada")
		return err
	}
	c.log.Error().Str("op", string(op)).Str("request_id", requestID).Err(err).Msg("falla de persistencia")
	return err
}
