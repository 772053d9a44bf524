package issuance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

// Recorder convierte una solicitud approved/adjusted en una entrega inmutable y marca la solicitud issued.
// No vuelve a tocar el inventario: el stock se descontó al aprobar.
type Recorder struct {
	requests   repository.RequestRepository
	issuances  repository.IssuanceRepository
	properties repository.PropertyRepository
	now        func() time.Time
}

// NewRecorder construye el registrador. Los repositorios pueden estar atados a una tx.
func NewRecorder(
	requests repository.RequestRepository,
	issuances repository.IssuanceRepository,
	properties repository.PropertyRepository,
	now func() time.Time,
) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{requests: requests, issuances: issuances, properties: properties, now: now}
}

// Issue registra la entrega de la solicitud requestID.
//
// Retorna:
//   - domain.ErrNotFound          si la solicitud (o su propiedad) no existe.
//   - domain.ErrAlreadyIssued     si la solicitud ya tiene entrega.
//   - domain.ErrInvalidTransition si la solicitud no está approved ni adjusted.
func (r *Recorder) Issue(ctx context.Context, requestID string, issuer *entity.User, model22Number string) (*entity.Issuance, error) {
	req, err := r.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := r.issuances.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyIssued
	}

	now := r.now()
	issued, err := req.Issue(issuer.ID, now)
	if err != nil {
		return nil, err
	}
	alloc, _ := issued.Allocation()

	// El tipo se toma de la propiedad en este momento; ediciones posteriores no lo alteran.
	property, err := r.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, domain.ErrNotFound
	}

	rec := &entity.Issuance{
		ID:                  uuid.New().String(),
		RequestID:           req.ID,
		PropertyID:          property.ID,
		RequesterID:         req.RequesterID,
		RequesterName:       req.RequesterName,
		RequesterDepartment: req.RequesterDepartment,
		PropertyNumber:      property.Number,
		PropertyName:        property.Name,
		ModelNumber:         property.ModelNumber,
		SerialNumber:        property.SerialNumber,
		Measurement:         property.Measurement,
		IssuedQuantity:      alloc.AllocatedQuantity(),
		IssuerID:            issuer.ID,
		IssuerName:          issuer.Name,
		IsPermanent:         property.Type.IsPermanent(),
		Model22Number:       model22Number,
		IssuedAt:            now,
	}
	if err := r.issuances.Create(ctx, rec); err != nil {
		return nil, err
	}
	ok, err := r.requests.UpdateIfStatus(ctx, issued, req.Status())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Otro actor cambió la solicitud entre la lectura y el CAS; la tx del llamador descarta la entrega.
		return nil, domain.ErrInvalidTransition
	}
	return rec, nil
}
