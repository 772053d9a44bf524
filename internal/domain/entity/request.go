package entity

import (
	"time"

	"github.com/jhoicas/Propiedades-api/internal/domain"
)

// RequestStatus estado persistido de una solicitud.
type RequestStatus string

// Estados del ciclo de vida de una solicitud.
const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusAdjusted RequestStatus = "adjusted"
	StatusRejected RequestStatus = "rejected"
	StatusIssued   RequestStatus = "issued"
)

// Valid indica si s es un estado conocido.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusAdjusted, StatusRejected, StatusIssued:
		return true
	}
	return false
}

// Terminal: rejected e issued no admiten más transiciones.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusIssued
}

// RequestState es la variante etiquetada del estado de una solicitud.
// Cada variante lleva solo los campos que existen en ese estado.
type RequestState interface {
	Status() RequestStatus
	requestState()
}

// Allocation es un estado con stock reservado: Approved o Adjusted.
type Allocation interface {
	RequestState
	AllocatedQuantity() int
	Approver() string
}

// Pending: recién creada, sin reserva.
type Pending struct{}

// Approved: aprobada por la cantidad solicitada.
type Approved struct {
	ApproverID string
	Quantity   int // igual a RequestedQuantity
}

// Adjusted: aprobada por una cantidad menor o igual a la solicitada.
type Adjusted struct {
	ApproverID       string
	ApprovedQuantity int
	Reason           string
}

// Rejected: terminal, sin efecto en inventario.
type Rejected struct {
	ApproverID string
	Reason     string
}

// Issued: terminal; conserva la asignación de la que proviene.
type Issued struct {
	From     Allocation
	IssuerID string
	IssuedAt time.Time
}

func (Pending) Status() RequestStatus  { return StatusPending }
func (Approved) Status() RequestStatus { return StatusApproved }
func (Adjusted) Status() RequestStatus { return StatusAdjusted }
func (Rejected) Status() RequestStatus { return StatusRejected }
func (Issued) Status() RequestStatus   { return StatusIssued }

func (Pending) requestState()  {}
func (Approved) requestState() {}
func (Adjusted) requestState() {}
func (Rejected) requestState() {}
func (Issued) requestState()   {}

func (a Approved) AllocatedQuantity() int { return a.Quantity }
func (a Approved) Approver() string       { return a.ApproverID }
func (a Adjusted) AllocatedQuantity() int { return a.ApprovedQuantity }
func (a Adjusted) Approver() string       { return a.ApproverID }

// Request es una solicitud de asignación de un solicitante sobre una propiedad.
// Los datos del solicitante y de la propiedad se copian al crearla.
type Request struct {
	ID                  string
	RequesterID         string
	RequesterName       string
	RequesterDepartment string
	PropertyID          string
	PropertyNumber      string
	PropertyName        string
	Measurement         string // etiqueta de unidad
	RequestedQuantity   int
	State               RequestState
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewRequest crea una solicitud en estado pending. requestedQuantity debe ser >= 1.
func NewRequest(id string, requester *User, property *Property, requestedQuantity int, now time.Time) (*Request, error) {
	if requestedQuantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	department := requester.Department
	if department == "" {
		department = "Unknown Department"
	}
	return &Request{
		ID:                  id,
		RequesterID:         requester.ID,
		RequesterName:       requester.Name,
		RequesterDepartment: department,
		PropertyID:          property.ID,
		PropertyNumber:      property.Number,
		PropertyName:        property.Name,
		Measurement:         property.Measurement,
		RequestedQuantity:   requestedQuantity,
		State:               Pending{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// Status devuelve el estado actual.
func (r *Request) Status() RequestStatus {
	if r.State == nil {
		return StatusPending
	}
	return r.State.Status()
}

// Allocation devuelve la asignación vigente (approved, adjusted o la de origen de issued).
func (r *Request) Allocation() (Allocation, bool) {
	switch s := r.State.(type) {
	case Approved:
		return s, true
	case Adjusted:
		return s, true
	case Issued:
		return s.From, s.From != nil
	}
	return nil, false
}

// IssuedAt devuelve la fecha de entrega si la solicitud fue entregada.
func (r *Request) IssuedAt() (time.Time, bool) {
	if s, ok := r.State.(Issued); ok {
		return s.IssuedAt, true
	}
	return time.Time{}, false
}

// Approve transiciona pending → approved reservando la cantidad solicitada.
func (r *Request) Approve(approverID string, now time.Time) (*Request, error) {
	if r.Status() != StatusPending {
		return nil, domain.ErrInvalidTransition
	}
	return r.with(Approved{ApproverID: approverID, Quantity: r.RequestedQuantity}, now), nil
}

// Adjust transiciona pending → adjusted. Exige 1 <= approvedQuantity <= RequestedQuantity.
func (r *Request) Adjust(approverID string, approvedQuantity int, reason string, now time.Time) (*Request, error) {
	if r.Status() != StatusPending {
		return nil, domain.ErrInvalidTransition
	}
	if approvedQuantity < 1 || approvedQuantity > r.RequestedQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	return r.with(Adjusted{ApproverID: approverID, ApprovedQuantity: approvedQuantity, Reason: reason}, now), nil
}

// Reject transiciona pending → rejected.
func (r *Request) Reject(approverID, reason string, now time.Time) (*Request, error) {
	if r.Status() != StatusPending {
		return nil, domain.ErrInvalidTransition
	}
	return r.with(Rejected{ApproverID: approverID, Reason: reason}, now), nil
}

// Issue transiciona approved|adjusted → issued.
func (r *Request) Issue(issuerID string, now time.Time) (*Request, error) {
	switch s := r.State.(type) {
	case Approved:
		return r.with(Issued{From: s, IssuerID: issuerID, IssuedAt: now}, now), nil
	case Adjusted:
		return r.with(Issued{From: s, IssuerID: issuerID, IssuedAt: now}, now), nil
	case Issued:
		return nil, domain.ErrAlreadyIssued
	}
	return nil, domain.ErrInvalidTransition
}

// with devuelve una copia con el nuevo estado; la original no se modifica.
func (r *Request) with(state RequestState, now time.Time) *Request {
	next := *r
	next.State = state
	next.UpdatedAt = now
	return &next
}
