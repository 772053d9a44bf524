package dto

import (
	"time"

	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
)

// SubmitRequest body para POST /api/requests.
type SubmitRequest struct {
	PropertyID        string `json:"property_id" validate:"required"`
	RequestedQuantity int    `json:"requested_quantity" validate:"required,min=1"`
}

// AdjustRequest body para POST /api/requests/:id/adjust.
type AdjustRequest struct {
	ApprovedQuantity int    `json:"approved_quantity" validate:"required,min=1"`
	Reason           string `json:"reason"`
}

// RejectRequest body para POST /api/requests/:id/reject.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// RequestResponse salida de una solicitud. approved_quantity solo aparece cuando hay asignación.
type RequestResponse struct {
	ID                  string     `json:"id"`
	RequesterID         string     `json:"user_id"`
	RequesterName       string     `json:"user_name"`
	RequesterDepartment string     `json:"user_department"`
	PropertyID          string     `json:"property_id"`
	PropertyNumber      string     `json:"property_number"`
	PropertyName        string     `json:"property_name"`
	QuantityType        string     `json:"quantity_type"`
	RequestedQuantity   int        `json:"requested_quantity"`
	ApprovedQuantity    *int       `json:"approved_quantity,omitempty"`
	Status              string     `json:"status"`
	Reason              string     `json:"reason,omitempty"`
	ApproverID          string     `json:"approver_id,omitempty"`
	IssuerID            string     `json:"issuer_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	IssuedAt            *time.Time `json:"issued_at,omitempty"`
}

// RequestListResponse lista paginada de solicitudes.
type RequestListResponse struct {
	Items []RequestResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// NewRequestResponse convierte la entidad (con su variante de estado) a la salida HTTP.
func NewRequestResponse(r *entity.Request) *RequestResponse {
	if r == nil {
		return nil
	}
	out := &RequestResponse{
		ID:                  r.ID,
		RequesterID:         r.RequesterID,
		RequesterName:       r.RequesterName,
		RequesterDepartment: r.RequesterDepartment,
		PropertyID:          r.PropertyID,
		PropertyNumber:      r.PropertyNumber,
		PropertyName:        r.PropertyName,
		QuantityType:        r.Measurement,
		RequestedQuantity:   r.RequestedQuantity,
		Status:              string(r.Status()),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if alloc, ok := r.Allocation(); ok {
		qty := alloc.AllocatedQuantity()
		out.ApprovedQuantity = &qty
		out.ApproverID = alloc.Approver()
		if adj, ok := alloc.(entity.Adjusted); ok {
			out.Reason = adj.Reason
		}
	}
	switch s := r.State.(type) {
	case entity.Rejected:
		out.ApproverID = s.ApproverID
		out.Reason = s.Reason
	case entity.Issued:
		out.IssuerID = s.IssuerID
		at := s.IssuedAt
		out.IssuedAt = &at
	}
	return out
}

// NewRequestListResponse arma la lista paginada.
func NewRequestListResponse(list []*entity.Request, page PageRequest) *RequestListResponse {
	items := make([]RequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *NewRequestResponse(r))
	}
	return &RequestListResponse{Items: items, Page: PageResponse{Limit: page.Limit, Offset: page.Offset}}
}

// RequestListQuery filtros de GET /api/requests.
type RequestListQuery struct {
	PageRequest
	Status      string `query:"status"`
	PropertyID  string `query:"property_id"`
	RequesterID string `query:"requester_id"`
}
