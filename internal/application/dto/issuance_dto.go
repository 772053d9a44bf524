package dto

import (
	"time"

	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
)

// IssueRequest body para POST /api/issuances.
type IssueRequest struct {
	RequestID     string `json:"request_id" validate:"required"`
	Model22Number string `json:"model22_number"`
}

// IssuanceResponse salida de una entrega.
type IssuanceResponse struct {
	ID                  string    `json:"id"`
	RequestID           string    `json:"request_id"`
	PropertyID          string    `json:"property_id"`
	RequesterID         string    `json:"user_id"`
	RequesterName       string    `json:"user_name"`
	RequesterDepartment string    `json:"user_department"`
	PropertyNumber      string    `json:"property_number"`
	PropertyName        string    `json:"property_name"`
	ModelNumber         string    `json:"model_number"`
	SerialNumber        string    `json:"serial_number"`
	QuantityType        string    `json:"quantity_type"`
	IssuedQuantity      int       `json:"issued_quantity"`
	IssuerID            string    `json:"store_manager_id"`
	IssuerName          string    `json:"store_manager_name"`
	IsPermanent         bool      `json:"is_permanent"`
	Model22Number       string    `json:"model22_number,omitempty"`
	IssuedAt            time.Time `json:"issued_at"`
}

// IssuanceListResponse lista paginada de entregas.
type IssuanceListResponse struct {
	Items []IssuanceResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewIssuanceResponse convierte la entidad a su salida HTTP.
func NewIssuanceResponse(i *entity.Issuance) *IssuanceResponse {
	if i == nil {
		return nil
	}
	return &IssuanceResponse{
		ID:                  i.ID,
		RequestID:           i.RequestID,
		PropertyID:          i.PropertyID,
		RequesterID:         i.RequesterID,
		RequesterName:       i.RequesterName,
		RequesterDepartment: i.RequesterDepartment,
		PropertyNumber:      i.PropertyNumber,
		PropertyName:        i.PropertyName,
		ModelNumber:         i.ModelNumber,
		SerialNumber:        i.SerialNumber,
		QuantityType:        i.Measurement,
		IssuedQuantity:      i.IssuedQuantity,
		IssuerID:            i.IssuerID,
		IssuerName:          i.IssuerName,
		IsPermanent:         i.IsPermanent,
		Model22Number:       i.Model22Number,
		IssuedAt:            i.IssuedAt,
	}
}

// NewIssuanceListResponse arma la lista paginada.
func NewIssuanceListResponse(list []*entity.Issuance, page PageRequest) *IssuanceListResponse {
	items := make([]IssuanceResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *NewIssuanceResponse(i))
	}
	return &IssuanceListResponse{Items: items, Page: PageResponse{Limit: page.Limit, Offset: page.Offset}}
}
