package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
)

// DateLayout formato de la fecha de registro de una propiedad.
const DateLayout = "2006-01-02"

// CreatePropertyRequest entrada para registrar una propiedad en el catálogo.
type CreatePropertyRequest struct {
	Number       string          `json:"number" validate:"required,max=50"`
	Name         string          `json:"name" validate:"required,max=200"`
	ModelNumber  string          `json:"model_number"`
	SerialNumber string          `json:"serial_number"`
	Date         string          `json:"date"` // YYYY-MM-DD; vacío = hoy
	CompanyName  string          `json:"company_name"`
	Measurement  string          `json:"measurement" validate:"required"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	PropertyType string          `json:"property_type" validate:"required,oneof=permanent temporary permanent-temporary"`
}

// UpdatePropertyRequest entrada para editar una propiedad (campos nil no se modifican).
// Quantity cambia el total registrado; la disponibilidad se desplaza en el mismo delta.
type UpdatePropertyRequest struct {
	Number       *string          `json:"number"`
	Name         *string          `json:"name"`
	ModelNumber  *string          `json:"model_number"`
	SerialNumber *string          `json:"serial_number"`
	Date         *string          `json:"date"`
	CompanyName  *string          `json:"company_name"`
	Measurement  *string          `json:"measurement"`
	Quantity     *int             `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	PropertyType *string          `json:"property_type"`
}

// PropertyResponse salida de una propiedad.
type PropertyResponse struct {
	ID                string          `json:"id"`
	Number            string          `json:"number"`
	Name              string          `json:"name"`
	ModelNumber       string          `json:"model_number"`
	SerialNumber      string          `json:"serial_number"`
	Date              string          `json:"date"`
	CompanyName       string          `json:"company_name"`
	Measurement       string          `json:"measurement"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	PropertyType      string          `json:"property_type"`
	AvailableQuantity int             `json:"available_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PropertyListResponse lista paginada de propiedades.
type PropertyListResponse struct {
	Items []PropertyResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewPropertyResponse convierte la entidad a su salida HTTP.
func NewPropertyResponse(p *entity.Property) *PropertyResponse {
	if p == nil {
		return nil
	}
	return &PropertyResponse{
		ID:                p.ID,
		Number:            p.Number,
		Name:              p.Name,
		ModelNumber:       p.ModelNumber,
		SerialNumber:      p.SerialNumber,
		Date:              p.RegisteredOn.Format(DateLayout),
		CompanyName:       p.CompanyName,
		Measurement:       p.Measurement,
		Quantity:          p.Quantity,
		UnitPrice:         p.UnitPrice,
		TotalPrice:        p.TotalPrice,
		PropertyType:      string(p.Type),
		AvailableQuantity: p.AvailableQuantity,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// NewPropertyListResponse arma la lista paginada.
func NewPropertyListResponse(list []*entity.Property, page PageRequest) *PropertyListResponse {
	items := make([]PropertyResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *NewPropertyResponse(p))
	}
	return &PropertyListResponse{Items: items, Page: PageResponse{Limit: page.Limit, Offset: page.Offset}}
}
