package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyType clasifica una propiedad según su permanencia en el inventario.
type PropertyType string

// Tipos de propiedad válidos.
const (
	PropertyPermanent          PropertyType = "permanent"
	PropertyTemporary          PropertyType = "temporary"
	PropertyPermanentTemporary PropertyType = "permanent-temporary"
)

// Valid indica si el tipo pertenece al catálogo cerrado.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyPermanent, PropertyTemporary, PropertyPermanentTemporary:
		return true
	}
	return false
}

// IsPermanent: las propiedades mixtas (permanent-temporary) se entregan como permanentes.
func (t PropertyType) IsPermanent() bool {
	return t == PropertyPermanent || t == PropertyPermanentTemporary
}

// Property representa un ítem del catálogo de la institución (equipo o consumible).
// AvailableQuantity solo lo modifica el libro de inventario (inventory.Ledger).
type Property struct {
	ID                string
	Number            string // número legible, único
	Name              string
	ModelNumber       string
	SerialNumber      string
	RegisteredOn      time.Time // fecha de registro (solo fecha)
	CompanyName       string    // proveedor
	Measurement       string    // unidad de medida
	Quantity          int       // total registrado
	UnitPrice         decimal.Decimal
	TotalPrice        decimal.Decimal // Quantity * UnitPrice
	Type              PropertyType
	AvailableQuantity int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Reserved devuelve las unidades comprometidas (reservadas o entregadas).
func (p *Property) Reserved() int {
	return p.Quantity - p.AvailableQuantity
}

// ComputeTotalPrice calcula Quantity * UnitPrice.
func ComputeTotalPrice(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
