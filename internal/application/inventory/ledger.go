package inventory

import (
	"context"

	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

// Ledger es el único escritor de available_quantity. Cada operación es una sola
// actualización condicional en la fila de la propiedad, por lo que dos reservas
// concurrentes sobre la misma propiedad quedan serializadas por la base de datos.
//
// El Ledger no programa compensaciones: si un paso posterior falla, el llamador
// debe invocar Release explícitamente (o abortar la transacción que lo envuelve).
type Ledger struct {
	properties repository.PropertyRepository
}

// NewLedger construye el libro sobre un repositorio (del pool o atado a una tx).
func NewLedger(properties repository.PropertyRepository) *Ledger {
	return &Ledger{properties: properties}
}

// Reserve resta amount de available_quantity.
// ErrInvalidQuantity si amount <= 0, ErrNotFound si la propiedad no existe,
// ErrInsufficientStock si amount > available_quantity.
func (l *Ledger) Reserve(ctx context.Context, propertyID string, amount int) error {
	if amount <= 0 {
		return domain.ErrInvalidQuantity
	}
	ok, err := l.properties.DecrementAvailable(ctx, propertyID, amount)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return l.missingOr(ctx, propertyID, domain.ErrInsufficientStock)
}

// Release devuelve amount a available_quantity sin superar quantity. Solo para compensación.
func (l *Ledger) Release(ctx context.Context, propertyID string, amount int) error {
	if amount <= 0 {
		return domain.ErrInvalidQuantity
	}
	ok, err := l.properties.IncrementAvailable(ctx, propertyID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Available lectura puntual de available_quantity, sin bloqueo.
func (l *Ledger) Available(ctx context.Context, propertyID string) (int, error) {
	p, err := l.properties.GetByID(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, domain.ErrNotFound
	}
	return p.AvailableQuantity, nil
}

// Resize cambia el total registrado de una propiedad moviendo available_quantity en el mismo delta.
// ErrInvalidQuantity si quantity < 1 o si quedaría por debajo de lo ya reservado.
func (l *Ledger) Resize(ctx context.Context, propertyID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	ok, err := l.properties.Resize(ctx, propertyID, quantity)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return l.missingOr(ctx, propertyID, domain.ErrInvalidQuantity)
}

// missingOr distingue "no existe" de "la condición no se cumplió" tras un update sin filas afectadas.
func (l *Ledger) missingOr(ctx context.Context, propertyID string, otherwise error) error {
	p, err := l.properties.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return otherwise
}
