package repository

import (
	"context"

	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
)

// PropertyRepository define el puerto de persistencia para el catálogo de propiedades.
// Las operaciones sobre available_quantity son actualizaciones condicionales atómicas:
// devuelven false (sin error) cuando la condición no se cumple o la fila no existe.
type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	// Update modifica los datos descriptivos y el precio; no toca quantity ni available_quantity.
	Update(ctx context.Context, property *entity.Property) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Property, error)
	Count(ctx context.Context) (int, error)

	// DecrementAvailable resta amount solo si available_quantity >= amount.
	DecrementAvailable(ctx context.Context, id string, amount int) (bool, error)
	// IncrementAvailable suma amount sin superar quantity.
	IncrementAvailable(ctx context.Context, id string, amount int) (bool, error)
	// Resize cambia quantity desplazando available_quantity en el mismo delta,
	// solo si el resultado no queda negativo.
	Resize(ctx context.Context, id string, quantity int) (bool, error)
}
