package repository

import (
	"context"

	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
)

// IssuanceFilter filtros para listar entregas (RequesterID vacío = todas).
type IssuanceFilter struct {
	RequesterID string
	Limit       int
	Offset      int
}

// IssuanceRepository puerto de persistencia para entregas. Solo inserción y lectura.
type IssuanceRepository interface {
	// Create devuelve domain.ErrAlreadyIssued si ya existe una entrega para la misma solicitud.
	Create(ctx context.Context, issuance *entity.Issuance) error
	GetByID(ctx context.Context, id string) (*entity.Issuance, error)
	GetByRequestID(ctx context.Context, requestID string) (*entity.Issuance, error)
	List(ctx context.Context, filter IssuanceFilter) ([]*entity.Issuance, error)
	Count(ctx context.Context) (int, error)
}
