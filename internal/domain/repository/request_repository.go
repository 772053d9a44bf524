package repository

import (
	"context"

	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
)

// RequestFilter filtros opcionales para listar solicitudes (vacío = sin filtro).
type RequestFilter struct {
	Status      entity.RequestStatus
	PropertyID  string
	RequesterID string
	Limit       int
	Offset      int
}

// RequestRepository define el puerto de persistencia para solicitudes.
type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, error)
	// UpdateIfStatus persiste el nuevo estado solo si el estado actual es expected (compare-and-set).
	UpdateIfStatus(ctx context.Context, request *entity.Request, expected entity.RequestStatus) (bool, error)
	CountByStatus(ctx context.Context) (map[entity.RequestStatus]int, error)
	// CountOpen cuenta las solicitudes pending, approved o adjusted de una propiedad.
	CountOpen(ctx context.Context, propertyID string) (int, error)
}
