package lifecycle

import (
	"context"

	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error la transacción se descarta completa: estado de la solicitud,
// inventario y entrega se confirman juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		properties repository.PropertyRepository,
		requests repository.RequestRepository,
		issuances repository.IssuanceRepository,
	) error) error
}

// ReceiptGenerator produce el comprobante imprimible (Modelo 22) de una entrega.
type ReceiptGenerator interface {
	GenerateIssuanceReceipt(issuance *entity.Issuance) ([]byte, error)
}
