package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

const propertyColumns = `id, number, name, model_number, serial_number, registered_on, company_name, measurement,
	quantity, unit_price, total_price, property_type, available_quantity, created_at, updated_at`

// PropertyRepo implementación del puerto PropertyRepository sobre PostgreSQL (usable con pool o tx).
type PropertyRepo struct {
	q Querier
}

// NewPropertyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPropertyRepository(q Querier) *PropertyRepo {
	return &PropertyRepo{q: q}
}

// Create persiste una nueva propiedad. ErrDuplicate si el número ya existe.
func (r *PropertyRepo) Create(ctx context.Context, p *entity.Property) error {
	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Number, p.Name, p.ModelNumber, p.SerialNumber, p.RegisteredOn, p.CompanyName, p.Measurement,
		p.Quantity, p.UnitPrice, p.TotalPrice, string(p.Type), p.AvailableQuantity, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// GetByID obtiene una propiedad por ID. nil, nil si no existe.
func (r *PropertyRepo) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	row := r.q.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// Update modifica datos descriptivos y precio. total_price se recalcula con la quantity persistida.
func (r *PropertyRepo) Update(ctx context.Context, p *entity.Property) error {
	query := `
		UPDATE properties SET number = $2, name = $3, model_number = $4, serial_number = $5, registered_on = $6,
			company_name = $7, measurement = $8, unit_price = $9, total_price = quantity * $9,
			property_type = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Number, p.Name, p.ModelNumber, p.SerialNumber, p.RegisteredOn,
		p.CompanyName, p.Measurement, p.UnitPrice, string(p.Type), p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la propiedad. ErrNotFound si no existía.
func (r *PropertyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista propiedades ordenadas por número.
func (r *PropertyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Property, error) {
	rows, err := r.q.Query(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY number LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count total de propiedades en el catálogo.
func (r *PropertyRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return n, nil
}

// DecrementAvailable reserva amount en una sola sentencia; la fila queda bloqueada hasta el fin de la tx.
func (r *PropertyRepo) DecrementAvailable(ctx context.Context, id string, amount int) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE properties SET available_quantity = available_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND available_quantity >= $2`, id, amount)
	if err != nil {
		return false, fmt.Errorf("decrement available: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementAvailable devuelve amount sin superar quantity.
func (r *PropertyRepo) IncrementAvailable(ctx context.Context, id string, amount int) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE properties SET available_quantity = LEAST(quantity, available_quantity + $2), updated_at = NOW()
		WHERE id = $1`, id, amount)
	if err != nil {
		return false, fmt.Errorf("increment available: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Resize cambia quantity y desplaza available_quantity en el mismo delta si no queda negativo.
func (r *PropertyRepo) Resize(ctx context.Context, id string, quantity int) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE properties SET
			available_quantity = available_quantity + ($2 - quantity),
			quantity = $2,
			total_price = $2 * unit_price,
			updated_at = NOW()
		WHERE id = $1 AND available_quantity + ($2 - quantity) >= 0`, id, quantity)
	if err != nil {
		return false, fmt.Errorf("resize property: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanProperty(row pgx.Row) (*entity.Property, error) {
	var p entity.Property
	var propertyType string
	err := row.Scan(
		&p.ID, &p.Number, &p.Name, &p.ModelNumber, &p.SerialNumber, &p.RegisteredOn, &p.CompanyName, &p.Measurement,
		&p.Quantity, &p.UnitPrice, &p.TotalPrice, &propertyType, &p.AvailableQuantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Type = entity.PropertyType(propertyType)
	return &p, nil
}
