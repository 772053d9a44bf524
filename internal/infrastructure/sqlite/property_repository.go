package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

const propertyColumns = `id, number, name, model_number, serial_number, registered_on, company_name, measurement,
	quantity, unit_price, total_price, property_type, available_quantity, created_at, updated_at`

type propertyRow struct {
	ID                string          `db:"id"`
	Number            string          `db:"number"`
	Name              string          `db:"name"`
	ModelNumber       string          `db:"model_number"`
	SerialNumber      string          `db:"serial_number"`
	RegisteredOn      string          `db:"registered_on"`
	CompanyName       string          `db:"company_name"`
	Measurement       string          `db:"measurement"`
	Quantity          int             `db:"quantity"`
	UnitPrice         decimal.Decimal `db:"unit_price"`
	TotalPrice        decimal.Decimal `db:"total_price"`
	PropertyType      string          `db:"property_type"`
	AvailableQuantity int             `db:"available_quantity"`
	CreatedAt         string          `db:"created_at"`
	UpdatedAt         string          `db:"updated_at"`
}

func (r propertyRow) toEntity() (*entity.Property, error) {
	registeredOn, err := time.Parse(dateLayout, r.RegisteredOn)
	if err != nil {
		return nil, fmt.Errorf("registered_on %q: %w", r.RegisteredOn, err)
	}
	createdAt, err := parseTS(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTS(r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &entity.Property{
		ID:                r.ID,
		Number:            r.Number,
		Name:              r.Name,
		ModelNumber:       r.ModelNumber,
		SerialNumber:      r.SerialNumber,
		RegisteredOn:      registeredOn,
		CompanyName:       r.CompanyName,
		Measurement:       r.Measurement,
		Quantity:          r.Quantity,
		UnitPrice:         r.UnitPrice,
		TotalPrice:        r.TotalPrice,
		Type:              entity.PropertyType(r.PropertyType),
		AvailableQuantity: r.AvailableQuantity,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}, nil
}

// PropertyRepo implementación del puerto PropertyRepository sobre SQLite (usable con db o tx).
type PropertyRepo struct {
	q sqlx.ExtContext
}

// NewPropertyRepository construye el adaptador. Pasar *sqlx.DB o *sqlx.Tx.
func NewPropertyRepository(q sqlx.ExtContext) *PropertyRepo {
	return &PropertyRepo{q: q}
}

// Create persiste una nueva propiedad. ErrDuplicate si el número ya existe.
func (r *PropertyRepo) Create(ctx context.Context, p *entity.Property) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO properties (`+propertyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Number, p.Name, p.ModelNumber, p.SerialNumber, p.RegisteredOn.Format(dateLayout), p.CompanyName,
		p.Measurement, p.Quantity, p.UnitPrice.String(), p.TotalPrice.String(), string(p.Type), p.AvailableQuantity,
		formatTS(p.CreatedAt), formatTS(p.UpdatedAt),
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
	var row propertyRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return row.toEntity()
}

// Update modifica datos descriptivos y precio. total_price se toma de la entidad,
// que el llamador recalcula con la quantity vigente.
func (r *PropertyRepo) Update(ctx context.Context, p *entity.Property) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE properties SET number = ?, name = ?, model_number = ?, serial_number = ?, registered_on = ?,
			company_name = ?, measurement = ?, unit_price = ?, total_price = ?, property_type = ?, updated_at = ?
		WHERE id = ?`,
		p.Number, p.Name, p.ModelNumber, p.SerialNumber, p.RegisteredOn.Format(dateLayout), p.CompanyName,
		p.Measurement, p.UnitPrice.String(), entity.ComputeTotalPrice(p.Quantity, p.UnitPrice).String(),
		string(p.Type), formatTS(p.UpdatedAt), p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update property: %w", err)
	}
	return expectOne(res, domain.ErrNotFound)
}

// Delete elimina la propiedad. ErrNotFound si no existía.
func (r *PropertyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return expectOne(res, domain.ErrNotFound)
}

// List lista propiedades ordenadas por número.
func (r *PropertyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Property, error) {
	var rows []propertyRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+propertyColumns+` FROM properties ORDER BY number LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	list := make([]*entity.Property, 0, len(rows))
	for _, row := range rows {
		p, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

// Count total de propiedades en el catálogo.
func (r *PropertyRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM properties`); err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return n, nil
}

// DecrementAvailable reserva amount en una sola sentencia condicional.
func (r *PropertyRepo) DecrementAvailable(ctx context.Context, id string, amount int) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE properties SET available_quantity = available_quantity - ?, updated_at = ?
		WHERE id = ? AND available_quantity >= ?`, amount, formatTS(time.Now()), id, amount)
	if err != nil {
		return false, fmt.Errorf("decrement available: %w", err)
	}
	return affected(res)
}

// IncrementAvailable devuelve amount sin superar quantity.
func (r *PropertyRepo) IncrementAvailable(ctx context.Context, id string, amount int) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE properties SET available_quantity = MIN(quantity, available_quantity + ?), updated_at = ?
		WHERE id = ?`, amount, formatTS(time.Now()), id)
	if err != nil {
		return false, fmt.Errorf("increment available: %w", err)
	}
	return affected(res)
}

// Resize cambia quantity y desplaza available_quantity en el mismo delta si no queda negativo.
// SQLite no tiene aritmética decimal: total_price se calcula aquí y el UPDATE exige que
// unit_price no haya cambiado desde la lectura.
func (r *PropertyRepo) Resize(ctx context.Context, id string, quantity int) (bool, error) {
	var unitPrice decimal.Decimal
	err := sqlx.GetContext(ctx, r.q, &unitPrice, `SELECT unit_price FROM properties WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resize property: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE properties SET
			available_quantity = available_quantity + (? - quantity),
			quantity = ?,
			total_price = ?,
			updated_at = ?
		WHERE id = ? AND unit_price = ? AND available_quantity + (? - quantity) >= 0`,
		quantity, quantity, entity.ComputeTotalPrice(quantity, unitPrice).String(), formatTS(time.Now()),
		id, unitPrice.String(), quantity)
	if err != nil {
		return false, fmt.Errorf("resize property: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func expectOne(res sql.Result, otherwise error) error {
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return otherwise
	}
	return nil
}
