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

var _ repository.IssuanceRepository = (*IssuanceRepo)(nil)

const issuanceColumns = `id, request_id, property_id, requester_id, requester_name, requester_department,
	property_number, property_name, model_number, serial_number, measurement, issued_quantity,
	issuer_id, issuer_name, is_permanent, model22_number, issued_at`

// IssuanceRepo implementación del puerto IssuanceRepository sobre PostgreSQL. Solo inserta y lee.
type IssuanceRepo struct {
	q Querier
}

// NewIssuanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIssuanceRepository(q Querier) *IssuanceRepo {
	return &IssuanceRepo{q: q}
}

// Create inserta la entrega. El índice único sobre request_id la hace idempotente por solicitud.
func (r *IssuanceRepo) Create(ctx context.Context, i *entity.Issuance) error {
	query := `
		INSERT INTO issuances (` + issuanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.RequestID, i.PropertyID, i.RequesterID, i.RequesterName, i.RequesterDepartment,
		i.PropertyNumber, i.PropertyName, i.ModelNumber, i.SerialNumber, i.Measurement, i.IssuedQuantity,
		i.IssuerID, i.IssuerName, i.IsPermanent, i.Model22Number, i.IssuedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyIssued
		}
		return fmt.Errorf("insert issuance: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID. nil, nil si no existe.
func (r *IssuanceRepo) GetByID(ctx context.Context, id string) (*entity.Issuance, error) {
	return r.getOne(ctx, `SELECT `+issuanceColumns+` FROM issuances WHERE id = $1`, id)
}

// GetByRequestID obtiene la entrega de una solicitud. nil, nil si no tiene.
func (r *IssuanceRepo) GetByRequestID(ctx context.Context, requestID string) (*entity.Issuance, error) {
	return r.getOne(ctx, `SELECT `+issuanceColumns+` FROM issuances WHERE request_id = $1`, requestID)
}

// List entregas más recientes primero.
func (r *IssuanceRepo) List(ctx context.Context, f repository.IssuanceFilter) ([]*entity.Issuance, error) {
	query := `SELECT ` + issuanceColumns + ` FROM issuances`
	args := []any{f.Limit, f.Offset}
	if f.RequesterID != "" {
		query += ` WHERE requester_id = $3`
		args = append(args, f.RequesterID)
	}
	query += ` ORDER BY issued_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list issuances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Issuance
	for rows.Next() {
		i, err := scanIssuance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issuance: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Count total de entregas registradas.
func (r *IssuanceRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM issuances`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count issuances: %w", err)
	}
	return n, nil
}

func (r *IssuanceRepo) getOne(ctx context.Context, query, arg string) (*entity.Issuance, error) {
	i, err := scanIssuance(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issuance: %w", err)
	}
	return i, nil
}

func scanIssuance(row pgx.Row) (*entity.Issuance, error) {
	var i entity.Issuance
	err := row.Scan(
		&i.ID, &i.RequestID, &i.PropertyID, &i.RequesterID, &i.RequesterName, &i.RequesterDepartment,
		&i.PropertyNumber, &i.PropertyName, &i.ModelNumber, &i.SerialNumber, &i.Measurement, &i.IssuedQuantity,
		&i.IssuerID, &i.IssuerName, &i.IsPermanent, &i.Model22Number, &i.IssuedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
