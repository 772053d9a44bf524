package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

var _ repository.IssuanceRepository = (*IssuanceRepo)(nil)

const issuanceColumns = `id, request_id, property_id, requester_id, requester_name, requester_department,
	property_number, property_name, model_number, serial_number, measurement, issued_quantity,
	issuer_id, issuer_name, is_permanent, model22_number, issued_at`

type issuanceRow struct {
	ID                  string `db:"id"`
	RequestID           string `db:"request_id"`
	PropertyID          string `db:"property_id"`
	RequesterID         string `db:"requester_id"`
	RequesterName       string `db:"requester_name"`
	RequesterDepartment string `db:"requester_department"`
	PropertyNumber      string `db:"property_number"`
	PropertyName        string `db:"property_name"`
	ModelNumber         string `db:"model_number"`
	SerialNumber        string `db:"serial_number"`
	Measurement         string `db:"measurement"`
	IssuedQuantity      int    `db:"issued_quantity"`
	IssuerID            string `db:"issuer_id"`
	IssuerName          string `db:"issuer_name"`
	IsPermanent         bool   `db:"is_permanent"`
	Model22Number       string `db:"model22_number"`
	IssuedAt            string `db:"issued_at"`
}

func (r issuanceRow) toEntity() (*entity.Issuance, error) {
	issuedAt, err := parseTS(r.IssuedAt)
	if err != nil {
		return nil, err
	}
	return &entity.Issuance{
		ID:                  r.ID,
		RequestID:           r.RequestID,
		PropertyID:          r.PropertyID,
		RequesterID:         r.RequesterID,
		RequesterName:       r.RequesterName,
		RequesterDepartment: r.RequesterDepartment,
		PropertyNumber:      r.PropertyNumber,
		PropertyName:        r.PropertyName,
		ModelNumber:         r.ModelNumber,
		SerialNumber:        r.SerialNumber,
		Measurement:         r.Measurement,
		IssuedQuantity:      r.IssuedQuantity,
		IssuerID:            r.IssuerID,
		IssuerName:          r.IssuerName,
		IsPermanent:         r.IsPermanent,
		Model22Number:       r.Model22Number,
		IssuedAt:            issuedAt,
	}, nil
}

// IssuanceRepo implementación del puerto IssuanceRepository sobre SQLite. Solo inserta y lee.
type IssuanceRepo struct {
	q sqlx.ExtContext
}

// NewIssuanceRepository construye el adaptador. Pasar *sqlx.DB o *sqlx.Tx.
func NewIssuanceRepository(q sqlx.ExtContext) *IssuanceRepo {
	return &IssuanceRepo{q: q}
}

// Create inserta la entrega. El índice único sobre request_id la hace idempotente por solicitud.
func (r *IssuanceRepo) Create(ctx context.Context, i *entity.Issuance) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO issuances (`+issuanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.RequestID, i.PropertyID, i.RequesterID, i.RequesterName, i.RequesterDepartment,
		i.PropertyNumber, i.PropertyName, i.ModelNumber, i.SerialNumber, i.Measurement, i.IssuedQuantity,
		i.IssuerID, i.IssuerName, i.IsPermanent, i.Model22Number, formatTS(i.IssuedAt),
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
	return r.getOne(ctx, `SELECT `+issuanceColumns+` FROM issuances WHERE id = ?`, id)
}

// GetByRequestID obtiene la entrega de una solicitud. nil, nil si no tiene.
func (r *IssuanceRepo) GetByRequestID(ctx context.Context, requestID string) (*entity.Issuance, error) {
	return r.getOne(ctx, `SELECT `+issuanceColumns+` FROM issuances WHERE request_id = ?`, requestID)
}

// List entregas más recientes primero.
func (r *IssuanceRepo) List(ctx context.Context, f repository.IssuanceFilter) ([]*entity.Issuance, error) {
	query := `SELECT ` + issuanceColumns + ` FROM issuances`
	var args []any
	if f.RequesterID != "" {
		query += ` WHERE requester_id = ?`
		args = append(args, f.RequesterID)
	}
	query += ` ORDER BY issued_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	var rows []issuanceRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list issuances: %w", err)
	}
	list := make([]*entity.Issuance, 0, len(rows))
	for _, row := range rows {
		i, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, nil
}

// Count total de entregas registradas.
func (r *IssuanceRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM issuances`); err != nil {
		return 0, fmt.Errorf("count issuances: %w", err)
	}
	return n, nil
}

func (r *IssuanceRepo) getOne(ctx context.Context, query, arg string) (*entity.Issuance, error) {
	var row issuanceRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issuance: %w", err)
	}
	return row.toEntity()
}
