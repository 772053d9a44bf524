package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestColumns = `id, requester_id, requester_name, requester_department, property_id, property_number,
	property_name, measurement, requested_quantity, status, approved_quantity, reason, approver_id, issuer_id,
	created_at, updated_at, issued_at`

type requestRow struct {
	ID                  string         `db:"id"`
	RequesterID         string         `db:"requester_id"`
	RequesterName       string         `db:"requester_name"`
	RequesterDepartment string         `db:"requester_department"`
	PropertyID          string         `db:"property_id"`
	PropertyNumber      string         `db:"property_number"`
	PropertyName        string         `db:"property_name"`
	Measurement         string         `db:"measurement"`
	RequestedQuantity   int            `db:"requested_quantity"`
	Status              string         `db:"status"`
	ApprovedQuantity    sql.NullInt64  `db:"approved_quantity"`
	Reason              sql.NullString `db:"reason"`
	ApproverID          sql.NullString `db:"approver_id"`
	IssuerID            sql.NullString `db:"issuer_id"`
	CreatedAt           string         `db:"created_at"`
	UpdatedAt           string         `db:"updated_at"`
	IssuedAt            sql.NullString `db:"issued_at"`
}

func (r requestRow) toEntity() (*entity.Request, error) {
	rec := entity.RequestRecord{Status: entity.RequestStatus(r.Status)}
	if r.ApprovedQuantity.Valid {
		q := int(r.ApprovedQuantity.Int64)
		rec.ApprovedQuantity = &q
	}
	rec.Reason = nullString(r.Reason)
	rec.ApproverID = nullString(r.ApproverID)
	rec.IssuerID = nullString(r.IssuerID)
	if r.IssuedAt.Valid {
		t, err := parseTS(r.IssuedAt.String)
		if err != nil {
			return nil, err
		}
		rec.IssuedAt = &t
	}
	state, err := entity.RestoreState(r.RequestedQuantity, rec)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", r.ID, err)
	}
	createdAt, err := parseTS(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTS(r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &entity.Request{
		ID:                  r.ID,
		RequesterID:         r.RequesterID,
		RequesterName:       r.RequesterName,
		RequesterDepartment: r.RequesterDepartment,
		PropertyID:          r.PropertyID,
		PropertyNumber:      r.PropertyNumber,
		PropertyName:        r.PropertyName,
		Measurement:         r.Measurement,
		RequestedQuantity:   r.RequestedQuantity,
		State:               state,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}, nil
}

// RequestRepo implementación del puerto RequestRepository sobre SQLite (usable con db o tx).
type RequestRepo struct {
	q sqlx.ExtContext
}

// NewRequestRepository construye el adaptador. Pasar *sqlx.DB o *sqlx.Tx.
func NewRequestRepository(q sqlx.ExtContext) *RequestRepo {
	return &RequestRepo{q: q}
}

// Create persiste una solicitud nueva con su estado aplanado.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	rec := req.Record()
	_, err := r.q.ExecContext(ctx, `INSERT INTO requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.RequesterID, req.RequesterName, req.RequesterDepartment, req.PropertyID, req.PropertyNumber,
		req.PropertyName, req.Measurement, req.RequestedQuantity, string(rec.Status), rec.ApprovedQuantity,
		rec.Reason, rec.ApproverID, rec.IssuerID, formatTS(req.CreatedAt), formatTS(req.UpdatedAt), nullTS(rec.IssuedAt),
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID. nil, nil si no existe.
func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	var row requestRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+requestColumns+` FROM requests WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return row.toEntity()
}

// List solicitudes más recientes primero, con filtros opcionales.
func (r *RequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.Request, error) {
	var conds []string
	var args []any
	if f.Status != "" {
		conds, args = append(conds, "status = ?"), append(args, string(f.Status))
	}
	if f.PropertyID != "" {
		conds, args = append(conds, "property_id = ?"), append(args, f.PropertyID)
	}
	if f.RequesterID != "" {
		conds, args = append(conds, "requester_id = ?"), append(args, f.RequesterID)
	}
	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	var rows []requestRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	list := make([]*entity.Request, 0, len(rows))
	for _, row := range rows {
		req, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, req)
	}
	return list, nil
}

// UpdateIfStatus escribe el nuevo estado solo si el persistido sigue siendo expected.
func (r *RequestRepo) UpdateIfStatus(ctx context.Context, req *entity.Request, expected entity.RequestStatus) (bool, error) {
	rec := req.Record()
	res, err := r.q.ExecContext(ctx, `
		UPDATE requests SET status = ?, approved_quantity = ?, reason = ?, approver_id = ?, issuer_id = ?,
			updated_at = ?, issued_at = ?
		WHERE id = ? AND status = ?`,
		string(rec.Status), rec.ApprovedQuantity, rec.Reason, rec.ApproverID, rec.IssuerID,
		formatTS(req.UpdatedAt), nullTS(rec.IssuedAt), req.ID, string(expected),
	)
	if err != nil {
		return false, fmt.Errorf("update request status: %w", err)
	}
	return affected(res)
}

// CountByStatus cantidad de solicitudes por estado.
func (r *RequestRepo) CountByStatus(ctx context.Context) (map[entity.RequestStatus]int, error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT status, COUNT(*) AS n FROM requests GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}
	out := make(map[entity.RequestStatus]int, len(rows))
	for _, row := range rows {
		out[entity.RequestStatus(row.Status)] = row.N
	}
	return out, nil
}

// CountOpen solicitudes de la propiedad que aún pueden reservar o consumir stock.
func (r *RequestRepo) CountOpen(ctx context.Context, propertyID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		`SELECT COUNT(*) FROM requests WHERE property_id = ? AND status IN ('pending', 'approved', 'adjusted')`, propertyID)
	if err != nil {
		return 0, fmt.Errorf("count open requests: %w", err)
	}
	return n, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTS(*t)
}
