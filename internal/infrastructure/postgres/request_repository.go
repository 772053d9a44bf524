package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestColumns = `id, requester_id, requester_name, requester_department, property_id, property_number,
	property_name, measurement, requested_quantity, status, approved_quantity, reason, approver_id, issuer_id,
	created_at, updated_at, issued_at`

// RequestRepo implementación del puerto RequestRepository sobre PostgreSQL (usable con pool o tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

// Create persiste una solicitud nueva con su estado aplanado.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	rec := req.Record()
	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.RequesterID, req.RequesterName, req.RequesterDepartment, req.PropertyID, req.PropertyNumber,
		req.PropertyName, req.Measurement, req.RequestedQuantity, string(rec.Status), rec.ApprovedQuantity,
		rec.Reason, rec.ApproverID, rec.IssuerID, req.CreatedAt, req.UpdatedAt, rec.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID. nil, nil si no existe.
func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	row := r.q.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

// List solicitudes más recientes primero, con filtros opcionales.
func (r *RequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.Request, error) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.PropertyID != "" {
		add("property_id = $%d", f.PropertyID)
	}
	if f.RequesterID != "" {
		add("requester_id = $%d", f.RequesterID)
	}
	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// UpdateIfStatus escribe el nuevo estado solo si el persistido sigue siendo expected.
func (r *RequestRepo) UpdateIfStatus(ctx context.Context, req *entity.Request, expected entity.RequestStatus) (bool, error) {
	rec := req.Record()
	tag, err := r.q.Exec(ctx, `
		UPDATE requests SET status = $3, approved_quantity = $4, reason = $5, approver_id = $6, issuer_id = $7,
			updated_at = $8, issued_at = $9
		WHERE id = $1 AND status = $2`,
		req.ID, string(expected), string(rec.Status), rec.ApprovedQuantity, rec.Reason, rec.ApproverID, rec.IssuerID,
		req.UpdatedAt, rec.IssuedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update request status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountByStatus cantidad de solicitudes por estado.
func (r *RequestRepo) CountByStatus(ctx context.Context) (map[entity.RequestStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.RequestStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[entity.RequestStatus(status)] = n
	}
	return out, rows.Err()
}

// CountOpen solicitudes de la propiedad que aún pueden reservar o consumir stock.
func (r *RequestRepo) CountOpen(ctx context.Context, propertyID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM requests WHERE property_id = $1 AND status IN ('pending', 'approved', 'adjusted')`,
		propertyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open requests: %w", err)
	}
	return n, nil
}

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var req entity.Request
	var rec entity.RequestRecord
	var status string
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.RequesterName, &req.RequesterDepartment, &req.PropertyID, &req.PropertyNumber,
		&req.PropertyName, &req.Measurement, &req.RequestedQuantity, &status, &rec.ApprovedQuantity, &rec.Reason,
		&rec.ApproverID, &rec.IssuerID, &req.CreatedAt, &req.UpdatedAt, &rec.IssuedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = entity.RequestStatus(status)
	state, err := entity.RestoreState(req.RequestedQuantity, rec)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.ID, err)
	}
	req.State = state
	return &req, nil
}
