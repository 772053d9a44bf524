package lifecycle

import (
	"context"
	"fmt"

	"github.com/jhoicas/Propiedades-api/internal/application/dto"
	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

// GetRequest devuelve una solicitud. Un requester solo ve las propias; las ajenas le aparecen como inexistentes.
func (c *Coordinator) GetRequest(ctx context.Context, actor entity.Actor, id string) (*dto.RequestResponse, error) {
	r, err := c.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || !canSee(actor, r.RequesterID) {
		return nil, domain.ErrNotFound
	}
	return dto.NewRequestResponse(r), nil
}

// ListRequests lista solicitudes con filtros. Para un requester el filtro por solicitante se fuerza a sí mismo.
func (c *Coordinator) ListRequests(ctx context.Context, actor entity.Actor, q dto.RequestListQuery) (*dto.RequestListResponse, error) {
	q.DefaultPage()
	filter := repository.RequestFilter{
		Status:      entity.RequestStatus(q.Status),
		PropertyID:  q.PropertyID,
		RequesterID: q.RequesterID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !Allowed(actor.Role, OpViewAll) {
		filter.RequesterID = actor.ID
	}
	list, err := c.requests.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewRequestListResponse(list, q.PageRequest), nil
}

// ListIssuances lista entregas, más recientes primero. Un requester solo ve las suyas.
func (c *Coordinator) ListIssuances(ctx context.Context, actor entity.Actor, page dto.PageRequest) (*dto.IssuanceListResponse, error) {
	page.DefaultPage()
	filter := repository.IssuanceFilter{Limit: page.Limit, Offset: page.Offset}
	if !Allowed(actor.Role, OpViewAll) {
		filter.RequesterID = actor.ID
	}
	list, err := c.issuances.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewIssuanceListResponse(list, page), nil
}

// GetIssuance devuelve una entrega visible para el actor.
func (c *Coordinator) GetIssuance(ctx context.Context, actor entity.Actor, id string) (*dto.IssuanceResponse, error) {
	i, err := c.visibleIssuance(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return dto.NewIssuanceResponse(i), nil
}

// IssuanceReceipt genera el PDF Modelo 22 de una entrega. Devuelve el contenido y un nombre de archivo sugerido.
func (c *Coordinator) IssuanceReceipt(ctx context.Context, actor entity.Actor, id string) ([]byte, string, error) {
	i, err := c.visibleIssuance(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	if c.receipts == nil {
		return nil, "", fmt.Errorf("generador de comprobantes no configurado")
	}
	pdf, err := c.receipts.GenerateIssuanceReceipt(i)
	if err != nil {
		c.log.Error().Str("issuance_id", id).Err(err).Msg("generar comprobante")
		return nil, "", err
	}
	name := "model22-" + i.PropertyNumber + ".pdf"
	if i.Model22Number != "" {
		name = "model22-" + i.Model22Number + ".pdf"
	}
	return pdf, name, nil
}

// DashboardStats lee los contadores persistidos; nunca suma historiales.
func (c *Coordinator) DashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	properties, err := c.properties.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := c.requests.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	issued, err := c.issuances.Count(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byStatus {
		total += n
	}
	return &dto.DashboardStatsDTO{
		TotalProperties:  properties,
		TotalRequests:    total,
		PendingRequests:  byStatus[entity.StatusPending],
		IssuedProperties: issued,
	}, nil
}

func (c *Coordinator) visibleIssuance(ctx context.Context, actor entity.Actor, id string) (*entity.Issuance, error) {
	i, err := c.issuances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i == nil || !canSee(actor, i.RequesterID) {
		return nil, domain.ErrNotFound
	}
	return i, nil
}

func canSee(actor entity.Actor, ownerID string) bool {
	return Allowed(actor.Role, OpViewAll) || actor.ID == ownerID
}
