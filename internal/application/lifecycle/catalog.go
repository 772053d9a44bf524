package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Propiedades-api/internal/application/dto"
	"github.com/jhoicas/Propiedades-api/internal/application/inventory"
	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
)

// CreateProperty registra una propiedad con available_quantity = quantity.
func (c *Coordinator) CreateProperty(ctx context.Context, actor entity.Actor, in dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	if err := c.authorizeStored(ctx, actor, OpManageCatalog); err != nil {
		return nil, c.fail(OpManageCatalog, "", err)
	}
	now := c.now()
	registeredOn, err := parseDate(in.Date, now)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Number) == "" || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Measurement) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitPrice.IsNegative() || !entity.PropertyType(in.PropertyType).Valid() {
		return nil, domain.ErrInvalidInput
	}
	p := &entity.Property{
		ID:                uuid.New().String(),
		Number:            strings.TrimSpace(in.Number),
		Name:              strings.TrimSpace(in.Name),
		ModelNumber:       in.ModelNumber,
		SerialNumber:      in.SerialNumber,
		RegisteredOn:      registeredOn,
		CompanyName:       in.CompanyName,
		Measurement:       strings.TrimSpace(in.Measurement),
		Quantity:          in.Quantity,
		UnitPrice:         in.UnitPrice,
		TotalPrice:        entity.ComputeTotalPrice(in.Quantity, in.UnitPrice),
		Type:              entity.PropertyType(in.PropertyType),
		AvailableQuantity: in.Quantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := c.properties.Create(ctx, p); err != nil {
		return nil, c.fail(OpManageCatalog, "", err)
	}
	c.log.Info().Str("property_id", p.ID).Str("number", p.Number).Int("quantity", p.Quantity).Msg("propiedad creada")
	return dto.NewPropertyResponse(p), nil
}

// UpdateProperty edita una propiedad. Un cambio de quantity pasa por el libro de inventario
// (Resize) para que lo reservado siga cubierto; el resto de campos se actualiza en la misma tx.
// ErrInvalidQuantity si la nueva quantity queda por debajo de lo ya reservado.
func (c *Coordinator) UpdateProperty(ctx context.Context, actor entity.Actor, id string, in dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	if err := c.authorizeStored(ctx, actor, OpManageCatalog); err != nil {
		return nil, c.fail(OpManageCatalog, "", err)
	}
	var updated *entity.Property
	err := c.tx.Run(ctx, func(properties repository.PropertyRepository, _ repository.RequestRepository, _ repository.IssuanceRepository) error {
		if in.Quantity != nil {
			if err := inventory.NewLedger(properties).Resize(ctx, id, *in.Quantity); err != nil {
				return err
			}
		}
		// Releer tras Resize: quantity y available_quantity ya son los nuevos.
		p, err := properties.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := applyPropertyChanges(p, in); err != nil {
			return err
		}
		p.UpdatedAt = c.now()
		if err := properties.Update(ctx, p); err != nil {
			return err
		}
		updated, err = properties.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, c.fail(OpManageCatalog, "", err)
	}
	c.log.Info().Str("property_id", id).Int("quantity", updated.Quantity).Int("available", updated.AvailableQuantity).Msg("propiedad actualizada")
	return dto.NewPropertyResponse(updated), nil
}

// DeleteProperty elimina una propiedad del catálogo. Solicitudes cerradas y entregas conservan
// sus copias. ErrInvalidTransition mientras alguna solicitud siga pending, approved o adjusted.
func (c *Coordinator) DeleteProperty(ctx context.Context, actor entity.Actor, id string) error {
	if err := c.authorizeStored(ctx, actor, OpManageCatalog); err != nil {
		return c.fail(OpManageCatalog, "", err)
	}
	err := c.tx.Run(ctx, func(properties repository.PropertyRepository, reqs repository.RequestRepository, _ repository.IssuanceRepository) error {
		p, err := properties.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		// Resize a la misma quantity bloquea la fila: una aprobación concurrente
		// termina antes de contar las solicitudes abiertas.
		if _, err := properties.Resize(ctx, id, p.Quantity); err != nil {
			return err
		}
		open, err := reqs.CountOpen(ctx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrInvalidTransition
		}
		return properties.Delete(ctx, id)
	})
	if err != nil {
		return c.fail(OpManageCatalog, "", err)
	}
	c.log.Info().Str("property_id", id).Msg("propiedad eliminada")
	return nil
}

// GetProperty cualquier rol autenticado puede consultar el catálogo.
func (c *Coordinator) GetProperty(ctx context.Context, id string) (*dto.PropertyResponse, error) {
	p, err := c.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewPropertyResponse(p), nil
}

// ListProperties lista el catálogo paginado.
func (c *Coordinator) ListProperties(ctx context.Context, page dto.PageRequest) (*dto.PropertyListResponse, error) {
	page.DefaultPage()
	list, err := c.properties.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := c.properties.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := dto.NewPropertyListResponse(list, page)
	out.Page.Total = total
	return out, nil
}

// applyPropertyChanges aplica los campos presentes salvo Quantity, que persiste Resize.
func applyPropertyChanges(p *entity.Property, in dto.UpdatePropertyRequest) error {
	if in.Number != nil {
		if strings.TrimSpace(*in.Number) == "" {
			return domain.ErrInvalidInput
		}
		p.Number = strings.TrimSpace(*in.Number)
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return domain.ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.ModelNumber != nil {
		p.ModelNumber = *in.ModelNumber
	}
	if in.SerialNumber != nil {
		p.SerialNumber = *in.SerialNumber
	}
	if in.Date != nil {
		d, err := parseDate(*in.Date, p.RegisteredOn)
		if err != nil {
			return err
		}
		p.RegisteredOn = d
	}
	if in.CompanyName != nil {
		p.CompanyName = *in.CompanyName
	}
	if in.Measurement != nil {
		if strings.TrimSpace(*in.Measurement) == "" {
			return domain.ErrInvalidInput
		}
		p.Measurement = strings.TrimSpace(*in.Measurement)
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
		p.UnitPrice = *in.UnitPrice
	}
	if in.PropertyType != nil {
		t := entity.PropertyType(*in.PropertyType)
		if !t.Valid() {
			return domain.ErrInvalidInput
		}
		p.Type = t
	}
	p.TotalPrice = entity.ComputeTotalPrice(p.Quantity, p.UnitPrice)
	return nil
}

func parseDate(s string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		y, m, d := def.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return t, nil
}

