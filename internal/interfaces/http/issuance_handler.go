package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Propiedades-api/internal/application/dto"
	"github.com/jhoicas/Propiedades-api/internal/application/lifecycle"
)

// IssuanceHandler registra entregas y sirve el comprobante Modelo 22.
type IssuanceHandler struct {
	coord *lifecycle.Coordinator
}

// NewIssuanceHandler construye el handler.
func NewIssuanceHandler(coord *lifecycle.Coordinator) *IssuanceHandler {
	return &IssuanceHandler{coord: coord}
}

// Issue godoc
// @Summary      Registrar entrega
// @Tags         issuances
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueRequest  true  "request_id, model22_number"
// @Success      201   {object}  dto.IssuanceResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/issuances [post]
func (h *IssuanceHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.Issue(c.UserContext(), actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar entregas
// @Tags         issuances
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.IssuanceListResponse
// @Router       /api/issuances [get]
func (h *IssuanceHandler) List(c *fiber.Ctx) error {
	out, err := h.coord.ListIssuances(c.UserContext(), actor(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrega
// @Tags         issuances
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.IssuanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/issuances/{id} [get]
func (h *IssuanceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.coord.GetIssuance(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante Modelo 22 (PDF)
// @Tags         issuances
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/issuances/{id}/receipt [get]
func (h *IssuanceHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.coord.IssuanceReceipt(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
