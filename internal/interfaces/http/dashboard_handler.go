package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Propiedades-api/internal/application/lifecycle"
)

// DashboardHandler expone los contadores del panel principal.
type DashboardHandler struct {
	coord *lifecycle.Coordinator
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(coord *lifecycle.Coordinator) *DashboardHandler {
	return &DashboardHandler{coord: coord}
}

// Stats godoc
// @Summary      Contadores del panel
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	out, err := h.coord.DashboardStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
