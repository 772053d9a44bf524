package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Propiedades-api/internal/application/auth"
	"github.com/jhoicas/Propiedades-api/internal/application/lifecycle"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Coordinator *lifecycle.Coordinator
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/profile", authHandler.Profile)

	// Catálogo: lectura para todos, escritura para oficina de propiedades y almacén
	catalogAdmin := RequireRole(entity.RoleApprover, entity.RoleIssuer)
	properties := protected.Group("/properties")
	propertyHandler := NewPropertyHandler(deps.Coordinator)
	properties.Get("/", propertyHandler.List)
	properties.Get("/:id", propertyHandler.GetByID)
	properties.Post("/", catalogAdmin, propertyHandler.Create)
	properties.Put("/:id", catalogAdmin, propertyHandler.Update)
	properties.Delete("/:id", catalogAdmin, propertyHandler.Delete)

	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.Coordinator)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Post("/", RequireRole(entity.RoleRequester), requestHandler.Submit)
	decide := RequireRole(entity.RoleApprover)
	requests.Post("/:id/approve", decide, requestHandler.Approve)
	requests.Post("/:id/adjust", decide, requestHandler.Adjust)
	requests.Post("/:id/reject", decide, requestHandler.Reject)

	issuances := protected.Group("/issuances")
	issuanceHandler := NewIssuanceHandler(deps.Coordinator)
	issuances.Get("/", issuanceHandler.List)
	issuances.Get("/:id", issuanceHandler.GetByID)
	issuances.Get("/:id/receipt", issuanceHandler.Receipt)
	issuances.Post("/", RequireRole(entity.RoleIssuer), issuanceHandler.Issue)

	dashboardHandler := NewDashboardHandler(deps.Coordinator)
	protected.Get("/dashboard/stats", dashboardHandler.Stats)
}
