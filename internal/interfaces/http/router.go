package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
	"github.com/jhoicas/inventario-unidades/internal/application/usecase"
)

// StockManagerRoles roles que pueden cambiar el stock agregado.
var StockManagerRoles = []string{"admin", "bodeguero"}

// HealthCheck comprueba una dependencia externa (base de datos, Redis).
type HealthCheck func(ctx context.Context) error

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	UnitUC         *inventory.UnitUseCase
	StockUC        *inventory.StockUseCase
	QueryUC        *inventory.QueryUseCase
	JWTSecret      string
	DefaultCompany string
	AppName        string
	Log            zerolog.Logger
	HealthChecks   map[string]HealthCheck
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Log))
	app.Get("/health", healthHandler(deps.AppName, deps.HealthChecks))

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), DefaultCompany(deps.DefaultCompany))

	query := NewQueryHandler(deps.QueryUC)
	api.Get("/locations", query.Locations)
	api.Get("/employees", query.Employees)
	api.Get("/movements", query.Movements)
	api.Get("/stock-history", query.StockHistory)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	// Antes de /:id para que "low-stock" no se tome como ID.
	products.Get("/low-stock", query.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	stock := NewStockHandler(deps.StockUC)
	products.Get("/:id/status", stock.Status)
	products.Get("/:id/reduction-candidates", stock.ReductionCandidates)
	products.Patch("/:id/stock", RequireRole(StockManagerRoles...), stock.Edit)
	products.Post("/:id/stock-adjustments", RequireRole(StockManagerRoles...), stock.Adjust)
	products.Post("/:id/orders-received", RequireRole(StockManagerRoles...), stock.ReceiveOrder)

	units := NewUnitHandler(deps.UnitUC, deps.QueryUC)
	products.Get("/:id/units", units.List)
	products.Post("/:id/units", units.Create)
	products.Post("/:id/units/bulk", units.BulkAdd)
	products.Post("/:id/units/move", units.Move)
	products.Put("/:id/units/:unitId", units.Update)
	products.Delete("/:id/units/:unitId", units.Delete)
}

// healthHandler responde 200 si todas las comprobaciones pasan, 503 si alguna falla.
func healthHandler(appName string, checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := fiber.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = fiber.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		state := "ok"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{"status": state, "service": appName, "checks": results})
	}
}
