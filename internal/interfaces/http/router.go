package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/mercado-stock/internal/application/allocation"
	"github.com/tu-usuario/mercado-stock/internal/application/audit"
	"github.com/tu-usuario/mercado-stock/internal/application/auth"
	"github.com/tu-usuario/mercado-stock/internal/application/catalog"
	"github.com/tu-usuario/mercado-stock/internal/application/order"
	"github.com/tu-usuario/mercado-stock/internal/application/stock"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CatalogUC *catalog.UseCase
	StockUC   *stock.MutatorUseCase
	AllocUC   *allocation.UseCase
	OrderUC   *order.ReconcilerUseCase
	CheckerUC *audit.CheckerUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Shops: crear es público (bootstrap del dueño), el resto protegido
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	shopsPublic := api.Group("/shops")
	shopsPublic.Post("/", catalogHandler.CreateShop)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	shops := protected.Group("/shops")
	shops.Get("/:id", catalogHandler.GetShop)

	// Products (protegido; crear solo admin)
	products := protected.Group("/products")
	products.Post("/", RequireRole(entity.RoleAdmin), catalogHandler.CreateProduct)
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/:id", catalogHandler.GetProduct)

	// Stock de bodega (protegido; intake solo admin)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/intake", RequireRole(entity.RoleAdmin), stockHandler.Intake)
	stockGroup.Get("/:productId", stockHandler.GetOnHand)
	stockGroup.Get("/:productId/movements", stockHandler.ListMovements)

	// Asignaciones a intermediarios (protegido; asignar solo admin)
	allocs := protected.Group("/allocations")
	allocHandler := NewAllocationHandler(deps.AllocUC)
	allocs.Post("/", RequireRole(entity.RoleAdmin), allocHandler.Assign)
	allocs.Get("/", allocHandler.ListMine)
	allocs.Get("/remaining/:productId", allocHandler.GetRemaining)
	allocs.Post("/:id/return", RequireRole(entity.RoleAdmin, entity.RoleAgente), allocHandler.Return)

	// Órdenes (protegido; vender requiere rol de venta)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", RequireRole(entity.RoleAdmin, entity.RoleAgente, entity.RoleVendedor), orderHandler.Create)
	orders.Get("/", orderHandler.ListMine)
	orders.Get("/:id", orderHandler.Get)
	orders.Post("/:id/cancel", RequireRole(entity.RoleAdmin), orderHandler.Cancel)

	// Auditoría de conservación (protegido; solo admin)
	auditGroup := protected.Group("/audit")
	auditHandler := NewAuditHandler(deps.CheckerUC)
	auditGroup.Get("/stock/:productId", RequireRole(entity.RoleAdmin), auditHandler.Verify)
}
