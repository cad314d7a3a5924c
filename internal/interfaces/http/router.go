package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	SweetUC     *usecase.SweetUseCase
	InventoryUC *inventory.UseCase
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Sweets (requiere Bearer Token; escrituras de catálogo solo admin)
	sweets := api.Group("/sweets", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	sweetHandler := NewSweetHandler(deps.SweetUC, log)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, log)

	// Rutas estáticas antes de /:id.
	sweets.Get("/", sweetHandler.List)
	sweets.Get("/search", sweetHandler.Search)
	sweets.Get("/purchases", inventoryHandler.History)
	sweets.Get("/purchases/:id/receipt", inventoryHandler.Receipt)
	sweets.Get("/:id", sweetHandler.GetByID)

	sweets.Post("/", adminOnly, sweetHandler.Create)
	sweets.Put("/:id", adminOnly, sweetHandler.Update)
	sweets.Delete("/:id", adminOnly, sweetHandler.Delete)

	sweets.Post("/:id/purchase", inventoryHandler.Purchase)
	sweets.Post("/:id/restock", adminOnly, inventoryHandler.Restock)
}
