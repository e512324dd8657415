package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "aduanet_backend/internals/features/catalog/controller"
)

func CatalogRoutes(r fiber.Router, db *gorm.DB) {
	clients := &controller.ClientHandler{DB: db}
	providers := &controller.ProviderHandler{DB: db}
	services := &controller.ServiceHandler{DB: db}
	banks := &controller.BankHandler{DB: db}

	g := r.Group("/catalog")

	g.Post("/clients", clients.Create)
	g.Get("/clients", clients.List)
	g.Get("/clients/:id", clients.Get)
	g.Patch("/clients/:id", clients.Update)
	g.Delete("/clients/:id", clients.Delete)

	g.Post("/providers", providers.Create)
	g.Get("/providers", providers.List)
	g.Get("/providers/:id", providers.Get)
	g.Patch("/providers/:id", providers.Update)
	g.Delete("/providers/:id", providers.Delete)

	g.Post("/services", services.Create)
	g.Get("/services", services.List)
	g.Get("/services/:id", services.Get)
	g.Patch("/services/:id", services.Update)
	g.Delete("/services/:id", services.Delete)

	g.Post("/banks", banks.Create)
	g.Get("/banks", banks.List)
	g.Patch("/banks/:id", banks.Update)
	g.Delete("/banks/:id", banks.Delete)
}
