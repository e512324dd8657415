package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	auditSvc "aduanet_backend/internals/features/audit/service"
	controller "aduanet_backend/internals/features/orders/controller"
	"aduanet_backend/internals/locks"
)

func OrderRoutes(r fiber.Router, db *gorm.DB, guard locks.Guard, audit *auditSvc.Recorder) {
	h := &controller.OrderHandler{DB: db, Guard: guard, Audit: audit}

	g := r.Group("/orders")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Post("/:id/close", h.Close)
	g.Post("/:id/reopen", h.Reopen)
}
