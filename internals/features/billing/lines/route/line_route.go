package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	auditSvc "aduanet_backend/internals/features/audit/service"
	controller "aduanet_backend/internals/features/billing/lines/controller"
)

func ChargeLineRoutes(r fiber.Router, db *gorm.DB, audit *auditSvc.Recorder) {
	h := &controller.ChargeLineHandler{DB: db, Audit: audit}

	g := r.Group("/charge-lines")
	g.Post("/", h.Create)
	g.Get("/", h.ListByOrder)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
