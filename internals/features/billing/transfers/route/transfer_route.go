package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"aduanet_backend/internals/constants"
	controller "aduanet_backend/internals/features/billing/transfers/controller"
	service "aduanet_backend/internals/features/billing/transfers/service"
	authmw "aduanet_backend/internals/middlewares/auth"
)

func TransferRoutes(r fiber.Router, db *gorm.DB, payable *service.PayableService) {
	th := &controller.TransferHandler{DB: db, Payable: payable}
	bh := &controller.BatchHandler{DB: db, Payable: payable}

	g := r.Group("/transfers")
	g.Post("/", th.Create)
	g.Get("/", th.List)
	g.Get("/:id", th.Get)
	g.Post("/:id/approve", authmw.RequireRoles(constants.FinanceAndAbove...), th.Approve)
	g.Post("/:id/payments", th.RecordPayment)
	g.Post("/:id/credit-notes", th.RecordCreditNote)
	g.Delete("/payments/:paymentId", th.DeletePayment)

	b := r.Group("/batch-payments")
	b.Post("/", bh.Create)
	b.Get("/", bh.List)
	b.Get("/:id", bh.Get)
	b.Delete("/:id", bh.Delete)
}
