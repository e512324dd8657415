package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "aduanet_backend/internals/features/billing/invoices/controller"
	service "aduanet_backend/internals/features/billing/invoices/service"
)

func InvoiceRoutes(r fiber.Router, db *gorm.DB, receivable *service.ReceivableService) {
	ih := &controller.InvoiceHandler{DB: db, Receivable: receivable}
	lh := &controller.LinkerHandler{DB: db, Receivable: receivable}

	r.Get("/orders/:orderId/billable-items", lh.ListBillableItems)

	g := r.Group("/invoices")
	g.Post("/", ih.Create)
	g.Get("/", ih.List)
	g.Get("/:id", ih.Get)
	g.Patch("/:id", ih.Update)
	g.Post("/:id/items", ih.AttachItems)
	g.Patch("/:id/items/charge/:itemId", lh.EditAttachedLine)
	g.Patch("/:id/items/expense/:itemId", lh.EditAttachedExpense)
	g.Delete("/:id/items/:itemType/:itemId", ih.RemoveItem)
	g.Post("/:id/payments", ih.RecordPayment)
	g.Post("/:id/credit-notes", ih.AddCreditNote)
	g.Delete("/payments/:paymentId", ih.DeletePayment)
	g.Delete("/credit-notes/:creditNoteId", ih.DeleteCreditNote)
	g.Post("/:id/dte", ih.MarkDteIssued)
	g.Post("/:id/cancel", ih.Cancel)
}
