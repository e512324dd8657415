package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "aduanet_backend/internals/features/billing/invoices/dto"
	service "aduanet_backend/internals/features/billing/invoices/service"
	helper "aduanet_backend/internals/helpers"
	authmw "aduanet_backend/internals/middlewares/auth"
)

type LinkerHandler struct {
	DB         *gorm.DB
	Receivable *service.ReceivableService
}

// GET /api/orders/:orderId/billable-items: what is still available to
// put on an invoice for this order
func (h *LinkerHandler) ListBillableItems(c *fiber.Ctx) error {
	orderID, err := helper.ParseUUIDParam(c, "orderId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	items, err := h.Receivable.ListBillableItems(c.UserContext(), orderID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "billable items", items)
}

// PATCH /api/invoices/:id/items/charge/:itemId
func (h *LinkerHandler) EditAttachedLine(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	itemID, err := helper.ParseUUIDParam(c, "itemId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.LineEditDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m, err := h.Receivable.EditAttachedLine(c.UserContext(), actorID, id, itemID, service.LineEdit{
		Description:  in.Description,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		DiscountPct:  in.DiscountPct,
		TaxTreatment: in.TaxTreatment,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "line updated", m)
}

// PATCH /api/invoices/:id/items/expense/:itemId
func (h *LinkerHandler) EditAttachedExpense(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	itemID, err := helper.ParseUUIDParam(c, "itemId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.ExpenseEditDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m, err := h.Receivable.EditAttachedExpense(c.UserContext(), actorID, id, itemID, service.ExpenseEdit{
		MarkupPct:    in.MarkupPct,
		TaxTreatment: in.TaxTreatment,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "expense updated", m)
}
