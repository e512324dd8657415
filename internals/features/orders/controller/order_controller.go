package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	auditSvc "aduanet_backend/internals/features/audit/service"
	invoiceModel "aduanet_backend/internals/features/billing/invoices/model"
	lineModel "aduanet_backend/internals/features/billing/lines/model"
	transferModel "aduanet_backend/internals/features/billing/transfers/model"
	catalogModel "aduanet_backend/internals/features/catalog/model"
	dto "aduanet_backend/internals/features/orders/dto"
	model "aduanet_backend/internals/features/orders/model"
	service "aduanet_backend/internals/features/orders/service"
	helper "aduanet_backend/internals/helpers"
	"aduanet_backend/internals/locks"
	authmw "aduanet_backend/internals/middlewares/auth"
)

type OrderHandler struct {
	DB    *gorm.DB
	Guard locks.Guard
	Audit *auditSvc.Recorder
}

// POST /api/orders: number allocation runs under the per-year sequence lock.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.OrderCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	year := time.Now().Year()
	release, err := h.Guard.Acquire(c.UserContext(), service.OrderSeqKey(year))
	if err != nil {
		return helper.FromFiberError(c, helper.ErrBusy())
	}
	defer release()

	var m model.Order
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, service.OrderSeqKey(year)); err != nil {
			return helper.ErrBusy()
		}

		var client catalogModel.Client
		if err := tx.First(&client, "client_id = ?", in.OrderClientID).Error; err != nil {
			return helper.NotFoundAs(err, "client")
		}

		number, err := service.NextOrderNumber(tx, year)
		if err != nil {
			return err
		}

		m = model.Order{
			OrderNumber:             number,
			OrderClientID:           in.OrderClientID,
			OrderStatus:             model.OrderStatusOpen,
			OrderDescription:        in.OrderDescription,
			OrderCustomsDeclaration: helper.StrPtrOrNil(in.OrderCustomsDeclaration),
		}
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				// only reachable if the lock discipline was bypassed
				return helper.ErrIntegrity("order number %s already allocated", number)
			}
			return err
		}

		return h.Audit.Record(tx, actorID, "order.create", "order", m.OrderID, map[string]any{
			"order_number": m.OrderNumber,
		})
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonCreated(c, "order created", m)
}

// GET /api/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.Order{})
	if s := c.Query("status"); s != "" {
		q = q.Where("order_status = ?", s)
	}
	if cid := c.Query("client_id"); cid != "" {
		q = q.Where("order_client_id = ?", cid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.Order
	if err := q.Order("order_created_at desc").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "orders", rows, helper.BuildPagination(p, total, len(rows)))
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m model.Order
	if err := h.DB.First(&m, "order_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "order"))
	}

	var lines []lineModel.ChargeLine
	if err := h.DB.Where("charge_line_order_id = ?", id).
		Order("charge_line_created_at asc").
		Find(&lines).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	var transfers []transferModel.Transfer
	if err := h.DB.Where("transfer_order_id = ?", id).
		Order("transfer_transaction_date asc, transfer_id asc").
		Find(&transfers).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	var invoices []invoiceModel.Invoice
	if err := h.DB.Where("invoice_order_id = ?", id).
		Order("invoice_created_at asc").
		Find(&invoices).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	linesTotal := decimal.Zero
	for _, l := range lines {
		linesTotal = linesTotal.Add(l.ChargeLineTotal)
	}
	transfersTotal, transfersBalance := decimal.Zero, decimal.Zero
	for _, t := range transfers {
		transfersTotal = transfersTotal.Add(t.TransferAmount)
		transfersBalance = transfersBalance.Add(t.TransferBalance)
	}
	invoicedTotal, invoicedBalance := decimal.Zero, decimal.Zero
	for _, inv := range invoices {
		if inv.InvoiceIsCancelled {
			continue
		}
		invoicedTotal = invoicedTotal.Add(inv.InvoiceTotalAmount)
		invoicedBalance = invoicedBalance.Add(inv.InvoiceBalance)
	}

	return helper.JsonOK(c, "order", fiber.Map{
		"order":     m,
		"lines":     lines,
		"transfers": transfers,
		"invoices":  invoices,
		"totals": fiber.Map{
			"lines_total":       linesTotal,
			"transfers_total":   transfersTotal,
			"transfers_balance": transfersBalance,
			"invoiced_total":    invoicedTotal,
			"invoiced_balance":  invoicedBalance,
		},
	})
}

// PATCH /api/orders/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.OrderUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	var m model.Order
	if err := h.DB.First(&m, "order_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "order"))
	}
	if !m.IsOpen() {
		return helper.FromFiberError(c, helper.ErrIntegrity("order %s is closed", m.OrderNumber))
	}

	if in.OrderDescription != nil {
		m.OrderDescription = in.OrderDescription
	}
	if in.OrderCustomsDeclaration != nil {
		m.OrderCustomsDeclaration = helper.StrPtrOrNil(in.OrderCustomsDeclaration)
	}

	if err := h.DB.Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "order updated", m)
}

// POST /api/orders/:id/close
func (h *OrderHandler) Close(c *fiber.Ctx) error {
	return h.setStatus(c, model.OrderStatusClosed, "order.close")
}

// POST /api/orders/:id/reopen
func (h *OrderHandler) Reopen(c *fiber.Ctx) error {
	return h.setStatus(c, model.OrderStatusOpen, "order.reopen")
}

func (h *OrderHandler) setStatus(c *fiber.Ctx, status model.OrderStatus, action string) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var m model.Order
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "order_id = ?", id).Error; err != nil {
			return helper.NotFoundAs(err, "order")
		}
		if m.OrderStatus == status {
			return nil
		}
		m.OrderStatus = status
		if status == model.OrderStatusClosed {
			now := time.Now()
			m.OrderClosedAt = &now
		} else {
			m.OrderClosedAt = nil
		}
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		return h.Audit.Record(tx, actorID, action, "order", m.OrderID, nil)
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "order status updated", m)
}
