package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"aduanet_backend/internals/configs"
	"aduanet_backend/internals/constants"
	auditSvc "aduanet_backend/internals/features/audit/service"
	dto "aduanet_backend/internals/features/billing/lines/dto"
	model "aduanet_backend/internals/features/billing/lines/model"
	service "aduanet_backend/internals/features/billing/lines/service"
	catalogModel "aduanet_backend/internals/features/catalog/model"
	orderModel "aduanet_backend/internals/features/orders/model"
	helper "aduanet_backend/internals/helpers"
	authmw "aduanet_backend/internals/middlewares/auth"
)

type ChargeLineHandler struct {
	DB    *gorm.DB
	Audit *auditSvc.Recorder
}

// POST /api/charge-lines: new service charge on an open order.
// Totals come from the line engine; input totals are ignored.
func (h *ChargeLineHandler) Create(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.ChargeLineCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	var m model.ChargeLine
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var ord orderModel.Order
		if err := tx.First(&ord, "order_id = ?", in.ChargeLineOrderID).Error; err != nil {
			return helper.NotFoundAs(err, "order")
		}
		if !ord.IsOpen() {
			return helper.ErrIntegrity("order %s is closed", ord.OrderNumber)
		}

		// catalog defaults fill whatever the request left blank
		description := strings.TrimSpace(in.ChargeLineDescription)
		unitPrice := decimal.Zero
		if in.ChargeLineUnitPrice != nil {
			unitPrice = *in.ChargeLineUnitPrice
		}
		treatment := in.ChargeLineTaxTreatment

		if in.ChargeLineServiceID != nil {
			var svc catalogModel.Service
			if err := tx.First(&svc, "service_id = ?", *in.ChargeLineServiceID).Error; err != nil {
				return helper.NotFoundAs(err, "service")
			}
			if description == "" {
				description = svc.ServiceName
			}
			if in.ChargeLineUnitPrice == nil {
				unitPrice = svc.ServiceBasePrice
			}
			if treatment == "" {
				treatment = svc.ServiceDefaultTaxTreatment
			}
		}
		if description == "" {
			return helper.ErrValidation("charge_line_description is required")
		}
		if treatment == "" {
			treatment = constants.TaxTreatmentTaxed
		}

		totals, err := service.LineTotals(in.ChargeLineQuantity, unitPrice, in.ChargeLineDiscountPct, treatment, configs.TaxRate())
		if err != nil {
			return err
		}

		m = model.ChargeLine{
			ChargeLineOrderID:      in.ChargeLineOrderID,
			ChargeLineServiceID:    in.ChargeLineServiceID,
			ChargeLineDescription:  description,
			ChargeLineQuantity:     in.ChargeLineQuantity,
			ChargeLineUnitPrice:    unitPrice,
			ChargeLineDiscountPct:  in.ChargeLineDiscountPct,
			ChargeLineTaxTreatment: treatment,
			ChargeLineSubtotal:     totals.Subtotal,
			ChargeLineTax:          totals.Tax,
			ChargeLineTotal:        totals.Total,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return h.Audit.Record(tx, actorID, "charge_line.create", "charge_line", m.ChargeLineID, map[string]any{
			"order_id": m.ChargeLineOrderID,
			"total":    m.ChargeLineTotal,
		})
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "charge line created", m)
}

// GET /api/charge-lines?order_id=
func (h *ChargeLineHandler) ListByOrder(c *fiber.Ctx) error {
	orderID := c.Query("order_id")
	if orderID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "order_id is required")
	}
	var rows []model.ChargeLine
	if err := h.DB.Where("charge_line_order_id = ?", orderID).
		Order("charge_line_created_at asc").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "charge lines", rows)
}

// PATCH /api/charge-lines/:id: only while unattached and order open.
// Attached lines are edited through the invoice (linker) endpoint so
// the invoice totals stay in sync.
func (h *ChargeLineHandler) Update(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.ChargeLineUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	var m model.ChargeLine
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "charge_line_id = ?", id).Error; err != nil {
			return helper.NotFoundAs(err, "charge line")
		}
		if m.IsAttached() {
			return helper.ErrIntegrity("line is attached to an invoice, edit it through the invoice")
		}

		var ord orderModel.Order
		if err := tx.First(&ord, "order_id = ?", m.ChargeLineOrderID).Error; err != nil {
			return helper.NotFoundAs(err, "order")
		}
		if !ord.IsOpen() {
			return helper.ErrIntegrity("order %s is closed", ord.OrderNumber)
		}

		if in.ChargeLineDescription != nil {
			m.ChargeLineDescription = strings.TrimSpace(*in.ChargeLineDescription)
		}
		if in.ChargeLineQuantity != nil {
			m.ChargeLineQuantity = *in.ChargeLineQuantity
		}
		if in.ChargeLineUnitPrice != nil {
			m.ChargeLineUnitPrice = *in.ChargeLineUnitPrice
		}
		if in.ChargeLineDiscountPct != nil {
			m.ChargeLineDiscountPct = *in.ChargeLineDiscountPct
		}
		if in.ChargeLineTaxTreatment != nil {
			m.ChargeLineTaxTreatment = *in.ChargeLineTaxTreatment
		}

		totals, err := service.LineTotals(m.ChargeLineQuantity, m.ChargeLineUnitPrice, m.ChargeLineDiscountPct, m.ChargeLineTaxTreatment, configs.TaxRate())
		if err != nil {
			return err
		}
		m.ChargeLineSubtotal = totals.Subtotal
		m.ChargeLineTax = totals.Tax
		m.ChargeLineTotal = totals.Total

		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		return h.Audit.Record(tx, actorID, "charge_line.update", "charge_line", m.ChargeLineID, nil)
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "charge line updated", m)
}

// DELETE /api/charge-lines/:id: soft delete; audit row keeps the trail.
func (h *ChargeLineHandler) Delete(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var m model.ChargeLine
		if err := tx.First(&m, "charge_line_id = ?", id).Error; err != nil {
			return helper.NotFoundAs(err, "charge line")
		}
		if m.IsAttached() {
			return helper.ErrIntegrity("line is attached to an invoice, detach it first")
		}

		var ord orderModel.Order
		if err := tx.First(&ord, "order_id = ?", m.ChargeLineOrderID).Error; err != nil {
			return helper.NotFoundAs(err, "order")
		}
		if !ord.IsOpen() {
			return helper.ErrIntegrity("order %s is closed", ord.OrderNumber)
		}

		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return h.Audit.Record(tx, actorID, "charge_line.delete", "charge_line", m.ChargeLineID, nil)
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "charge line deleted", fiber.Map{"charge_line_id": id})
}
