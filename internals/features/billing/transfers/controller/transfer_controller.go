package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "aduanet_backend/internals/features/billing/transfers/dto"
	model "aduanet_backend/internals/features/billing/transfers/model"
	service "aduanet_backend/internals/features/billing/transfers/service"
	helper "aduanet_backend/internals/helpers"
	authmw "aduanet_backend/internals/middlewares/auth"
)

type TransferHandler struct {
	DB      *gorm.DB
	Payable *service.PayableService
}

// POST /api/transfers
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.TransferCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m, err := h.Payable.CreateObligation(c.UserContext(), actorID, service.ObligationInput{
		ProviderID:      in.TransferProviderID,
		OrderID:         in.TransferOrderID,
		Type:            model.TransferType(in.TransferType),
		Description:     in.TransferDescription,
		Amount:          in.TransferAmount,
		TransactionDate: in.TransferTransactionDate,
		MarkupPct:       in.TransferMarkupPct,
		TaxTreatment:    in.TransferTaxTreatment,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "transfer created", m)
}

// GET /api/transfers
func (h *TransferHandler) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.Transfer{})
	if s := c.Query("status"); s != "" {
		q = q.Where("transfer_status = ?", s)
	}
	if pid := c.Query("provider_id"); pid != "" {
		q = q.Where("transfer_provider_id = ?", pid)
	}
	if oid := c.Query("order_id"); oid != "" {
		q = q.Where("transfer_order_id = ?", oid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.Transfer
	if err := q.Order("transfer_transaction_date asc, transfer_id asc").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "transfers", rows, helper.BuildPagination(p, total, len(rows)))
}

// GET /api/transfers/:id: the obligation with its payment rows
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m model.Transfer
	if err := h.DB.First(&m, "transfer_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "transfer"))
	}
	var payments []model.TransferPayment
	if err := h.DB.Where("transfer_payment_transfer_id = ?", id).
		Order("transfer_payment_date asc, transfer_payment_created_at asc").
		Find(&payments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "transfer", fiber.Map{
		"transfer": m,
		"payments": payments,
	})
}

// POST /api/transfers/:id/approve: finance and above only
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := h.Payable.Approve(c.UserContext(), actorID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "transfer approved", m)
}

// POST /api/transfers/:id/payments
func (h *TransferHandler) RecordPayment(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.TransferPaymentDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m, err := h.Payable.RecordPayment(c.UserContext(), actorID, id, service.PaymentInput{
		Amount:    in.PaymentAmount,
		Date:      in.PaymentDate,
		Method:    in.PaymentMethod,
		BankID:    in.PaymentBankID,
		Reference: in.PaymentReference,
		Notes:     in.PaymentNotes,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "payment recorded", m)
}

// POST /api/transfers/:id/credit-notes
func (h *TransferHandler) RecordCreditNote(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.TransferCreditNoteDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m, err := h.Payable.RecordCreditNote(c.UserContext(), actorID, id, service.PaymentInput{
		Amount:    in.CreditAmount,
		Date:      in.CreditDate,
		Reference: in.CreditReference,
		Notes:     in.CreditNotes,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "credit note recorded", m)
}

// DELETE /api/transfers/payments/:paymentId
func (h *TransferHandler) DeletePayment(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "paymentId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := h.Payable.DeletePayment(c.UserContext(), actorID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "payment deleted", m)
}
