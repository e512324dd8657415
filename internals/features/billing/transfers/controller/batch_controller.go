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

type BatchHandler struct {
	DB      *gorm.DB
	Payable *service.PayableService
}

// POST /api/batch-payments: one disbursement spread FIFO over a
// provider's open obligations.
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.BatchCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	res, err := h.Payable.CreateBatchPayment(c.UserContext(), actorID, service.BatchInput{
		TransferIDs: in.BatchTransferIDs,
		TotalAmount: in.BatchTotalAmount,
		Date:        in.BatchDate,
		Method:      in.BatchMethod,
		BankID:      in.BatchBankID,
		Reference:   in.BatchReference,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "batch payment created", res)
}

// GET /api/batch-payments
func (h *BatchHandler) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.BatchPayment{})
	if pid := c.Query("provider_id"); pid != "" {
		q = q.Where("batch_payment_provider_id = ?", pid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.BatchPayment
	if err := q.Order("batch_payment_date desc, batch_payment_created_at desc").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "batch payments", rows, helper.BuildPagination(p, total, len(rows)))
}

// GET /api/batch-payments/:id: the batch with its allocations
func (h *BatchHandler) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m model.BatchPayment
	if err := h.DB.First(&m, "batch_payment_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "batch payment"))
	}
	var payments []model.TransferPayment
	if err := h.DB.Where("transfer_payment_batch_id = ?", id).
		Order("transfer_payment_created_at asc").
		Find(&payments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "batch payment", fiber.Map{
		"batch":    m,
		"payments": payments,
	})
}

// DELETE /api/batch-payments/:id: reverses every allocation
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.Payable.DeleteBatchPayment(c.UserContext(), actorID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "batch payment deleted", fiber.Map{"batch_payment_id": id})
}
