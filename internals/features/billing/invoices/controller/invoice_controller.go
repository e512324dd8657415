package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "aduanet_backend/internals/features/billing/invoices/dto"
	model "aduanet_backend/internals/features/billing/invoices/model"
	service "aduanet_backend/internals/features/billing/invoices/service"
	helper "aduanet_backend/internals/helpers"
	authmw "aduanet_backend/internals/middlewares/auth"
)

type InvoiceHandler struct {
	DB         *gorm.DB
	Receivable *service.ReceivableService
}

// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.InvoiceCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m, err := h.Receivable.CreateInvoice(c.UserContext(), actorID, service.InvoiceInput{
		OrderID:     in.InvoiceOrderID,
		Number:      in.InvoiceNumber,
		Type:        model.InvoiceType(in.InvoiceType),
		IssueDate:   in.InvoiceIssueDate,
		DueDate:     in.InvoiceDueDate,
		Notes:       in.InvoiceNotes,
		ChargeIDs:   in.InvoiceChargeIDs,
		TransferIDs: in.InvoiceTransferIDs,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "invoice created", m)
}

// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.Invoice{})
	if s := c.Query("status"); s != "" {
		q = q.Where("invoice_status = ?", s)
	}
	if oid := c.Query("order_id"); oid != "" {
		q = q.Where("invoice_order_id = ?", oid)
	}
	if cid := c.Query("client_id"); cid != "" {
		q = q.Where("invoice_client_id = ?", cid)
	}
	if issued := c.Query("dte_issued"); issued != "" {
		q = q.Where("invoice_is_dte_issued = ?", issued == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.Invoice
	if err := q.Order("invoice_created_at desc").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "invoices", rows, helper.BuildPagination(p, total, len(rows)))
}

// GET /api/invoices/:id: header plus items, payments and credit notes
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var m model.Invoice
	if err := h.DB.First(&m, "invoice_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "invoice"))
	}

	items, err := h.Receivable.ListInvoiceItems(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var payments []model.InvoicePayment
	if err := h.DB.Where("invoice_payment_invoice_id = ?", id).
		Order("invoice_payment_date asc, invoice_payment_created_at asc").
		Find(&payments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	var credits []model.CreditNote
	if err := h.DB.Where("credit_note_invoice_id = ?", id).
		Order("credit_note_date asc, credit_note_created_at asc").
		Find(&credits).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "invoice", fiber.Map{
		"invoice":      m,
		"items":        items,
		"payments":     payments,
		"credit_notes": credits,
	})
}

// PATCH /api/invoices/:id: header edits; type and issue date freeze
// once the DTE exists, the rest stays writable
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.InvoiceUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	var m model.Invoice
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "invoice_id = ?", id).Error; err != nil {
			return helper.NotFoundAs(err, "invoice")
		}

		if m.InvoiceIsDteIssued && (in.InvoiceType != nil || in.InvoiceIssueDate != nil) {
			return helper.ErrIntegrity("invoice %s is fiscally issued, type and issue date are frozen", m.InvoiceNumber)
		}

		if in.InvoiceNumber != nil && *in.InvoiceNumber != "" {
			m.InvoiceNumber = *in.InvoiceNumber
		}
		if in.InvoiceType != nil {
			t := model.InvoiceType(*in.InvoiceType)
			if !t.Valid() {
				return helper.ErrValidation("invalid invoice type %q", *in.InvoiceType)
			}
			m.InvoiceType = t
		}
		if in.InvoiceIssueDate != nil {
			m.InvoiceIssueDate = *in.InvoiceIssueDate
		}
		if in.InvoiceDueDate != nil {
			m.InvoiceDueDate = in.InvoiceDueDate
		}
		if in.InvoiceNotes != nil {
			m.InvoiceNotes = in.InvoiceNotes
		}
		if in.InvoicePdfURL != nil {
			m.InvoicePdfURL = helper.StrPtrOrNil(in.InvoicePdfURL)
		}

		if err := tx.Save(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.ErrIntegrity("invoice number %s already in use", m.InvoiceNumber)
			}
			return err
		}
		// Type changes move retention, due-date changes move the
		// overdue cutoff. Re-derive instead of waiting for the next
		// money mutation.
		if in.InvoiceType != nil || in.InvoiceDueDate != nil {
			if err := h.Receivable.Recompute(tx, &m); err != nil {
				return err
			}
		}
		return h.Receivable.Audit.Record(tx, actorID, "invoice.update", "invoice", m.InvoiceID, nil)
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "invoice updated", m)
}

// POST /api/invoices/:id/items
func (h *InvoiceHandler) AttachItems(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.AttachItemsDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}

	m, err := h.Receivable.AttachItems(c.UserContext(), actorID, id, in.ChargeIDs, in.TransferIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "items attached", m)
}

// DELETE /api/invoices/:id/items/:itemType/:itemId
func (h *InvoiceHandler) RemoveItem(c *fiber.Ctx) error {
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

	deleted, err := h.Receivable.RemoveItem(c.UserContext(), actorID, id, c.Params("itemType"), itemID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if deleted {
		return helper.JsonDeleted(c, "invoice emptied and deleted", fiber.Map{"invoice_id": id})
	}
	return helper.JsonUpdated(c, "item removed", fiber.Map{"invoice_id": id})
}

// POST /api/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.InvoicePaymentDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m, err := h.Receivable.RecordPayment(c.UserContext(), actorID, id, service.ReceiptInput{
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

// POST /api/invoices/:id/credit-notes
func (h *InvoiceHandler) AddCreditNote(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.CreditNoteDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m, err := h.Receivable.AddCreditNote(c.UserContext(), actorID, id, service.CreditNoteInput{
		Amount:    in.CreditNoteAmount,
		Date:      in.CreditNoteDate,
		Reason:    in.CreditNoteReason,
		DteNumber: in.CreditNoteDteNumber,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "credit note applied", m)
}

// DELETE /api/invoices/payments/:paymentId
func (h *InvoiceHandler) DeletePayment(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "paymentId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := h.Receivable.DeletePayment(c.UserContext(), actorID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "payment deleted", m)
}

// DELETE /api/invoices/credit-notes/:creditNoteId
func (h *InvoiceHandler) DeleteCreditNote(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "creditNoteId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := h.Receivable.DeleteCreditNote(c.UserContext(), actorID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "credit note deleted", m)
}

// POST /api/invoices/:id/dte
func (h *InvoiceHandler) MarkDteIssued(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.DteIssueDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m, err := h.Receivable.MarkDteIssued(c.UserContext(), actorID, id, in.DteNumber, in.DteMeta)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "dte issued", m)
}

// POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	actorID, err := authmw.ActorID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := h.Receivable.Cancel(c.UserContext(), actorID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "invoice cancelled", m)
}
