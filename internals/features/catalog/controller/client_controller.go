package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "aduanet_backend/internals/features/catalog/dto"
	model "aduanet_backend/internals/features/catalog/model"
	helper "aduanet_backend/internals/helpers"
)

type ClientHandler struct {
	DB *gorm.DB
}

// POST /api/catalog/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m := model.Client{
		ClientName:               in.ClientName,
		ClientTaxID:              helper.StrPtrOrNil(in.ClientTaxID),
		ClientNRC:                helper.StrPtrOrNil(in.ClientNRC),
		ClientIsRetentionSubject: in.ClientIsRetentionSubject,
		ClientEmail:              helper.StrPtrOrNil(in.ClientEmail),
		ClientPhone:              helper.StrPtrOrNil(in.ClientPhone),
		ClientAddress:            in.ClientAddress,
	}
	if err := h.DB.Create(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "client created", m)
}

// GET /api/catalog/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.Client{})
	if s := c.Query("q"); s != "" {
		q = q.Where("client_name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.Client
	if err := q.Order("client_name asc").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "clients", rows, helper.BuildPagination(p, total, len(rows)))
}

// GET /api/catalog/clients/:id
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m model.Client
	if err := h.DB.First(&m, "client_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "client"))
	}
	return helper.JsonOK(c, "client", m)
}

// PATCH /api/catalog/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.ClientUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	var m model.Client
	if err := h.DB.First(&m, "client_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "client"))
	}

	if in.ClientName != nil {
		m.ClientName = *in.ClientName
	}
	if in.ClientTaxID != nil {
		m.ClientTaxID = helper.StrPtrOrNil(in.ClientTaxID)
	}
	if in.ClientNRC != nil {
		m.ClientNRC = helper.StrPtrOrNil(in.ClientNRC)
	}
	if in.ClientIsRetentionSubject != nil {
		m.ClientIsRetentionSubject = *in.ClientIsRetentionSubject
	}
	if in.ClientEmail != nil {
		m.ClientEmail = helper.StrPtrOrNil(in.ClientEmail)
	}
	if in.ClientPhone != nil {
		m.ClientPhone = helper.StrPtrOrNil(in.ClientPhone)
	}
	if in.ClientAddress != nil {
		m.ClientAddress = in.ClientAddress
	}

	if err := h.DB.Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "client updated", m)
}

// DELETE /api/catalog/clients/:id (soft)
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.DB.Delete(&model.Client{}, "client_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "client deleted", fiber.Map{"client_id": id})
}
