package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "aduanet_backend/internals/features/catalog/dto"
	model "aduanet_backend/internals/features/catalog/model"
	helper "aduanet_backend/internals/helpers"
)

type ProviderHandler struct {
	DB *gorm.DB
}

func (h *ProviderHandler) Create(c *fiber.Ctx) error {
	var in dto.ProviderCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m := model.Provider{
		ProviderName:         in.ProviderName,
		ProviderTaxID:        helper.StrPtrOrNil(in.ProviderTaxID),
		ProviderBankID:       in.ProviderBankID,
		ProviderBankAccount:  helper.StrPtrOrNil(in.ProviderBankAccount),
		ProviderContactEmail: helper.StrPtrOrNil(in.ProviderContactEmail),
		ProviderContactPhone: helper.StrPtrOrNil(in.ProviderContactPhone),
	}
	if err := h.DB.Create(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "provider created", m)
}

func (h *ProviderHandler) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.Provider{})
	if s := c.Query("q"); s != "" {
		q = q.Where("provider_name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.Provider
	if err := q.Order("provider_name asc").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "providers", rows, helper.BuildPagination(p, total, len(rows)))
}

func (h *ProviderHandler) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m model.Provider
	if err := h.DB.First(&m, "provider_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "provider"))
	}
	return helper.JsonOK(c, "provider", m)
}

func (h *ProviderHandler) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.ProviderUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	var m model.Provider
	if err := h.DB.First(&m, "provider_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "provider"))
	}

	if in.ProviderName != nil {
		m.ProviderName = *in.ProviderName
	}
	if in.ProviderTaxID != nil {
		m.ProviderTaxID = helper.StrPtrOrNil(in.ProviderTaxID)
	}
	if in.ProviderBankID != nil {
		m.ProviderBankID = in.ProviderBankID
	}
	if in.ProviderBankAccount != nil {
		m.ProviderBankAccount = helper.StrPtrOrNil(in.ProviderBankAccount)
	}
	if in.ProviderContactEmail != nil {
		m.ProviderContactEmail = helper.StrPtrOrNil(in.ProviderContactEmail)
	}
	if in.ProviderContactPhone != nil {
		m.ProviderContactPhone = helper.StrPtrOrNil(in.ProviderContactPhone)
	}

	if err := h.DB.Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "provider updated", m)
}

func (h *ProviderHandler) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.DB.Delete(&model.Provider{}, "provider_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "provider deleted", fiber.Map{"provider_id": id})
}
