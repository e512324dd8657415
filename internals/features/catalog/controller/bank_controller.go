package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "aduanet_backend/internals/features/catalog/dto"
	model "aduanet_backend/internals/features/catalog/model"
	helper "aduanet_backend/internals/helpers"
)

type BankHandler struct {
	DB *gorm.DB
}

func (h *BankHandler) Create(c *fiber.Ctx) error {
	var in dto.BankCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	m := model.Bank{
		BankName:    in.BankName,
		BankAccount: helper.StrPtrOrNil(in.BankAccount),
	}
	if err := h.DB.Create(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "bank created", m)
}

func (h *BankHandler) List(c *fiber.Ctx) error {
	var rows []model.Bank
	if err := h.DB.Order("bank_name asc").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "banks", rows)
}

func (h *BankHandler) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.BankUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	var m model.Bank
	if err := h.DB.First(&m, "bank_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "bank"))
	}

	if in.BankName != nil {
		m.BankName = *in.BankName
	}
	if in.BankAccount != nil {
		m.BankAccount = helper.StrPtrOrNil(in.BankAccount)
	}

	if err := h.DB.Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "bank updated", m)
}

func (h *BankHandler) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.DB.Delete(&model.Bank{}, "bank_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "bank deleted", fiber.Map{"bank_id": id})
}
