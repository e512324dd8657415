package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "aduanet_backend/internals/features/catalog/dto"
	model "aduanet_backend/internals/features/catalog/model"
	helper "aduanet_backend/internals/helpers"
)

type ServiceHandler struct {
	DB *gorm.DB
}

func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.ServiceCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}
	if in.ServiceBasePrice.IsNegative() {
		return helper.JsonError(c, fiber.StatusBadRequest, "service_base_price must be >= 0")
	}

	m := model.Service{
		ServiceName:                in.ServiceName,
		ServiceBasePrice:           in.ServiceBasePrice,
		ServiceDefaultTaxTreatment: in.ServiceDefaultTaxTreatment,
		ServiceIsActive:            true,
	}
	if in.ServiceIsActive != nil {
		m.ServiceIsActive = *in.ServiceIsActive
	}
	if err := h.DB.Create(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "service created", m)
}

func (h *ServiceHandler) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.Service{})
	if s := c.Query("q"); s != "" {
		q = q.Where("service_name ILIKE ?", "%"+s+"%")
	}
	if c.Query("active") == "true" {
		q = q.Where("service_is_active")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.Service
	if err := q.Order("service_name asc").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "services", rows, helper.BuildPagination(p, total, len(rows)))
}

func (h *ServiceHandler) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m model.Service
	if err := h.DB.First(&m, "service_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "service"))
	}
	return helper.JsonOK(c, "service", m)
}

func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.ServiceUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	var m model.Service
	if err := h.DB.First(&m, "service_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFoundAs(err, "service"))
	}

	if in.ServiceName != nil {
		m.ServiceName = *in.ServiceName
	}
	if in.ServiceBasePrice != nil {
		if in.ServiceBasePrice.IsNegative() {
			return helper.JsonError(c, fiber.StatusBadRequest, "service_base_price must be >= 0")
		}
		m.ServiceBasePrice = *in.ServiceBasePrice
	}
	if in.ServiceDefaultTaxTreatment != nil {
		m.ServiceDefaultTaxTreatment = *in.ServiceDefaultTaxTreatment
	}
	if in.ServiceIsActive != nil {
		m.ServiceIsActive = *in.ServiceIsActive
	}

	if err := h.DB.Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "service updated", m)
}

func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.DB.Delete(&model.Service{}, "service_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "service deleted", fiber.Map{"service_id": id})
}
