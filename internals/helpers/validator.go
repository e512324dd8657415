package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateStruct runs validator/v10 tags over a DTO and, on failure,
// writes the 400 field-map response. Returns nil when valid.
func ValidateStruct(c *fiber.Ctx, in any) error {
	if err := validate.Struct(in); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return JsonError(c, fiber.StatusBadRequest, "invalid input")
		}
		fieldErrors := make(map[string]string, len(ve))
		for _, fe := range ve {
			fieldErrors[fe.Field()] = fe.Tag()
		}
		return JsonValidationError(c, fieldErrors)
	}
	return nil
}
