package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/* ===============================
   Error taxonomy → HTTP codes

   400 ValidationError : bad input / business rule, never retried
   404 NotFoundError   : referenced id missing
   409 ResourceBusy    : lock timeout, caller should retry
   422 IntegrityError  : state forbids the operation (e.g. DTE-issued)
=================================*/

func ErrValidation(format string, args ...any) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(format, args...))
}

func ErrNotFound(what string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, what+" not found")
}

// ErrBusy is deliberately generic: the caller only needs to know to retry.
func ErrBusy() *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, "another user is processing this record, please try again")
}

func ErrIntegrity(format string, args ...any) *fiber.Error {
	return fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf(format, args...))
}

// NotFoundAs converts gorm's record-not-found into a 404, passing
// everything else through untouched.
func NotFoundAs(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound(what)
	}
	return err
}

func IsUniqueViolation(err error) bool {
	return err != nil &&
		(strings.Contains(err.Error(), "duplicate key value") ||
			strings.Contains(err.Error(), "unique constraint"))
}
