package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "aduanet_backend/internals/features/users/controller"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	h := &controller.AuthHandler{DB: db}
	app.Post("/api/auth/login", h.Login)
}
