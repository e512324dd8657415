package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aduanet_backend/internals/configs"
	model "aduanet_backend/internals/features/users/model"
	helper "aduanet_backend/internals/helpers"
)

type AuthHandler struct {
	DB *gorm.DB
}

type loginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(c, in); err != nil {
		return err
	}

	var u model.User
	if err := h.DB.Where("user_email = ? AND user_is_active", strings.ToLower(strings.TrimSpace(in.Email))).
		First(&u).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.UserPassword), []byte(in.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  u.UserID.String(),
		"role": u.UserRole,
		"name": u.UserName,
		"iat":  now.Unix(),
		"exp":  now.Add(12 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not sign token")
	}

	return helper.JsonOK(c, "login ok", fiber.Map{
		"access_token": token,
		"user": fiber.Map{
			"user_id":   u.UserID,
			"user_name": u.UserName,
			"user_role": u.UserRole,
		},
	})
}
