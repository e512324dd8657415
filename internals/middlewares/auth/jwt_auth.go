package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "aduanet_backend/internals/helpers"
)

const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool
}

// AuthJWT validates the Bearer token (or access_token cookie when allowed)
// and stores user id + role in locals for the handlers downstream.
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			raw = strings.TrimSpace(raw[7:])
		} else if opts.AllowCookieFallback {
			raw = c.Cookies("access_token")
		} else {
			raw = ""
		}
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "missing token")
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(opts.Secret), nil
		})
		if err != nil || !token.Valid {
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		uid, err := uuid.Parse(claims.Subject)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid token subject")
		}

		c.Locals(LocalUserID, uid)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// ActorID returns the authenticated user id stored by AuthJWT.
func ActorID(c *fiber.Ctx) (uuid.UUID, error) {
	if uid, ok := c.Locals(LocalUserID).(uuid.UUID); ok && uid != uuid.Nil {
		return uid, nil
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing actor")
}

func Role(c *fiber.Ctx) string {
	if r, ok := c.Locals(LocalRole).(string); ok {
		return r
	}
	return ""
}
