package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "aduanet_backend/internals/helpers"
)

// RequireRoles gates a route group to the given roles. Must run after AuthJWT.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if _, ok := allowed[Role(c)]; !ok {
			return helper.JsonError(c, fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
