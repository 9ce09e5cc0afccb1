package middleware

import (
	"hyperdrive/internal/models"
	"hyperdrive/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userKey = "current_user"

// ResolveUser requires an acting user. Resolution failures are returned to
// the error handler, which maps them to 401.
func ResolveUser(resolver services.UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolver.Resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// ResolveOptionalUser stores the acting user when one can be resolved and
// otherwise lets the request through anonymously.
func ResolveOptionalUser(resolver services.UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := resolver.Resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization)); err == nil {
			c.Locals(userKey, user)
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by ResolveUser, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
