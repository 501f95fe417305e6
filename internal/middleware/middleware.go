package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"tastebook/domain"
	"tastebook/internal/api/presenters"
	"tastebook/pkg/jwt"
)

type (
	Middleware interface {
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		CORSMiddleware() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func extractToken(c *fiber.Ctx) string {
	token := c.Get("authorization")
	return strings.TrimPrefix(token, "Bearer ")
}

// AuthMiddleware rejects requests without a valid token and stores the
// token's identity in the request locals.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		userID, name, err := jwtService.GetUserByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals("user_id", userID)
		c.Locals("name", name)
		return c.Next()
	}
}

// OptionalAuthMiddleware resolves the identity when a valid token is present
// but continues unauthenticated otherwise, so public routes can degrade
// gracefully. Handlers check the "authenticated" local.
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("authenticated", false)

		if token := extractToken(c); token != "" {
			if userID, name, err := jwtService.GetUserByToken(token); err == nil {
				c.Locals("authenticated", true)
				c.Locals("user_id", userID)
				c.Locals("name", name)
			}
		}

		return c.Next()
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New()
}
