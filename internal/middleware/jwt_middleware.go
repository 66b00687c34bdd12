package middleware

import (
	"log"
	"strings"

	"kasir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the Locals key under which AuthRequired stores *services.Claims.
const ClaimsKey = "claims"

// TokenValidator checks a bearer token.
type TokenValidator interface {
	ValidateToken(token string) (*services.Claims, error)
}

// AuthRequired rejects requests without a valid bearer token and stores the
// token's claims for the next handlers.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header must be 'Bearer <token>'",
			})
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			log.Printf("JWT validation failed for %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// Claims returns the claims stored by AuthRequired, or nil.
func Claims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(ClaimsKey).(*services.Claims)
	return claims
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
