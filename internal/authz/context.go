package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rahulverma-dev/commerce-backoffice/internal/models"
)

const principalKey = "principal"

// UserID extracts the user UUID from JWT claims in context.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// Principal returns the authenticated user cached by the guard, if any.
func Principal(c *fiber.Ctx) (*models.User, bool) {
	u, ok := c.Locals(principalKey).(*models.User)
	return u, ok
}

// SetPrincipal caches the resolved user on the request context.
func SetPrincipal(c *fiber.Ctx, u *models.User) {
	c.Locals(principalKey, u)
}
