package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/foxxcyber/recipepad/internal/config"
	"github.com/foxxcyber/recipepad/internal/models"
)

// OwnerHeader carries the client-generated owner id when no token is sent
const OwnerHeader = "X-Owner-Id"

const maxOwnerIDLength = 128

const (
	localOwnerID   = "owner_id"
	localOwnerRole = "owner_role"
)

// OwnerClaims represents the claims in an owner token
type OwnerClaims struct {
	OwnerID string      `json:"owner_id"`
	Role    models.Role `json:"role"`
	jwt.RegisteredClaims
}

// parseToken verifies an HMAC-signed owner token
func parseToken(tokenString, secret string) (*OwnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OwnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*OwnerClaims)
	if !ok || !token.Valid || claims.OwnerID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// OwnerOptional identifies the owner from a bearer token or, failing that,
// the X-Owner-Id header. A bad token is rejected rather than ignored, an
// absent one leaves the request anonymous.
func OwnerOptional(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return unauthorized(c, "invalid authorization format")
			}

			claims, err := parseToken(strings.TrimPrefix(authHeader, "Bearer "), cfg.JWTSecret)
			if err != nil {
				return unauthorized(c, "invalid or expired token")
			}

			role := claims.Role
			if role == "" {
				role = models.RoleUser
			}
			c.Locals(localOwnerID, claims.OwnerID)
			c.Locals(localOwnerRole, role)
			return c.Next()
		}

		if id := strings.TrimSpace(c.Get(OwnerHeader)); id != "" {
			if len(id) > maxOwnerIDLength {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"error":   "owner id is too long",
				})
			}
			c.Locals(localOwnerID, id)
			c.Locals(localOwnerRole, models.RoleUser)
		}

		return c.Next()
	}
}

// OwnerRequired rejects anonymous requests. It must run after OwnerOptional.
func OwnerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetOwner(c).Anonymous() {
			return unauthorized(c, "owner id required")
		}
		return c.Next()
	}
}

// AdminRequired middleware checks if the owner has admin role. Only a
// verified token can carry the admin role.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := GetOwner(c)
		if owner.Anonymous() {
			return unauthorized(c, "unauthorized")
		}

		if !owner.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "admin access required",
			})
		}

		return c.Next()
	}
}

// GetOwner extracts the owner from the context
func GetOwner(c *fiber.Ctx) models.Owner {
	id, _ := c.Locals(localOwnerID).(string)
	role, _ := c.Locals(localOwnerRole).(models.Role)
	return models.Owner{ID: id, Role: role}
}

// GetOwnerID extracts the owner ID from the context
func GetOwnerID(c *fiber.Ctx) string {
	return GetOwner(c).ID
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
