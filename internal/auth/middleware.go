package auth

import (
	"fmt"
	"strings"

	"agency-backend/internal/access"
	"agency-backend/internal/config"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey        = "user_id"
	CtxUserNameKey      = "user_name"
	CtxOriginalRoleKey  = "original_role"
	CtxEffectiveRoleKey = "effective_role"
)

// ViewAsHeader carries the optional impersonation target. The original role
// from the token stays the authorization source of truth; the header only
// changes what the UI gets to see.
const ViewAsHeader = "X-View-As"

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		tokenStr := parts[1]

		// expired tokens fail validation here, so every request re-checks
		// the session expiry
		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not parse token claims")
		}
		if !claims.Role.Valid() {
			return fiber.NewError(fiber.StatusForbidden, "Unknown role")
		}

		effective := claims.Role
		if target := c.Get(ViewAsHeader); target != "" {
			targetRole := models.Role(target)
			if !access.CanImpersonate(claims.Role, targetRole) {
				return fiber.NewError(fiber.StatusForbidden, "View-as target not permitted")
			}
			effective = targetRole
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserNameKey, claims.Name)
		c.Locals(CtxOriginalRoleKey, claims.Role)
		c.Locals(CtxEffectiveRoleKey, effective)

		return c.Next()
	}
}

// RequireSection gates a route group on section visibility. Sections follow
// the effective role: viewing as a developer really does hide finance.
func RequireSection(section access.SectionID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		effective, ok := c.Locals(CtxEffectiveRoleKey).(models.Role)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Role information missing")
		}
		if !access.CanAccessSection(effective, section) {
			return fiber.NewError(fiber.StatusForbidden, "Access restricted")
		}
		return c.Next()
	}
}

// RequireAction gates a route on the action policy table. The table decides
// per action whether the original or the effective role applies.
func RequireAction(action access.ActionID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		original, ok1 := c.Locals(CtxOriginalRoleKey).(models.Role)
		effective, ok2 := c.Locals(CtxEffectiveRoleKey).(models.Role)
		if !ok1 || !ok2 {
			return fiber.NewError(fiber.StatusForbidden, "Role information missing")
		}
		if !access.CanPerformAction(original, effective, action) {
			return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id from locals.
func UserID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(CtxUserIDKey).(string)
	if !ok || id == "" {
		return "", fiber.NewError(fiber.StatusForbidden, "User information missing")
	}
	return id, nil
}

// Roles returns the original and effective roles from locals.
func Roles(c *fiber.Ctx) (original, effective models.Role, err error) {
	original, ok1 := c.Locals(CtxOriginalRoleKey).(models.Role)
	effective, ok2 := c.Locals(CtxEffectiveRoleKey).(models.Role)
	if !ok1 || !ok2 {
		return "", "", fiber.NewError(fiber.StatusForbidden, "Role information missing")
	}
	return original, effective, nil
}
