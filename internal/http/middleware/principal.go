package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	// UserIDHeader carries the authenticated user's numeric ID, injected
	// by the gateway in front of this service.
	UserIDHeader = "X-User-ID"
	// UserRoleHeader carries the authenticated user's role.
	UserRoleHeader = "X-User-Role"

	// OwnerIDLocalKey stores the caller's owner ID (int64) in locals.
	OwnerIDLocalKey = "owner_id"
	// IsAdminLocalKey stores whether the caller is an admin (bool).
	IsAdminLocalKey = "is_admin"

	adminRole = "admin"
)

// Principal extracts the caller identity from the gateway-injected
// headers and stores it in context locals. Requests without a valid
// X-User-ID are rejected with 401 before reaching any handler.
func Principal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(UserIDHeader)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
		}
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ownerID <= 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid identity")
		}

		c.Locals(OwnerIDLocalKey, ownerID)
		c.Locals(IsAdminLocalKey, c.Get(UserRoleHeader) == adminRole)

		return c.Next()
	}
}

// RequireAdmin guards admin-only routes. It must run after Principal.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if admin, _ := c.Locals(IsAdminLocalKey).(bool); !admin {
			return fiber.NewError(fiber.StatusForbidden, "admin only")
		}
		return c.Next()
	}
}

// OwnerID returns the caller's owner ID stored by Principal.
func OwnerID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(OwnerIDLocalKey).(int64)
	return id
}

// IsAdmin reports whether the caller was identified as an admin.
func IsAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals(IsAdminLocalKey).(bool)
	return admin
}
