// Package middleware provides request middleware for the API
package middleware

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
)

// Locals keys set by the identity middleware
const (
	// LocalOwnerID is the authenticated user's ID
	LocalOwnerID = "ownerID"
	// LocalIsAdmin is whether the authenticated user carries the admin role
	LocalIsAdmin = "isAdmin"
)

// HeaderUserID carries the caller identity. Authentication itself happens
// upstream; this service only resolves the asserted identity explicitly so
// core calls never rely on ambient request context.
const HeaderUserID = "X-User-ID"

// Identity resolves the calling user and stores the identity in locals.
// Requests without a resolvable user are rejected with 401.
func Identity(userRepo *repos.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Get(HeaderUserID)
		if idStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authentication credentials were not provided.",
			})
		}

		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid authentication credentials.",
			})
		}

		user, err := userRepo.GetUserByID(c.Context(), uint(id))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid authentication credentials.",
			})
		}

		c.Locals(LocalOwnerID, user.ID)
		c.Locals(LocalIsAdmin, user.IsAdmin())
		return c.Next()
	}
}

// RequireAdmin rejects non-admin users with 403. Must run after Identity.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, _ := c.Locals(LocalIsAdmin).(bool)
		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": "You do not have permission to perform this action.",
			})
		}
		return c.Next()
	}
}

// OwnerID returns the authenticated user ID stored by Identity
func OwnerID(c *fiber.Ctx) uint {
	ownerID, _ := c.Locals(LocalOwnerID).(uint)
	return ownerID
}

// IsAdmin reports whether the authenticated user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	isAdmin, _ := c.Locals(LocalIsAdmin).(bool)
	return isAdmin
}

// EffectiveOwnerID returns AdminID for admin users so repositories skip
// owner filtering, and the caller's own ID otherwise
func EffectiveOwnerID(c *fiber.Ctx) uint {
	if IsAdmin(c) {
		return models.AdminID
	}
	return OwnerID(c)
}
