package handlers

import (
	"storefront/app"
	"storefront/middleware"

	"github.com/gofiber/fiber/v2"
)

// ==================== SUPER ADMIN HANDLERS ====================

func AdminListUsers(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		users, err := a.AdminService.ListUsers(limit, offset)
		if err != nil {
			return serviceError(c, err, "Failed to list users")
		}
		return success(c, fiber.Map{"users": users})
	}
}

// AdminSetUserDisabled returns a handler that disables or enables an account
func AdminSetUserDisabled(a *app.App, disabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := a.AdminService.SetUserDisabled(middleware.GetUserID(c), c.Params("id"), disabled)
		if err != nil {
			return serviceError(c, err, "Failed to update user")
		}

		a.Logger.Info("user access changed", "user_id", user.ID, "disabled", disabled, "admin_id", middleware.GetUserID(c))
		return success(c, fiber.Map{"user": user})
	}
}

func AdminListStores(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		stores, err := a.AdminService.ListStores(limit, offset)
		if err != nil {
			return serviceError(c, err, "Failed to list stores")
		}
		return success(c, fiber.Map{"stores": stores})
	}
}

func AdminFailedEvents(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, _ := pagination(c)
		events, err := a.AdminService.FailedEvents(limit)
		if err != nil {
			return serviceError(c, err, "Failed to list events")
		}
		return success(c, fiber.Map{"events": events})
	}
}

func AdminRetryEvent(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.AdminService.RetryEvent(c.Params("id")); err != nil {
			return serviceError(c, err, "Failed to retry event")
		}
		return success(c, fiber.Map{"success": true})
	}
}
