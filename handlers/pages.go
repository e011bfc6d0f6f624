package handlers

import (
	"storefront/app"
	"storefront/templates/pages"

	"github.com/gofiber/fiber/v2"
)

// Dashboard serves the owner and admin app shell
func Dashboard(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/html; charset=utf-8")
		script := a.Assets.Script("src/dashboard.ts")
		return pages.Dashboard(a.Config.GoogleClientID, a.Config.Env, script).Render(c.UserContext(), c.Response().BodyWriter())
	}
}

// StorePage renders a published store for embedding
func StorePage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ps, err := a.StoreService.Public(c.UserContext(), c.Params("domain"))
		if err != nil {
			return serviceError(c, err, "Failed to load store")
		}

		c.Set("Content-Type", "text/html; charset=utf-8")
		c.Set("Cache-Control", "public, max-age=60")
		return pages.Storefront(ps).Render(c.UserContext(), c.Response().BodyWriter())
	}
}
