package middleware

import (
	"storefront/models"

	"github.com/gofiber/fiber/v2"
)

// KeyAuthenticator resolves an API key to its approved application
type KeyAuthenticator interface {
	Authenticate(key string) (*models.ApiApplication, error)
}

// APIKey guards the external API with the X-API-Key header and an application type
func APIKey(auth KeyAuthenticator, apiType models.ApiType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing API key",
			})
		}

		app, err := auth.Authenticate(key)
		if err != nil || app == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API key",
			})
		}

		if app.ApiType != apiType {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "API key is not valid for this endpoint",
			})
		}

		c.Locals("apiApplication", app)
		c.Locals("storeID", app.StoreID)
		return c.Next()
	}
}

func GetApplication(c *fiber.Ctx) *models.ApiApplication {
	app, ok := c.Locals("apiApplication").(*models.ApiApplication)
	if !ok {
		return nil
	}
	return app
}
