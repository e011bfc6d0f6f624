package handlers

import (
	"storefront/app"
	"storefront/middleware"
	"storefront/models"

	"github.com/gofiber/fiber/v2"
)

// ==================== STORE HANDLERS ====================

func ListStores(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stores, err := a.StoreService.List(middleware.GetUserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to list stores")
		}
		return success(c, fiber.Map{"stores": stores})
	}
}

func GetStore(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, err := a.StoreService.Get(middleware.GetUserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err, "Failed to load store")
		}
		return success(c, fiber.Map{"store": store})
	}
}

func CreateStore(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.StoreRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		store, err := a.StoreService.Create(middleware.GetUserID(c), req)
		if err != nil {
			return serviceError(c, err, "Failed to create store")
		}
		return created(c, fiber.Map{"store": store})
	}
}

func UpdateStore(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.StoreRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		store, err := a.StoreService.Update(middleware.GetUserID(c), c.Params("id"), req)
		if err != nil {
			return serviceError(c, err, "Failed to update store")
		}
		return success(c, fiber.Map{"store": store})
	}
}

func PublishStore(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, err := a.StoreService.Publish(middleware.GetUserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err, "Failed to publish store")
		}
		return success(c, fiber.Map{
			"store": store,
			"url":   a.Config.PublicBaseURL + "/s/" + store.Domain,
		})
	}
}

func UnpublishStore(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, err := a.StoreService.Unpublish(middleware.GetUserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err, "Failed to unpublish store")
		}
		return success(c, fiber.Map{"store": store})
	}
}

func DeleteStore(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.StoreService.Delete(middleware.GetUserID(c), c.Params("id")); err != nil {
			return serviceError(c, err, "Failed to delete store")
		}
		return success(c, fiber.Map{"success": true})
	}
}

// ==================== SHIPPING RATE HANDLERS ====================

func GetShippingRates(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rates, err := a.ShippingService.Rates(middleware.GetUserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err, "Failed to load shipping rates")
		}
		return success(c, fiber.Map{"shipping_rates": rates})
	}
}

func ReplaceShippingRates(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ShippingRatesRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		rates, err := a.ShippingService.Replace(middleware.GetUserID(c), c.Params("id"), req)
		if err != nil {
			return serviceError(c, err, "Failed to save shipping rates")
		}
		return success(c, fiber.Map{"shipping_rates": rates})
	}
}
