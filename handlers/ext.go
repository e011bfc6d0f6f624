package handlers

import (
	"storefront/app"
	"storefront/middleware"
	"storefront/models"

	"github.com/gofiber/fiber/v2"
)

// ==================== EXTERNAL API HANDLERS ====================

// ExtShippingQuote prices a shipment for the store behind the API key
func ExtShippingQuote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ExtShippingQuoteRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		quote, err := a.ApplicationService.ShippingQuote(middleware.GetApplication(c), req)
		if err != nil {
			return serviceError(c, err, "Failed to quote shipping")
		}
		return success(c, fiber.Map{"quote": quote})
	}
}

// ExtPaymentQR returns the GCash details for the store behind the API key
func ExtPaymentQR(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		qr, err := a.ApplicationService.QR(middleware.GetApplication(c))
		if err != nil {
			return serviceError(c, err, "Failed to load payment QR")
		}
		return success(c, fiber.Map{"qr": qr})
	}
}
