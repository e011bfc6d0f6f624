package handlers

import (
	"storefront/app"
	"storefront/models"

	"github.com/gofiber/fiber/v2"
)

// ==================== CUSTOMER HANDLERS ====================

// PublicStore returns a published store with its products and shipping table
func PublicStore(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ps, err := a.StoreService.Public(c.UserContext(), c.Params("domain"))
		if err != nil {
			return serviceError(c, err, "Failed to load store")
		}
		return success(c, fiber.Map{
			"store":          ps.Store,
			"products":       ps.Products,
			"shipping_rates": ps.Rates,
		})
	}
}

// QuoteCart prices a cart for a region
func QuoteCart(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.QuoteRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		quote, err := a.OrderService.Quote(c.Params("domain"), req)
		if err != nil {
			return serviceError(c, err, "Failed to quote cart")
		}
		return success(c, fiber.Map{"quote": quote})
	}
}

// PlaceOrder creates an order and reserves stock
func PlaceOrder(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.PlaceOrderRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		order, err := a.OrderService.Place(c.Params("domain"), req)
		if err != nil {
			return serviceError(c, err, "Failed to place order")
		}

		a.Logger.Info("order placed",
			"order_number", order.OrderNumber,
			"store_id", order.StoreID,
			"payment_method", order.PaymentMethod)

		return created(c, fiber.Map{"order": order})
	}
}

// TrackOrder lets a customer look up an order by number and email
func TrackOrder(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.Query("email")
		if email == "" {
			return badRequest(c, "email is required")
		}

		order, err := a.OrderService.Track(c.Params("number"), email)
		if err != nil {
			return serviceError(c, err, "Failed to load order")
		}
		return success(c, fiber.Map{"order": order})
	}
}

// SubmitPayment records a customer's GCash reference for verification
func SubmitPayment(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SubmitPaymentRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		order, err := a.OrderService.SubmitPayment(c.Params("number"), req)
		if err != nil {
			return serviceError(c, err, "Failed to submit payment")
		}
		return success(c, fiber.Map{"order": order})
	}
}
