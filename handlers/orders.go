package handlers

import (
	"storefront/app"
	"storefront/middleware"
	"storefront/models"

	"github.com/gofiber/fiber/v2"
)

// ==================== OWNER ORDER HANDLERS ====================

func ListOrders(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		filter := models.OrderFilter{
			Status:        c.Query("status"),
			PaymentStatus: c.Query("payment_status"),
			Limit:         limit,
			Offset:        offset,
		}

		orders, total, err := a.OrderService.List(middleware.GetUserID(c), c.Params("id"), filter)
		if err != nil {
			return serviceError(c, err, "Failed to list orders")
		}
		return success(c, fiber.Map{
			"orders": orders,
			"total":  total,
		})
	}
}

func GetOrder(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := a.OrderService.Get(middleware.GetUserID(c), c.Params("id"), c.Params("orderId"))
		if err != nil {
			return serviceError(c, err, "Failed to load order")
		}
		return success(c, fiber.Map{"order": order})
	}
}

func VerifyPayment(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := a.OrderService.VerifyPayment(middleware.GetUserID(c), c.Params("id"), c.Params("orderId"))
		if err != nil {
			return serviceError(c, err, "Failed to verify payment")
		}
		return success(c, fiber.Map{"order": order})
	}
}

func RejectPayment(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RejectPaymentRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		order, err := a.OrderService.RejectPayment(middleware.GetUserID(c), c.Params("id"), c.Params("orderId"), req.Note)
		if err != nil {
			return serviceError(c, err, "Failed to reject payment")
		}
		return success(c, fiber.Map{"order": order})
	}
}

func UpdateOrderStatus(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateOrderStatusRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		order, err := a.OrderService.UpdateStatus(middleware.GetUserID(c), c.Params("id"), c.Params("orderId"), models.OrderStatus(req.Status))
		if err != nil {
			return serviceError(c, err, "Failed to update order")
		}
		return success(c, fiber.Map{"order": order})
	}
}
