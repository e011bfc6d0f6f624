package handlers

import (
	"storefront/app"
	"storefront/middleware"
	"storefront/models"

	"github.com/gofiber/fiber/v2"
)

// ==================== PRODUCT HANDLERS ====================

func ListProducts(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := a.ProductService.List(middleware.GetUserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err, "Failed to list products")
		}
		return success(c, fiber.Map{"products": products})
	}
}

func GetProduct(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		product, err := a.ProductService.Get(middleware.GetUserID(c), c.Params("id"), c.Params("productId"))
		if err != nil {
			return serviceError(c, err, "Failed to load product")
		}
		return success(c, fiber.Map{"product": product})
	}
}

func CreateProduct(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ProductRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		product, err := a.ProductService.Create(middleware.GetUserID(c), c.Params("id"), req)
		if err != nil {
			return serviceError(c, err, "Failed to create product")
		}
		return created(c, fiber.Map{"product": product})
	}
}

func UpdateProduct(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ProductRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		product, err := a.ProductService.Update(middleware.GetUserID(c), c.Params("id"), c.Params("productId"), req)
		if err != nil {
			return serviceError(c, err, "Failed to update product")
		}
		return success(c, fiber.Map{"product": product})
	}
}

// AdjustStock applies a signed delta to a product's stock
func AdjustStock(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.StockAdjustRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		product, err := a.ProductService.AdjustStock(middleware.GetUserID(c), c.Params("id"), c.Params("productId"), req.Delta)
		if err != nil {
			return serviceError(c, err, "Failed to adjust stock")
		}
		return success(c, fiber.Map{"product": product})
	}
}

func DeleteProduct(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.ProductService.Delete(middleware.GetUserID(c), c.Params("id"), c.Params("productId")); err != nil {
			return serviceError(c, err, "Failed to delete product")
		}
		return success(c, fiber.Map{"success": true})
	}
}
