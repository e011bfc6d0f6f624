package handlers

import (
	"storefront/app"
	"storefront/middleware"
	"storefront/models"

	"github.com/gofiber/fiber/v2"
)

// ==================== API APPLICATION HANDLERS ====================

func SubmitApplication(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ApiApplicationRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		application, err := a.ApplicationService.Submit(middleware.GetUserID(c), req)
		if err != nil {
			return serviceError(c, err, "Failed to submit application")
		}
		return created(c, fiber.Map{"application": application})
	}
}

func ListMyApplications(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applications, err := a.ApplicationService.ListMine(middleware.GetUserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to list applications")
		}
		return success(c, fiber.Map{"applications": applications})
	}
}

// ListApplications is the super admin review queue
func ListApplications(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applications, err := a.ApplicationService.List(c.Query("status"))
		if err != nil {
			return serviceError(c, err, "Failed to list applications")
		}
		return success(c, fiber.Map{"applications": applications})
	}
}

// ApproveApplication issues an API key. The plaintext key is only returned here.
func ApproveApplication(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ReviewApplicationRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		application, key, err := a.ApplicationService.Approve(middleware.GetUserID(c), c.Params("id"), req.Note)
		if err != nil {
			return serviceError(c, err, "Failed to approve application")
		}

		a.Logger.Info("api application approved",
			"application_id", application.ID,
			"store_id", application.StoreID,
			"api_type", application.ApiType)

		return success(c, fiber.Map{
			"application": application,
			"api_key":     key,
		})
	}
}

func RejectApplication(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ReviewApplicationRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		application, err := a.ApplicationService.Reject(middleware.GetUserID(c), c.Params("id"), req.Note)
		if err != nil {
			return serviceError(c, err, "Failed to reject application")
		}
		return success(c, fiber.Map{"application": application})
	}
}

func RevokeApplication(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ReviewApplicationRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		application, err := a.ApplicationService.Revoke(middleware.GetUserID(c), c.Params("id"), req.Note)
		if err != nil {
			return serviceError(c, err, "Failed to revoke application")
		}
		return success(c, fiber.Map{"application": application})
	}
}
