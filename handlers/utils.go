package handlers

import (
	"errors"
	"log/slog"
	"storefront/services"
	"storefront/validator"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, data fiber.Map) error {
	return c.JSON(data)
}

func created(c *fiber.Ctx, data fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}

func validationError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": verrs,
		})
	}
	return badRequest(c, err.Error())
}

// parseBody decodes and validates a JSON request body. An empty body is validated as the zero value.
func parseBody(c *fiber.Ctx, v *validator.Validator, out interface{}) (bool, error) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return false, badRequest(c, "Invalid request body")
		}
	}
	if err := v.Validate(out); err != nil {
		return false, validationError(c, err)
	}
	return true, nil
}

// errorStatus maps service errors to HTTP status codes
var errorStatus = map[error]int{
	services.ErrInvalidCredentials:  fiber.StatusUnauthorized,
	services.ErrInvalidToken:        fiber.StatusUnauthorized,
	services.ErrInvalidUserInfo:     fiber.StatusUnauthorized,
	services.ErrSessionNotFound:     fiber.StatusUnauthorized,
	services.ErrUnauthorized:        fiber.StatusUnauthorized,
	services.ErrInvalidApiKey:       fiber.StatusUnauthorized,
	services.ErrForbidden:           fiber.StatusForbidden,
	services.ErrAccountDisabled:     fiber.StatusForbidden,
	services.ErrGoogleLoginDisabled: fiber.StatusBadRequest,
	services.ErrPasswordTooLong:     fiber.StatusBadRequest,

	services.ErrUserNotFound:        fiber.StatusNotFound,
	services.ErrStoreNotFound:       fiber.StatusNotFound,
	services.ErrProductNotFound:     fiber.StatusNotFound,
	services.ErrOrderNotFound:       fiber.StatusNotFound,
	services.ErrApplicationNotFound: fiber.StatusNotFound,
	services.ErrTicketNotFound:      fiber.StatusNotFound,
	services.ErrEventNotFound:       fiber.StatusNotFound,

	services.ErrEmailTaken:          fiber.StatusConflict,
	services.ErrDomainTaken:         fiber.StatusConflict,
	services.ErrInsufficientStock:   fiber.StatusConflict,
	services.ErrInvalidTransition:   fiber.StatusConflict,
	services.ErrPaymentNotVerified:  fiber.StatusConflict,
	services.ErrOrderChanged:        fiber.StatusConflict,
	services.ErrApplicationExists:   fiber.StatusConflict,
	services.ErrApplicationReviewed: fiber.StatusConflict,
	services.ErrTicketClosed:        fiber.StatusConflict,
	services.ErrEventNotRetryable:   fiber.StatusConflict,

	services.ErrNoActiveProducts:         fiber.StatusUnprocessableEntity,
	services.ErrNoPaymentMethod:          fiber.StatusUnprocessableEntity,
	services.ErrProductUnavailable:       fiber.StatusUnprocessableEntity,
	services.ErrPaymentMethodUnavailable: fiber.StatusUnprocessableEntity,
	services.ErrShippingUnavailable:      fiber.StatusUnprocessableEntity,
}

// serviceError renders a known service error with its status, anything else as a 500
func serviceError(c *fiber.Ctx, err error, message string) error {
	for target, status := range errorStatus {
		if errors.Is(err, target) {
			return c.Status(status).JSON(fiber.Map{"error": target.Error()})
		}
	}
	return serverErrorWithDetails(c, message, err)
}

func serverErrorWithDetails(c *fiber.Ctx, message string, err error) error {
	requestID := ""
	if id, ok := c.Locals("requestID").(string); ok {
		requestID = id
	}

	slog.Error("server error",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"message", message,
		"error", err,
	)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":      message,
		"request_id": requestID,
	})
}

// pagination reads limit and offset query parameters
func pagination(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	offset, _ = strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
