package handlers

import (
	"storefront/app"
	"storefront/middleware"
	"storefront/models"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ==================== SUPPORT TICKET HANDLERS ====================

func CreateTicket(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateTicketRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		ticket, err := a.TicketService.Create(middleware.GetSession(c), req)
		if err != nil {
			return serviceError(c, err, "Failed to create ticket")
		}
		return created(c, fiber.Map{"ticket": ticket})
	}
}

// ListTickets returns the caller's tickets, or every ticket for a super admin
func ListTickets(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tickets, err := a.TicketService.List(middleware.GetSession(c), c.Query("status"))
		if err != nil {
			return serviceError(c, err, "Failed to list tickets")
		}
		return success(c, fiber.Map{"tickets": tickets})
	}
}

func GetTicket(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticket, err := a.TicketService.Get(middleware.GetSession(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err, "Failed to load ticket")
		}
		return success(c, fiber.Map{"ticket": ticket})
	}
}

// ListTicketMessages supports polling with ?after=<RFC3339>
func ListTicketMessages(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var after *time.Time
		if raw := c.Query("after"); raw != "" {
			t, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return badRequest(c, "after must be an RFC3339 timestamp")
			}
			after = &t
		}

		messages, cursor, err := a.TicketService.Messages(middleware.GetSession(c), c.Params("id"), after)
		if err != nil {
			return serviceError(c, err, "Failed to load messages")
		}
		return success(c, fiber.Map{
			"messages":    messages,
			"server_time": cursor,
		})
	}
}

func PostTicketMessage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.TicketMessageRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		message, err := a.TicketService.PostMessage(middleware.GetSession(c), c.Params("id"), req.Body)
		if err != nil {
			return serviceError(c, err, "Failed to post message")
		}
		return created(c, fiber.Map{"message": message})
	}
}

// SetTicketStatus closes or reopens a ticket
func SetTicketStatus(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Status string `json:"status" validate:"required,oneof=open closed"`
		}
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		ticket, err := a.TicketService.SetStatus(middleware.GetSession(c), c.Params("id"), models.TicketStatus(req.Status))
		if err != nil {
			return serviceError(c, err, "Failed to update ticket")
		}
		return success(c, fiber.Map{"ticket": ticket})
	}
}
