package middleware

import (
	"storefront/models"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionLookup resolves a session id to a live session
type SessionLookup interface {
	Get(sessionID string) (*models.Session, error)
}

// AuthRequired requires a valid session from the session_id cookie or a Bearer header
func AuthRequired(sessions SessionLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session_id")
		if sessionID != "" {
			sess, err := sessions.Get(sessionID)
			if err == nil && sess != nil {
				setSession(c, sess)
				return c.Next()
			}
			c.ClearCookie("session_id")
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		sess, err := sessions.Get(parts[1])
		if err != nil || sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		setSession(c, sess)
		return c.Next()
	}
}

// RequireRole rejects sessions without the given role. Must run after AuthRequired.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		if sess.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}
		return c.Next()
	}
}

func setSession(c *fiber.Ctx, sess *models.Session) {
	c.Locals("userID", sess.UserID)
	c.Locals("userEmail", sess.Email)
	c.Locals("session", sess)
}

func GetSession(c *fiber.Ctx) *models.Session {
	sess, ok := c.Locals("session").(*models.Session)
	if !ok {
		return nil
	}
	return sess
}

func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return ""
	}
	return userID
}

func GetUserEmail(c *fiber.Ctx) string {
	email, ok := c.Locals("userEmail").(string)
	if !ok {
		return ""
	}
	return email
}
