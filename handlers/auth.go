package handlers

import (
	"storefront/app"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"
	"time"

	"github.com/gofiber/fiber/v2"
)

func setSessionCookie(c *fiber.Ctx, a *app.App, sess *models.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     "session_id",
		Value:    sess.ID,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   a.Config.IsProduction(),
		SameSite: "Lax",
		Path:     "/",
	})
}

func loginResult(c *fiber.Ctx, a *app.App, resp *services.LoginResponse, status int) error {
	setSessionCookie(c, a, resp.Session)

	return c.Status(status).JSON(fiber.Map{
		"success":    true,
		"token":      resp.Session.ID,
		"expires_at": resp.Session.ExpiresAt,
		"user":       resp.User,
	})
}

// Register creates a store owner account and starts a session
func Register(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		resp, err := a.AuthService.Register(req)
		if err != nil {
			return serviceError(c, err, "Failed to register")
		}

		a.Logger.Info("owner registered", "user_id", resp.User.ID)
		return loginResult(c, a, resp, fiber.StatusCreated)
	}
}

// Login handles email and password authentication
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		resp, err := a.AuthService.Login(req.Email, req.Password)
		if err != nil {
			return serviceError(c, err, "Authentication failed")
		}

		return loginResult(c, a, resp, fiber.StatusOK)
	}
}

// GoogleLogin exchanges a Google ID token for a session
func GoogleLogin(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.GoogleLoginRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		resp, err := a.AuthService.LoginWithIDToken(c.UserContext(), req.IDToken)
		if err != nil {
			return serviceError(c, err, "Authentication failed")
		}

		return loginResult(c, a, resp, fiber.StatusOK)
	}
}

// Logout handles user logout
func Logout(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session_id")
		if sessionID == "" {
			if sess := middleware.GetSession(c); sess != nil {
				sessionID = sess.ID
			}
		}
		if sessionID != "" {
			if err := a.AuthService.Logout(sessionID); err != nil {
				a.Logger.Warn("failed to delete session", "error", err)
			}
		}

		c.ClearCookie("session_id")

		return c.JSON(fiber.Map{
			"success": true,
		})
	}
}

// Me returns the current user
func Me(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.GetSession(c)
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"authenticated": false,
			})
		}

		user, err := a.AuthService.Me(sess.UserID)
		if err != nil {
			return serviceError(c, err, "Failed to load user")
		}

		// Update last used timestamp
		if err := a.SessionStore.Touch(sess.ID); err != nil {
			a.Logger.Warn("failed to touch session", "error", err)
		}

		return c.JSON(fiber.Map{
			"authenticated": true,
			"user":          user,
			"expires_at":    sess.ExpiresAt,
		})
	}
}

// ChangePassword updates the password and replaces every session of the user
func ChangePassword(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ChangePasswordRequest
		if ok, err := parseBody(c, a.Validator, &req); !ok {
			return err
		}

		sess := middleware.GetSession(c)
		newSession, err := a.AuthService.ChangePassword(sess.UserID, req)
		if err != nil {
			return serviceError(c, err, "Failed to change password")
		}

		setSessionCookie(c, a, newSession)
		return c.JSON(fiber.Map{
			"success":    true,
			"token":      newSession.ID,
			"expires_at": newSession.ExpiresAt,
		})
	}
}

// ServerTime returns the server clock, used by the dashboard to format order dates
func ServerTime(c *fiber.Ctx) error {
	timezone := c.Query("timezone", "Asia/Manila")

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	now := time.Now().In(loc)

	return c.JSON(fiber.Map{
		"timestamp": now.Unix(),
		"timezone":  loc.String(),
		"iso":       now.Format(time.RFC3339),
	})
}
