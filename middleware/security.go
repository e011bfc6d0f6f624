package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const baseCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' https://accounts.google.com https://www.gstatic.com; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; connect-src 'self' https://accounts.google.com; frame-src https://accounts.google.com; font-src 'self' data:"

// Security sets the response hardening headers. Published store pages under
// embedPrefix may be framed by frameAncestors; everything else refuses framing.
func Security(embedPrefix, frameAncestors string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		if embedPrefix != "" && strings.HasPrefix(c.Path(), embedPrefix) {
			c.Set("Content-Security-Policy", baseCSP+"; frame-ancestors "+frameAncestors)
		} else {
			c.Set("X-Frame-Options", "DENY")
			c.Set("Content-Security-Policy", baseCSP+"; frame-ancestors 'none'")
		}
		return c.Next()
	}
}
