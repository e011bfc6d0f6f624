package setup

import (
	"storefront/app"
	"storefront/handlers"
	"storefront/middleware"
	"storefront/models"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {

	// Static assets with aggressive caching
	fiberApp.Static("/static", "./static", fiber.Static{
		Compress:      true,
		CacheDuration: 365 * 24 * time.Hour,
		MaxAge:        31536000,
	})

	// Pages
	fiberApp.Get("/", handlers.Dashboard(application))
	fiberApp.Get("/s/:domain", handlers.StorePage(application))
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	fiberApp.Get("/api/time", handlers.ServerTime)

	// Auth routes
	fiberApp.Post("/api/auth/register", handlers.Register(application))
	fiberApp.Post("/api/auth/login", handlers.Login(application))
	fiberApp.Post("/api/auth/google", handlers.GoogleLogin(application))
	fiberApp.Post("/api/auth/logout", handlers.Logout(application))

	// Customer routes
	public := fiberApp.Group("/api/public")
	public.Get("/stores/:domain", handlers.PublicStore(application))
	public.Post("/stores/:domain/quote", handlers.QuoteCart(application))
	public.Post("/stores/:domain/orders", orderLimiter(), handlers.PlaceOrder(application))
	public.Get("/orders/:number", handlers.TrackOrder(application))
	public.Post("/orders/:number/payment", handlers.SubmitPayment(application))

	// External API (X-API-Key)
	ext := fiberApp.Group("/api/ext/v1")
	ext.Post("/shipping/quote", middleware.APIKey(application.ApplicationService, models.ApiTypeShipping), handlers.ExtShippingQuote(application))
	ext.Get("/qr", middleware.APIKey(application.ApplicationService, models.ApiTypeQR), handlers.ExtPaymentQR(application))

	// Protected API routes
	api := fiberApp.Group("/api", middleware.AuthRequired(application.SessionStore), userLimiter())

	api.Get("/auth/me", handlers.Me(application))
	api.Put("/auth/password", handlers.ChangePassword(application))

	api.Get("/stores", handlers.ListStores(application))
	api.Post("/stores", handlers.CreateStore(application))
	api.Get("/stores/:id", handlers.GetStore(application))
	api.Put("/stores/:id", handlers.UpdateStore(application))
	api.Delete("/stores/:id", handlers.DeleteStore(application))
	api.Post("/stores/:id/publish", handlers.PublishStore(application))
	api.Post("/stores/:id/unpublish", handlers.UnpublishStore(application))

	api.Get("/stores/:id/products", handlers.ListProducts(application))
	api.Post("/stores/:id/products", handlers.CreateProduct(application))
	api.Get("/stores/:id/products/:productId", handlers.GetProduct(application))
	api.Put("/stores/:id/products/:productId", handlers.UpdateProduct(application))
	api.Patch("/stores/:id/products/:productId/stock", handlers.AdjustStock(application))
	api.Delete("/stores/:id/products/:productId", handlers.DeleteProduct(application))

	api.Get("/stores/:id/shipping-rates", handlers.GetShippingRates(application))
	api.Put("/stores/:id/shipping-rates", handlers.ReplaceShippingRates(application))

	api.Get("/stores/:id/orders", handlers.ListOrders(application))
	api.Get("/stores/:id/orders/:orderId", handlers.GetOrder(application))
	api.Post("/stores/:id/orders/:orderId/verify-payment", handlers.VerifyPayment(application))
	api.Post("/stores/:id/orders/:orderId/reject-payment", handlers.RejectPayment(application))
	api.Put("/stores/:id/orders/:orderId/status", handlers.UpdateOrderStatus(application))

	api.Get("/applications", handlers.ListMyApplications(application))
	api.Post("/applications", handlers.SubmitApplication(application))

	api.Get("/tickets", handlers.ListTickets(application))
	api.Post("/tickets", handlers.CreateTicket(application))
	api.Get("/tickets/:id", handlers.GetTicket(application))
	api.Put("/tickets/:id/status", handlers.SetTicketStatus(application))
	api.Get("/tickets/:id/messages", handlers.ListTicketMessages(application))
	api.Post("/tickets/:id/messages", handlers.PostTicketMessage(application))

	// Super admin routes
	admin := api.Group("/admin", middleware.RequireRole(models.RoleSuperAdmin))
	admin.Get("/users", handlers.AdminListUsers(application))
	admin.Put("/users/:id/disable", handlers.AdminSetUserDisabled(application, true))
	admin.Put("/users/:id/enable", handlers.AdminSetUserDisabled(application, false))
	admin.Get("/stores", handlers.AdminListStores(application))
	admin.Get("/applications", handlers.ListApplications(application))
	admin.Post("/applications/:id/approve", handlers.ApproveApplication(application))
	admin.Post("/applications/:id/reject", handlers.RejectApplication(application))
	admin.Post("/applications/:id/revoke", handlers.RevokeApplication(application))
	admin.Get("/tickets", handlers.ListTickets(application))
	admin.Get("/outbox/failed", handlers.AdminFailedEvents(application))
	admin.Post("/outbox/:id/retry", handlers.AdminRetryEvent(application))
}
