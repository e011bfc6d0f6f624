package app

import (
	"log/slog"
	"storefront/config"
	"storefront/database"
	"storefront/outbox"
	"storefront/services"
	"storefront/session"
	"storefront/utils"
	"storefront/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Config       *config.Config
	Repo         *database.Repository
	SessionStore *session.Store
	Outbox       *outbox.Worker
	Validator    *validator.Validator
	Assets       *utils.Assets
	Logger       *slog.Logger

	AuthService        *services.AuthService
	StoreService       *services.StoreService
	ProductService     *services.ProductService
	ShippingService    *services.ShippingService
	OrderService       *services.OrderService
	ApplicationService *services.ApplicationService
	TicketService      *services.TicketService
	AdminService       *services.AdminService
}

// New creates a new App instance with all services built on the shared repository.
// worker may be nil, in which case events are left for a later dispatch.
func New(cfg *config.Config, repo *database.Repository, sessionStore *session.Store, worker *outbox.Worker, logger *slog.Logger) *App {
	var dispatcher services.EventDispatcher = noopDispatcher{}
	if worker != nil {
		dispatcher = worker
	}

	return &App{
		Config:       cfg,
		Repo:         repo,
		SessionStore: sessionStore,
		Outbox:       worker,
		Validator:    validator.New(),
		Assets:       utils.NewAssets("static/dist/.vite/manifest.json", logger),
		Logger:       logger,

		AuthService:        services.NewAuthService(repo, sessionStore, cfg.GoogleClientID),
		StoreService:       services.NewStoreService(repo),
		ProductService:     services.NewProductService(repo),
		ShippingService:    services.NewShippingService(repo),
		OrderService:       services.NewOrderService(repo, dispatcher),
		ApplicationService: services.NewApplicationService(repo),
		TicketService:      services.NewTicketService(repo),
		AdminService:       services.NewAdminService(repo, dispatcher),
	}
}

type noopDispatcher struct{}

func (noopDispatcher) DispatchImmediate(string) {}
