package services

import (
	"storefront/database"
	"storefront/models"
	"storefront/shipping"
	"time"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetUserByID(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByGoogleID(googleID string) (*models.User, error)
	CreateUser(user *models.User) error
	LinkGoogleID(userID, googleID string) error
	UpdatePassword(userID, passwordHash string) error
	UpdateLastLogin(userID string) error
	SetUserRole(userID string, role models.Role) error
}

// SessionStore defines the interface for session management
type SessionStore interface {
	Create(user *models.User) (*models.Session, error)
	Get(sessionID string) (*models.Session, error)
	Delete(sessionID string) error
	DeleteForUser(userID string) error
}

// StoreRepository defines the interface for store data access
type StoreRepository interface {
	GetStoreByID(storeID string) (*models.Store, error)
	GetStoreByDomain(domain string) (*models.Store, error)
	ListStoresByOwner(ownerID string) ([]models.Store, error)
	CreateStore(store *models.Store) error
	UpdateStore(store *models.Store) error
	SetStorePublished(storeID string, published bool) error
	DeleteStore(storeID string) error
	CountActiveProducts(storeID string) (int, error)
	ListProducts(storeID string, activeOnly bool) ([]models.Product, error)
	GetShippingRates(storeID string) ([]shipping.Rate, error)
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetStoreByID(storeID string) (*models.Store, error)
	GetProduct(productID string) (*models.Product, error)
	ListProducts(storeID string, activeOnly bool) ([]models.Product, error)
	CreateProduct(product *models.Product) error
	UpdateProduct(product *models.Product) error
	AdjustStock(productID string, delta int) (int, error)
	DeleteProduct(productID string) error
}

// ShippingRepository defines the interface for shipping rate data access
type ShippingRepository interface {
	GetStoreByID(storeID string) (*models.Store, error)
	GetShippingRates(storeID string) ([]shipping.Rate, error)
	ReplaceShippingRates(storeID string, rates []shipping.Rate) error
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	GetStoreByID(storeID string) (*models.Store, error)
	GetStoreByDomain(domain string) (*models.Store, error)
	GetProductsByIDs(storeID string, productIDs []string) ([]models.Product, error)
	GetShippingRates(storeID string) ([]shipping.Rate, error)
	CreateOrder(order *models.Order, events ...*models.OutboxEvent) error
	GetOrderByID(orderID string) (*models.Order, error)
	GetOrderByNumber(orderNumber string) (*models.Order, error)
	ListOrders(storeID string, filter models.OrderFilter) ([]models.Order, int, error)
	UpdateOrderState(update database.OrderUpdate) error
}

// ApplicationRepository defines the interface for API application data access
type ApplicationRepository interface {
	GetStoreByID(storeID string) (*models.Store, error)
	GetShippingRates(storeID string) ([]shipping.Rate, error)
	CreateApplication(app *models.ApiApplication) error
	GetApplication(id string) (*models.ApiApplication, error)
	FindActiveApplication(storeID string, apiType models.ApiType) (*models.ApiApplication, error)
	GetApplicationByKeyHash(hash string) (*models.ApiApplication, error)
	ListApplicationsByOwner(ownerID string) ([]models.ApiApplication, error)
	ListApplications(status string) ([]models.ApiApplication, error)
	UpdateApplicationReview(app *models.ApiApplication, from models.ApplicationStatus) error
}

// TicketRepository defines the interface for support ticket data access
type TicketRepository interface {
	GetStoreByID(storeID string) (*models.Store, error)
	CreateTicket(ticket *models.SupportTicket, first *models.TicketMessage) error
	GetTicket(ticketID string) (*models.SupportTicket, error)
	ListTicketsByOwner(ownerID string) ([]models.SupportTicket, error)
	ListTickets(status string) ([]models.SupportTicket, error)
	AddTicketMessage(msg *models.TicketMessage) error
	ListTicketMessages(ticketID string, after *time.Time) ([]models.TicketMessage, error)
	SetTicketStatus(ticketID string, status models.TicketStatus) error
}

// AdminRepository defines the interface for super admin data access
type AdminRepository interface {
	GetUserByID(userID string) (*models.User, error)
	ListUsers(limit, offset int) ([]models.User, error)
	SetUserDisabled(userID string, disabled bool) error
	ListAllStores(limit, offset int) ([]models.Store, error)
	GetEvent(id string) (*models.OutboxEvent, error)
	GetFailedEvents(limit int) ([]models.OutboxEvent, error)
	RetryEvent(id string) (bool, error)
}

// EventDispatcher defines the interface for background event dispatch
type EventDispatcher interface {
	DispatchImmediate(eventID string)
}
