package services

import "errors"

// Common service-level errors
var (
	// Auth errors
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidUserInfo     = errors.New("invalid user information")
	ErrSessionNotFound     = errors.New("session not found")
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrForbidden           = errors.New("forbidden")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrGoogleLoginDisabled = errors.New("google sign-in is not configured")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
	ErrUserNotFound        = errors.New("user not found")

	// Store errors
	ErrStoreNotFound    = errors.New("store not found")
	ErrDomainTaken      = errors.New("store domain is already taken")
	ErrNoActiveProducts = errors.New("store needs at least one active product to be published")
	ErrNoPaymentMethod  = errors.New("store needs GCash or cash on delivery enabled")

	// Product errors
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product is not available")

	// Order errors
	ErrOrderNotFound            = errors.New("order not found")
	ErrPaymentMethodUnavailable = errors.New("payment method is not accepted by this store")
	ErrInvalidTransition        = errors.New("order cannot move to the requested state")
	ErrPaymentNotVerified       = errors.New("gcash payment must be verified before confirming")
	ErrOrderChanged             = errors.New("order was modified, reload and try again")
	ErrShippingUnavailable      = errors.New("no shipping rate for this destination")
	ErrOrderNumberExhausted     = errors.New("could not allocate an order number")

	// API application errors
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("store already has a pending or approved application for this API")
	ErrApplicationReviewed = errors.New("application is not in a reviewable state")
	ErrInvalidApiKey       = errors.New("invalid API key")

	// Support ticket errors
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketClosed   = errors.New("ticket is closed")

	// Outbox errors
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotRetryable = errors.New("event is not failed or abandoned")
)
