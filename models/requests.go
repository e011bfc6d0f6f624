package models

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8,bcryptlen"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,bcryptlen"`
}

type StoreRequest struct {
	Name            string          `json:"name" validate:"required,min=2,max=100"`
	Domain          string          `json:"domain" validate:"required,storedomain"`
	Template        string          `json:"template" validate:"required,template"`
	Tagline         string          `json:"tagline" validate:"max=160"`
	Description     string          `json:"description" validate:"max=2000"`
	LogoURL         string          `json:"logo_url" validate:"omitempty,url"`
	PrimaryColor    string          `json:"primary_color" validate:"omitempty,hexcolor6"`
	AccentColor     string          `json:"accent_color" validate:"omitempty,hexcolor6"`
	ContactEmail    string          `json:"contact_email" validate:"omitempty,email"`
	ContactPhone    string          `json:"contact_phone" validate:"omitempty,phmobile"`
	GCashName       string          `json:"gcash_name" validate:"max=100"`
	GCashNumber     string          `json:"gcash_number" validate:"omitempty,phmobile"`
	GCashQRURL      string          `json:"gcash_qr_url" validate:"omitempty,url"`
	CODEnabled      bool            `json:"cod_enabled"`
	FreeShippingMin decimal.Decimal `json:"free_shipping_min" validate:"decimalgte0"`
}

type ProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=150"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price" validate:"decimalgt0"`
	WeightKg    decimal.Decimal `json:"weight_kg" validate:"decimalgte0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Active      *bool           `json:"active"`
	SortOrder   int             `json:"sort_order" validate:"gte=0"`
}

type StockAdjustRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type ShippingRateInput struct {
	Region     string          `json:"region" validate:"required,region"`
	WeightBand string          `json:"weight_band" validate:"required,weightband"`
	Fee        decimal.Decimal `json:"fee" validate:"decimalgte0"`
}

type ShippingRatesRequest struct {
	Rates []ShippingRateInput `json:"rates" validate:"dive"`
}

type CartItemInput struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=999"`
}

type QuoteRequest struct {
	Items  []CartItemInput `json:"items" validate:"required,min=1,max=100,dive"`
	Region string          `json:"region" validate:"required,region"`
}

type PlaceOrderRequest struct {
	Items            []CartItemInput `json:"items" validate:"required,min=1,max=100,dive"`
	Region           string          `json:"region" validate:"required,region"`
	CustomerName     string          `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail    string          `json:"customer_email" validate:"required,email,max=254"`
	CustomerPhone    string          `json:"customer_phone" validate:"required,phmobile"`
	ShippingAddress  string          `json:"shipping_address" validate:"required,min=10,max=500"`
	PaymentMethod    string          `json:"payment_method" validate:"required,paymentmethod"`
	PaymentReference string          `json:"payment_reference" validate:"omitempty,min=4,max=64"`
	PaymentProofURL  string          `json:"payment_proof_url" validate:"omitempty,url"`
	Notes            string          `json:"notes" validate:"max=1000"`
}

type SubmitPaymentRequest struct {
	Email            string `json:"email" validate:"required,email"`
	PaymentReference string `json:"payment_reference" validate:"required,min=4,max=64"`
	PaymentProofURL  string `json:"payment_proof_url" validate:"omitempty,url"`
}

type RejectPaymentRequest struct {
	Note string `json:"note" validate:"required,max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed shipped delivered cancelled"`
}

type ApiApplicationRequest struct {
	StoreID string `json:"store_id" validate:"required,uuid"`
	ApiType string `json:"api_type" validate:"required,oneof=qr shipping"`
	Reason  string `json:"reason" validate:"required,min=10,max=1000"`
}

type ReviewApplicationRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type CreateTicketRequest struct {
	StoreID  string `json:"store_id" validate:"omitempty,uuid"`
	Subject  string `json:"subject" validate:"required,min=3,max=150"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high"`
	Message  string `json:"message" validate:"required,max=5000"`
}

type TicketMessageRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

type ExtShippingQuoteRequest struct {
	Region   string          `json:"region" validate:"required,region"`
	WeightKg decimal.Decimal `json:"weight_kg" validate:"decimalgte0"`
	Subtotal decimal.Decimal `json:"subtotal" validate:"decimalgte0"`
}
