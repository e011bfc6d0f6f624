package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Template string

const (
	TemplateClassic Template = "classic"
	TemplateMinimal Template = "minimal"
	TemplateBold    Template = "bold"
)

// Store is a tenant's shop configuration
type Store struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id,omitempty"`
	Name            string          `json:"name"`
	Domain          string          `json:"domain"`
	Template        Template        `json:"template"`
	Tagline         string          `json:"tagline"`
	Description     string          `json:"description"`
	LogoURL         string          `json:"logo_url"`
	PrimaryColor    string          `json:"primary_color"`
	AccentColor     string          `json:"accent_color"`
	ContactEmail    string          `json:"contact_email"`
	ContactPhone    string          `json:"contact_phone"`
	GCashName       string          `json:"gcash_name"`
	GCashNumber     string          `json:"gcash_number"`
	GCashQRURL      string          `json:"gcash_qr_url"`
	CODEnabled      bool            `json:"cod_enabled"`
	FreeShippingMin decimal.Decimal `json:"free_shipping_min"`
	Published       bool            `json:"published"`
	PublishedAt     *time.Time      `json:"published_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (s *Store) GCashEnabled() bool {
	return s.GCashQRURL != "" && s.GCashNumber != ""
}

// AcceptsPayment reports whether the store takes the given payment method
func (s *Store) AcceptsPayment(method PaymentMethod) bool {
	switch method {
	case PaymentGCash:
		return s.GCashEnabled()
	case PaymentCOD:
		return s.CODEnabled
	}
	return false
}

// PublicStore is the customer-facing view of a published store
type PublicStore struct {
	Store    *Store         `json:"store"`
	Products []Product      `json:"products"`
	Rates    []ShippingRate `json:"shipping_rates"`
}

type ShippingRate struct {
	Region     string          `json:"region"`
	WeightBand string          `json:"weight_band"`
	Fee        decimal.Decimal `json:"fee"`
	IsDefault  bool            `json:"is_default"`
}
