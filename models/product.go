package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"store_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
	WeightBand  string          `json:"weight_band"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	Active      bool            `json:"active"`
	SortOrder   int             `json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
