package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentGCash PaymentMethod = "gcash"
	PaymentCOD   PaymentMethod = "cod"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentAwaiting        PaymentStatus = "awaiting_payment"
	PaymentForVerification PaymentStatus = "for_verification"
	PaymentVerified        PaymentStatus = "verified"
	PaymentRejected        PaymentStatus = "rejected"
	PaymentCODPending      PaymentStatus = "cod_pending"
	PaymentCollected       PaymentStatus = "collected"
)

// orderTransitions lists the statuses reachable from each status
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID               string          `json:"id"`
	OrderNumber      string          `json:"order_number"`
	StoreID          string          `json:"store_id"`
	CustomerName     string          `json:"customer_name"`
	CustomerEmail    string          `json:"customer_email"`
	CustomerPhone    string          `json:"customer_phone"`
	ShippingAddress  string          `json:"shipping_address"`
	Region           string          `json:"region"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	Status           OrderStatus     `json:"status"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	PaymentProofURL  string          `json:"payment_proof_url,omitempty"`
	PaymentNote      string          `json:"payment_note,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	Total            decimal.Decimal `json:"total"`
	TotalWeightKg    decimal.Decimal `json:"total_weight_kg"`
	WeightBand       string          `json:"weight_band"`
	Notes            string          `json:"notes,omitempty"`
	Items            []OrderItem     `json:"items,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderFilter narrows an owner's order listing
type OrderFilter struct {
	Status        string
	PaymentStatus string
	Limit         int
	Offset        int
}

// CartQuote is the priced result of a cart before it becomes an order
type CartQuote struct {
	Items         []OrderItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`
	WeightBand    string          `json:"weight_band"`
	Region        string          `json:"region"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	FreeShipping  bool            `json:"free_shipping"`
	Total         decimal.Decimal `json:"total"`
}
