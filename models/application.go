package models

import "time"

type ApiType string

const (
	ApiTypeQR       ApiType = "qr"
	ApiTypeShipping ApiType = "shipping"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ApiApplication is a store owner's request for QR or shipping API access
type ApiApplication struct {
	ID           string            `json:"id"`
	StoreID      string            `json:"store_id"`
	OwnerID      string            `json:"owner_id"`
	ApiType      ApiType           `json:"api_type"`
	Reason       string            `json:"reason"`
	Status       ApplicationStatus `json:"status"`
	ReviewNote   string            `json:"review_note,omitempty"`
	ReviewedBy   string            `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time        `json:"reviewed_at,omitempty"`
	ApiKeyHash   string            `json:"-"`
	ApiKeyPrefix string            `json:"api_key_prefix,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
