package services

import (
	"storefront/models"
	"storefront/shipping"
)

// ShippingService handles a store's shipping rate table
type ShippingService struct {
	repo ShippingRepository
}

// NewShippingService creates a new shipping service
func NewShippingService(repo ShippingRepository) *ShippingService {
	return &ShippingService{repo: repo}
}

// Rates returns the effective table of an owned store, defaults flagged
func (ss *ShippingService) Rates(ownerID, storeID string) ([]models.ShippingRate, error) {
	if _, err := ownedStore(ss.repo, ownerID, storeID); err != nil {
		return nil, err
	}
	return ss.effective(storeID)
}

// Replace swaps the store's overrides for the given set
func (ss *ShippingService) Replace(ownerID, storeID string, req models.ShippingRatesRequest) ([]models.ShippingRate, error) {
	if _, err := ownedStore(ss.repo, ownerID, storeID); err != nil {
		return nil, err
	}

	rates := make([]shipping.Rate, 0, len(req.Rates))
	for _, in := range req.Rates {
		rates = append(rates, shipping.Rate{
			Region: shipping.Region(in.Region),
			Band:   shipping.Band(in.WeightBand),
			Fee:    in.Fee,
		})
	}

	if err := ss.repo.ReplaceShippingRates(storeID, rates); err != nil {
		return nil, err
	}
	return ss.effective(storeID)
}

func (ss *ShippingService) effective(storeID string) ([]models.ShippingRate, error) {
	overrides, err := ss.repo.GetShippingRates(storeID)
	if err != nil {
		return nil, err
	}
	defaults, err := shipping.DefaultTable()
	if err != nil {
		return nil, err
	}
	return toShippingRates(shipping.EffectiveRates(defaults, overrides)), nil
}

type rateLister interface {
	GetShippingRates(storeID string) ([]shipping.Rate, error)
}

// storeTable returns the defaults merged with a store's overrides
func storeTable(repo rateLister, storeID string) (shipping.Table, error) {
	overrides, err := repo.GetShippingRates(storeID)
	if err != nil {
		return nil, err
	}
	defaults, err := shipping.DefaultTable()
	if err != nil {
		return nil, err
	}
	return shipping.Merge(defaults, shipping.FromRates(overrides)), nil
}
