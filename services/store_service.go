package services

import (
	"context"
	"errors"
	"storefront/database"
	"storefront/models"
	"storefront/shipping"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type storeGetter interface {
	GetStoreByID(storeID string) (*models.Store, error)
}

// ownedStore loads a store and hides it from anyone but its owner
func ownedStore(repo storeGetter, ownerID, storeID string) (*models.Store, error) {
	store, err := repo.GetStoreByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.OwnerID != ownerID {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// StoreService handles business logic for stores
type StoreService struct {
	repo StoreRepository
}

// NewStoreService creates a new store service
func NewStoreService(repo StoreRepository) *StoreService {
	return &StoreService{repo: repo}
}

// List retrieves all stores of an owner
func (ss *StoreService) List(ownerID string) ([]models.Store, error) {
	return ss.repo.ListStoresByOwner(ownerID)
}

// Get retrieves one of the owner's stores
func (ss *StoreService) Get(ownerID, storeID string) (*models.Store, error) {
	return ownedStore(ss.repo, ownerID, storeID)
}

// Create creates a new unpublished store
func (ss *StoreService) Create(ownerID string, req models.StoreRequest) (*models.Store, error) {
	now := time.Now().UTC()
	store := &models.Store{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyStoreRequest(store, req)

	if err := ss.repo.CreateStore(store); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDomainTaken
		}
		return nil, err
	}
	return store, nil
}

// Update saves the store configuration.
// A published store must keep at least one payment method.
func (ss *StoreService) Update(ownerID, storeID string, req models.StoreRequest) (*models.Store, error) {
	store, err := ownedStore(ss.repo, ownerID, storeID)
	if err != nil {
		return nil, err
	}

	applyStoreRequest(store, req)
	store.UpdatedAt = time.Now().UTC()

	if store.Published && !store.GCashEnabled() && !store.CODEnabled {
		return nil, ErrNoPaymentMethod
	}

	if err := ss.repo.UpdateStore(store); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDomainTaken
		}
		return nil, err
	}
	return store, nil
}

func applyStoreRequest(store *models.Store, req models.StoreRequest) {
	store.Name = strings.TrimSpace(req.Name)
	store.Domain = req.Domain
	store.Template = models.Template(req.Template)
	store.Tagline = req.Tagline
	store.Description = req.Description
	store.LogoURL = req.LogoURL
	store.PrimaryColor = strings.ToLower(req.PrimaryColor)
	store.AccentColor = strings.ToLower(req.AccentColor)
	store.ContactEmail = req.ContactEmail
	store.ContactPhone = req.ContactPhone
	store.GCashName = req.GCashName
	store.GCashNumber = req.GCashNumber
	store.GCashQRURL = req.GCashQRURL
	store.CODEnabled = req.CODEnabled
	store.FreeShippingMin = req.FreeShippingMin
}

// Publish makes a store visible to customers
func (ss *StoreService) Publish(ownerID, storeID string) (*models.Store, error) {
	store, err := ownedStore(ss.repo, ownerID, storeID)
	if err != nil {
		return nil, err
	}

	count, err := ss.repo.CountActiveProducts(storeID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoActiveProducts
	}
	if !store.GCashEnabled() && !store.CODEnabled {
		return nil, ErrNoPaymentMethod
	}

	if err := ss.repo.SetStorePublished(storeID, true); err != nil {
		return nil, err
	}
	return ss.repo.GetStoreByID(storeID)
}

// Unpublish hides a store from customers
func (ss *StoreService) Unpublish(ownerID, storeID string) (*models.Store, error) {
	if _, err := ownedStore(ss.repo, ownerID, storeID); err != nil {
		return nil, err
	}
	if err := ss.repo.SetStorePublished(storeID, false); err != nil {
		return nil, err
	}
	return ss.repo.GetStoreByID(storeID)
}

// Delete removes a store with its products, rates and orders
func (ss *StoreService) Delete(ownerID, storeID string) error {
	if _, err := ownedStore(ss.repo, ownerID, storeID); err != nil {
		return err
	}
	return ss.repo.DeleteStore(storeID)
}

// Public loads a published store with its active products and effective shipping rates
func (ss *StoreService) Public(ctx context.Context, domain string) (*models.PublicStore, error) {
	store, err := ss.repo.GetStoreByDomain(strings.ToLower(domain))
	if err != nil {
		return nil, err
	}
	if store == nil || !store.Published {
		return nil, ErrStoreNotFound
	}

	var products []models.Product
	var rates []shipping.Rate

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = ss.repo.ListProducts(store.ID, true)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = ss.repo.GetShippingRates(store.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	defaults, err := shipping.DefaultTable()
	if err != nil {
		return nil, err
	}

	store.OwnerID = ""
	return &models.PublicStore{
		Store:    store,
		Products: products,
		Rates:    toShippingRates(shipping.EffectiveRates(defaults, rates)),
	}, nil
}

func toShippingRates(rates []shipping.Rate) []models.ShippingRate {
	out := make([]models.ShippingRate, 0, len(rates))
	for _, r := range rates {
		out = append(out, models.ShippingRate{
			Region:     string(r.Region),
			WeightBand: string(r.Band),
			Fee:        r.Fee,
			IsDefault:  r.IsDefault,
		})
	}
	return out
}
