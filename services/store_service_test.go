package services

import (
	"context"
	"os"
	"path/filepath"
	"storefront/database"
	"storefront/models"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRepo opens a migrated temp database with two owners
func setupRepo(t *testing.T) *database.Repository {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "services-test-*")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(tmpDir)
	})

	repo := database.NewRepository(db)
	for _, id := range []string{"owner-1", "owner-2"} {
		require.NoError(t, repo.CreateUser(&models.User{
			ID:        id,
			Email:     id + "@example.com",
			Name:      id,
			CreatedAt: time.Now().UTC(),
		}))
	}
	return repo
}

func storeRequest(domain string) models.StoreRequest {
	return models.StoreRequest{
		Name:            "Aling Nena",
		Domain:          domain,
		Template:        "classic",
		PrimaryColor:    "#AA3300",
		FreeShippingMin: decimal.Zero,
	}
}

func productRequest(name string, stock int) models.ProductRequest {
	return models.ProductRequest{
		Name:     name,
		Price:    decimal.NewFromInt(150),
		WeightKg: decimal.RequireFromString("0.75"),
		Stock:    stock,
	}
}

func TestStoreService_Lifecycle(t *testing.T) {
	repo := setupRepo(t)
	stores := NewStoreService(repo)
	products := NewProductService(repo)

	store, err := stores.Create("owner-1", storeRequest("aling-nena"))
	require.NoError(t, err)
	assert.Equal(t, "#aa3300", store.PrimaryColor)
	assert.False(t, store.Published)

	t.Run("Domain taken", func(t *testing.T) {
		_, err := stores.Create("owner-2", storeRequest("aling-nena"))
		assert.ErrorIs(t, err, ErrDomainTaken)
	})

	t.Run("Other owner cannot see store", func(t *testing.T) {
		_, err := stores.Get("owner-2", store.ID)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	t.Run("Publish needs an active product", func(t *testing.T) {
		_, err := stores.Publish("owner-1", store.ID)
		assert.ErrorIs(t, err, ErrNoActiveProducts)
	})

	_, err = products.Create("owner-1", store.ID, productRequest("Pili Tart", 5))
	require.NoError(t, err)

	t.Run("Publish needs a payment method", func(t *testing.T) {
		_, err := stores.Publish("owner-1", store.ID)
		assert.ErrorIs(t, err, ErrNoPaymentMethod)
	})

	req := storeRequest("aling-nena")
	req.CODEnabled = true
	_, err = stores.Update("owner-1", store.ID, req)
	require.NoError(t, err)

	published, err := stores.Publish("owner-1", store.ID)
	require.NoError(t, err)
	assert.True(t, published.Published)

	t.Run("Published store keeps a payment method", func(t *testing.T) {
		_, err := stores.Update("owner-1", store.ID, storeRequest("aling-nena"))
		assert.ErrorIs(t, err, ErrNoPaymentMethod)
	})

	t.Run("Public view", func(t *testing.T) {
		public, err := stores.Public(context.Background(), "ALING-NENA")
		require.NoError(t, err)
		assert.Empty(t, public.Store.OwnerID)
		assert.Len(t, public.Products, 1)
		assert.Len(t, public.Rates, 20)
		for _, r := range public.Rates {
			assert.True(t, r.IsDefault)
		}
	})

	t.Run("Unpublished store is not public", func(t *testing.T) {
		_, err := stores.Unpublish("owner-1", store.ID)
		require.NoError(t, err)

		_, err = stores.Public(context.Background(), "aling-nena")
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.ErrorIs(t, stores.Delete("owner-2", store.ID), ErrStoreNotFound)
		require.NoError(t, stores.Delete("owner-1", store.ID))

		list, err := stores.List("owner-1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestProductService(t *testing.T) {
	repo := setupRepo(t)
	store, err := NewStoreService(repo).Create("owner-1", storeRequest("pili-house"))
	require.NoError(t, err)

	service := NewProductService(repo)

	product, err := service.Create("owner-1", store.ID, productRequest("Pili Tart", 5))
	require.NoError(t, err)
	assert.Equal(t, "0.5-1", product.WeightBand)
	assert.True(t, product.Active)

	t.Run("Update derives band and keeps active flag", func(t *testing.T) {
		req := productRequest("Pili Tart Box", 5)
		req.WeightKg = decimal.RequireFromString("3.5")

		updated, err := service.Update("owner-1", store.ID, product.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "3-5", updated.WeightBand)
		assert.True(t, updated.Active)

		inactive := false
		req.Active = &inactive
		updated, err = service.Update("owner-1", store.ID, product.ID, req)
		require.NoError(t, err)
		assert.False(t, updated.Active)
	})

	t.Run("Stock cannot go negative", func(t *testing.T) {
		p, err := service.AdjustStock("owner-1", store.ID, product.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 8, p.Stock)

		_, err = service.AdjustStock("owner-1", store.ID, product.ID, -9)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("Foreign owner", func(t *testing.T) {
		_, err := service.Get("owner-2", store.ID, product.ID)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, service.Delete("owner-1", store.ID, product.ID))
		_, err := service.Get("owner-1", store.ID, product.ID)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestShippingService(t *testing.T) {
	repo := setupRepo(t)
	store, err := NewStoreService(repo).Create("owner-1", storeRequest("rates-shop"))
	require.NoError(t, err)

	service := NewShippingService(repo)

	rates, err := service.Replace("owner-1", store.ID, models.ShippingRatesRequest{
		Rates: []models.ShippingRateInput{
			{Region: "luzon", WeightBand: "1-3", Fee: decimal.NewFromInt(150)},
		},
	})
	require.NoError(t, err)
	require.Len(t, rates, 20)

	overridden := 0
	for _, r := range rates {
		if !r.IsDefault {
			overridden++
			assert.Equal(t, "luzon", r.Region)
			assert.True(t, r.Fee.Equal(decimal.NewFromInt(150)))
		}
	}
	assert.Equal(t, 1, overridden)

	_, err = service.Rates("owner-2", store.ID)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
