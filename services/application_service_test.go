package services

import (
	"storefront/models"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationService(t *testing.T) {
	repo := setupRepo(t)

	req := storeRequest("api-shop")
	req.GCashNumber = "09171234567"
	req.GCashQRURL = "https://cdn.example.com/qr.png"
	store, err := NewStoreService(repo).Create("owner-1", req)
	require.NoError(t, err)

	service := NewApplicationService(repo)

	app, err := service.Submit("owner-1", models.ApiApplicationRequest{
		StoreID: store.ID,
		ApiType: "shipping",
		Reason:  "Quote shipping on our Facebook shop",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)

	t.Run("One active application per store and type", func(t *testing.T) {
		_, err := service.Submit("owner-1", models.ApiApplicationRequest{
			StoreID: store.ID,
			ApiType: "shipping",
			Reason:  "Second attempt at the same thing",
		})
		assert.ErrorIs(t, err, ErrApplicationExists)
	})

	t.Run("Foreign store", func(t *testing.T) {
		_, err := service.Submit("owner-2", models.ApiApplicationRequest{
			StoreID: store.ID,
			ApiType: "qr",
			Reason:  "Not my store but let me try",
		})
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	var key string
	t.Run("Approve issues a key once", func(t *testing.T) {
		approved, plaintext, err := service.Approve("admin-1", app.ID, "ok")
		require.NoError(t, err)
		key = plaintext

		assert.Equal(t, models.ApplicationApproved, approved.Status)
		assert.True(t, strings.HasPrefix(key, "sf_live_"))
		assert.Len(t, key, len("sf_live_")+32)
		assert.True(t, strings.HasPrefix(key, approved.ApiKeyPrefix))
		assert.NotContains(t, approved.ApiKeyHash, key)

		_, _, err = service.Approve("admin-1", app.ID, "again")
		assert.ErrorIs(t, err, ErrApplicationReviewed)
	})

	t.Run("Authenticate and quote", func(t *testing.T) {
		authed, err := service.Authenticate(key)
		require.NoError(t, err)
		assert.Equal(t, app.ID, authed.ID)

		quote, err := service.ShippingQuote(authed, models.ExtShippingQuoteRequest{
			Region:   "mindanao",
			WeightKg: decimal.RequireFromString("4"),
			Subtotal: decimal.NewFromInt(300),
		})
		require.NoError(t, err)
		assert.True(t, quote.Fee.Equal(decimal.NewFromInt(280)))

		_, err = service.Authenticate("sf_live_0000")
		assert.ErrorIs(t, err, ErrInvalidApiKey)
		_, err = service.Authenticate("not-a-key")
		assert.ErrorIs(t, err, ErrInvalidApiKey)
	})

	t.Run("Revoke invalidates key", func(t *testing.T) {
		revoked, err := service.Revoke("admin-1", app.ID, "abuse")
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationRejected, revoked.Status)

		_, err = service.Authenticate(key)
		assert.ErrorIs(t, err, ErrInvalidApiKey)
	})

	t.Run("QR details", func(t *testing.T) {
		qrApp, err := service.Submit("owner-1", models.ApiApplicationRequest{
			StoreID: store.ID,
			ApiType: "qr",
			Reason:  "Show our QR on the flyer site",
		})
		require.NoError(t, err)

		rejected, err := service.Reject("admin-1", qrApp.ID, "incomplete")
		require.NoError(t, err)
		assert.Equal(t, "incomplete", rejected.ReviewNote)

		qr, err := service.QR(rejected)
		require.NoError(t, err)
		assert.Equal(t, "09171234567", qr.GCashNumber)
	})

	t.Run("Listing", func(t *testing.T) {
		mine, err := service.ListMine("owner-1")
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		pending, err := service.List("pending")
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

// staleCheckRepo misses the active application, as a submit racing another one would
type staleCheckRepo struct {
	ApplicationRepository
}

func (r *staleCheckRepo) FindActiveApplication(storeID string, apiType models.ApiType) (*models.ApiApplication, error) {
	return nil, nil
}

func TestApplicationService_SubmitRace(t *testing.T) {
	repo := setupRepo(t)
	store, err := NewStoreService(repo).Create("owner-1", storeRequest("race-shop"))
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, repo.CreateApplication(&models.ApiApplication{
		ID:        "winner",
		StoreID:   store.ID,
		OwnerID:   "owner-1",
		ApiType:   models.ApiTypeShipping,
		Reason:    "Submitted a moment earlier",
		Status:    models.ApplicationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	service := NewApplicationService(&staleCheckRepo{ApplicationRepository: repo})
	_, err = service.Submit("owner-1", models.ApiApplicationRequest{
		StoreID: store.ID,
		ApiType: "shipping",
		Reason:  "Quote shipping on our Facebook shop",
	})
	assert.ErrorIs(t, err, ErrApplicationExists)

	apps, err := repo.ListApplicationsByOwner("owner-1")
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}
