package services

import (
	"storefront/database"
	"storefront/models"
	"storefront/shipping"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==================== MOCKS ====================

// MockOrderRepository is a mock implementation of OrderRepository interface
type MockOrderRepository struct {
	mock.Mock
}

var _ OrderRepository = (*MockOrderRepository)(nil)

func (m *MockOrderRepository) GetStoreByID(storeID string) (*models.Store, error) {
	args := m.Called(storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockOrderRepository) GetStoreByDomain(domain string) (*models.Store, error) {
	args := m.Called(domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockOrderRepository) GetProductsByIDs(storeID string, productIDs []string) ([]models.Product, error) {
	args := m.Called(storeID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockOrderRepository) GetShippingRates(storeID string) ([]shipping.Rate, error) {
	args := m.Called(storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.Rate), args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(order *models.Order, events ...*models.OutboxEvent) error {
	args := m.Called(order, events)
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(orderID string) (*models.Order, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	args := m.Called(orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrders(storeID string, filter models.OrderFilter) ([]models.Order, int, error) {
	args := m.Called(storeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) UpdateOrderState(update database.OrderUpdate) error {
	args := m.Called(update)
	return args.Error(0)
}

// MockDispatcher is a mock implementation of EventDispatcher interface
type MockDispatcher struct {
	mock.Mock
}

var _ EventDispatcher = (*MockDispatcher)(nil)

func (m *MockDispatcher) DispatchImmediate(eventID string) {
	m.Called(eventID)
}

// ==================== FIXTURES ====================

const (
	tartID = "11111111-1111-4111-8111-111111111111"
	jamID  = "22222222-2222-4222-8222-222222222222"
)

func testStore() *models.Store {
	return &models.Store{
		ID:              "store-1",
		OwnerID:         "owner-1",
		Domain:          "aling-nena",
		Published:       true,
		CODEnabled:      true,
		FreeShippingMin: decimal.NewFromInt(2000),
	}
}

func testProducts() []models.Product {
	return []models.Product{
		{ID: tartID, StoreID: "store-1", Name: "Pili Tart", Price: decimal.NewFromInt(85), WeightKg: decimal.RequireFromString("0.2"), Stock: 10, Active: true},
		{ID: jamID, StoreID: "store-1", Name: "Ube Jam", Price: decimal.NewFromInt(249), WeightKg: decimal.RequireFromString("0.45"), Stock: 2, Active: true},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ==================== TESTS ====================

func TestOrderService_Quote(t *testing.T) {
	t.Run("Merges duplicate lines and prices shipping by total weight", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByDomain", "aling-nena").Return(testStore(), nil)
		repo.On("GetProductsByIDs", "store-1", []string{tartID, jamID}).Return(testProducts(), nil)
		repo.On("GetShippingRates", "store-1").Return([]shipping.Rate{}, nil)

		service := NewOrderService(repo, nil)
		quote, err := service.Quote("Aling-Nena", models.QuoteRequest{
			Region: "visayas",
			Items: []models.CartItemInput{
				{ProductID: tartID, Quantity: 2},
				{ProductID: jamID, Quantity: 1},
				{ProductID: tartID, Quantity: 1},
			},
		})

		require.NoError(t, err)
		require.Len(t, quote.Items, 2)
		assert.Equal(t, 3, quote.Items[0].Quantity)
		assert.True(t, quote.Subtotal.Equal(dec("504")), "subtotal %s", quote.Subtotal)
		// 3 x 0.2 + 0.45 = 1.05 kg
		assert.Equal(t, "1-3", quote.WeightBand)
		assert.True(t, quote.ShippingFee.Equal(dec("200")), "fee %s", quote.ShippingFee)
		assert.True(t, quote.Total.Equal(dec("704")))
		repo.AssertExpectations(t)
	})

	t.Run("Store override and free shipping", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByDomain", "aling-nena").Return(testStore(), nil)
		repo.On("GetProductsByIDs", "store-1", []string{tartID}).Return(testProducts()[:1], nil)
		repo.On("GetShippingRates", "store-1").Return([]shipping.Rate{
			{Region: shipping.RegionLuzon, Band: shipping.BandOverFive, Fee: dec("999")},
		}, nil)

		service := NewOrderService(repo, nil)
		quote, err := service.Quote("aling-nena", models.QuoteRequest{
			Region: "luzon",
			Items:  []models.CartItemInput{{ProductID: tartID, Quantity: 10}},
		})
		require.NoError(t, err)
		// 850 is below the 2000 threshold, 2 kg
		assert.True(t, quote.ShippingFee.Equal(dec("180")))
		assert.False(t, quote.FreeShipping)

		repo2 := new(MockOrderRepository)
		store := testStore()
		store.FreeShippingMin = dec("500")
		repo2.On("GetStoreByDomain", "aling-nena").Return(store, nil)
		repo2.On("GetProductsByIDs", "store-1", []string{tartID}).Return(testProducts()[:1], nil)
		repo2.On("GetShippingRates", "store-1").Return([]shipping.Rate{}, nil)

		quote, err = NewOrderService(repo2, nil).Quote("aling-nena", models.QuoteRequest{
			Region: "luzon",
			Items:  []models.CartItemInput{{ProductID: tartID, Quantity: 10}},
		})
		require.NoError(t, err)
		assert.True(t, quote.FreeShipping)
		assert.True(t, quote.Total.Equal(dec("850")))
	})

	t.Run("Error - Unpublished store", func(t *testing.T) {
		repo := new(MockOrderRepository)
		store := testStore()
		store.Published = false
		repo.On("GetStoreByDomain", "aling-nena").Return(store, nil)

		_, err := NewOrderService(repo, nil).Quote("aling-nena", models.QuoteRequest{Region: "luzon"})
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	t.Run("Error - Inactive product", func(t *testing.T) {
		repo := new(MockOrderRepository)
		products := testProducts()
		products[1].Active = false
		repo.On("GetStoreByDomain", "aling-nena").Return(testStore(), nil)
		repo.On("GetProductsByIDs", "store-1", []string{jamID}).Return(products[1:], nil)

		_, err := NewOrderService(repo, nil).Quote("aling-nena", models.QuoteRequest{
			Region: "luzon",
			Items:  []models.CartItemInput{{ProductID: jamID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("Error - Not enough stock", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByDomain", "aling-nena").Return(testStore(), nil)
		repo.On("GetProductsByIDs", "store-1", []string{jamID}).Return(testProducts()[1:], nil)

		_, err := NewOrderService(repo, nil).Quote("aling-nena", models.QuoteRequest{
			Region: "luzon",
			Items:  []models.CartItemInput{{ProductID: jamID, Quantity: 3}},
		})
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})
}

func TestOrderService_Place(t *testing.T) {
	baseReq := func(method string) models.PlaceOrderRequest {
		return models.PlaceOrderRequest{
			Items:           []models.CartItemInput{{ProductID: tartID, Quantity: 1}},
			Region:          "metro_manila",
			CustomerName:    "Juan Dela Cruz",
			CustomerEmail:   "Juan@Example.com",
			CustomerPhone:   "09171234567",
			ShippingAddress: "123 Mabini St, Manila",
			PaymentMethod:   method,
		}
	}

	setup := func(store *models.Store) *MockOrderRepository {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByDomain", "aling-nena").Return(store, nil)
		repo.On("GetProductsByIDs", "store-1", []string{tartID}).Return(testProducts()[:1], nil)
		repo.On("GetShippingRates", "store-1").Return([]shipping.Rate{}, nil)
		return repo
	}

	t.Run("COD order", func(t *testing.T) {
		repo := setup(testStore())
		dispatcher := new(MockDispatcher)
		repo.On("CreateOrder", mock.AnythingOfType("*models.Order"), mock.Anything).Return(nil)
		dispatcher.On("DispatchImmediate", mock.AnythingOfType("string")).Return()

		order, err := NewOrderService(repo, dispatcher).Place("aling-nena", baseReq("cod"))

		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, order.Status)
		assert.Equal(t, models.PaymentCODPending, order.PaymentStatus)
		assert.Equal(t, "juan@example.com", order.CustomerEmail)
		assert.Regexp(t, `^ORD-\d{8}-[A-Z0-9]{6}$`, order.OrderNumber)
		require.Len(t, order.Items, 1)
		assert.Equal(t, order.ID, order.Items[0].OrderID)
		repo.AssertExpectations(t)
		dispatcher.AssertExpectations(t)
	})

	t.Run("GCash with reference goes to verification", func(t *testing.T) {
		store := testStore()
		store.GCashNumber = "09171234567"
		store.GCashQRURL = "https://cdn.example.com/qr.png"
		repo := setup(store)
		repo.On("CreateOrder", mock.AnythingOfType("*models.Order"), mock.Anything).Return(nil)

		req := baseReq("gcash")
		req.PaymentReference = "1234567890"
		order, err := NewOrderService(repo, nil).Place("aling-nena", req)

		require.NoError(t, err)
		assert.Equal(t, models.PaymentForVerification, order.PaymentStatus)
		assert.Equal(t, "1234567890", order.PaymentReference)
	})

	t.Run("Error - GCash not enabled", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByDomain", "aling-nena").Return(testStore(), nil)

		_, err := NewOrderService(repo, nil).Place("aling-nena", baseReq("gcash"))
		assert.ErrorIs(t, err, ErrPaymentMethodUnavailable)
	})

	t.Run("Retries on order number collision", func(t *testing.T) {
		repo := setup(testStore())
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(database.ErrDuplicate).Once()
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := NewOrderService(repo, nil).Place("aling-nena", baseReq("cod"))
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "CreateOrder", 2)
	})

	t.Run("Error - Stock taken between quote and insert", func(t *testing.T) {
		repo := setup(testStore())
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(database.ErrInsufficientStock)

		_, err := NewOrderService(repo, nil).Place("aling-nena", baseReq("cod"))
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})
}

func TestOrderService_Track(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("GetOrderByNumber", "ORD-20251017-ABCDEF").Return(&models.Order{
		OrderNumber:   "ORD-20251017-ABCDEF",
		CustomerEmail: "juan@example.com",
	}, nil)
	service := NewOrderService(repo, nil)

	order, err := service.Track("ord-20251017-abcdef", "JUAN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ORD-20251017-ABCDEF", order.OrderNumber)

	_, err = service.Track("ORD-20251017-ABCDEF", "someone@else.com")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ownedOrder := func(method models.PaymentMethod, status models.OrderStatus, payment models.PaymentStatus) *models.Order {
		return &models.Order{
			ID:            "order-1",
			StoreID:       "store-1",
			PaymentMethod: method,
			Status:        status,
			PaymentStatus: payment,
			Items:         []models.OrderItem{{ProductID: tartID, Quantity: 2}},
		}
	}

	tests := []struct {
		name          string
		order         *models.Order
		to            models.OrderStatus
		expectRestock bool
		wantPayment   models.PaymentStatus
		expectedError error
	}{
		{
			name:        "COD pending to confirmed",
			order:       ownedOrder(models.PaymentCOD, models.OrderPending, models.PaymentCODPending),
			to:          models.OrderConfirmed,
			wantPayment: models.PaymentCODPending,
		},
		{
			name:          "GCash cannot be confirmed before verification",
			order:         ownedOrder(models.PaymentGCash, models.OrderPending, models.PaymentForVerification),
			to:            models.OrderConfirmed,
			expectedError: ErrPaymentNotVerified,
		},
		{
			name:        "GCash verified to confirmed",
			order:       ownedOrder(models.PaymentGCash, models.OrderPending, models.PaymentVerified),
			to:          models.OrderConfirmed,
			wantPayment: models.PaymentVerified,
		},
		{
			name:        "COD delivered collects payment",
			order:       ownedOrder(models.PaymentCOD, models.OrderShipped, models.PaymentCODPending),
			to:          models.OrderDelivered,
			wantPayment: models.PaymentCollected,
		},
		{
			name:          "Cancel restocks",
			order:         ownedOrder(models.PaymentCOD, models.OrderConfirmed, models.PaymentCODPending),
			to:            models.OrderCancelled,
			expectRestock: true,
			wantPayment:   models.PaymentCODPending,
		},
		{
			name:          "Shipped cannot be cancelled",
			order:         ownedOrder(models.PaymentCOD, models.OrderShipped, models.PaymentCODPending),
			to:            models.OrderCancelled,
			expectedError: ErrInvalidTransition,
		},
		{
			name:          "Cannot skip to shipped",
			order:         ownedOrder(models.PaymentCOD, models.OrderPending, models.PaymentCODPending),
			to:            models.OrderShipped,
			expectedError: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			repo.On("GetStoreByID", "store-1").Return(testStore(), nil)
			repo.On("GetOrderByID", "order-1").Return(tt.order, nil)

			fromStatus, fromPayment := tt.order.Status, tt.order.PaymentStatus
			if tt.expectedError == nil {
				repo.On("UpdateOrderState", mock.MatchedBy(func(u database.OrderUpdate) bool {
					return u.FromStatus == fromStatus &&
						u.FromPayment == fromPayment &&
						u.Restock == tt.expectRestock &&
						u.Event != nil && u.Event.EventType == models.EventOrderStatusChanged
				})).Return(nil)
			}

			order, err := NewOrderService(repo, nil).UpdateStatus("owner-1", "store-1", "order-1", tt.to)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				repo.AssertNotCalled(t, "UpdateOrderState", mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
			assert.Equal(t, tt.wantPayment, order.PaymentStatus)
			repo.AssertExpectations(t)
		})
	}

	t.Run("Foreign store is hidden", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByID", "store-1").Return(testStore(), nil)

		_, err := NewOrderService(repo, nil).UpdateStatus("intruder", "store-1", "order-1", models.OrderConfirmed)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	t.Run("Concurrent change surfaces as conflict", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByID", "store-1").Return(testStore(), nil)
		repo.On("GetOrderByID", "order-1").Return(ownedOrder(models.PaymentCOD, models.OrderPending, models.PaymentCODPending), nil)
		repo.On("UpdateOrderState", mock.Anything).Return(database.ErrStaleState)

		_, err := NewOrderService(repo, nil).UpdateStatus("owner-1", "store-1", "order-1", models.OrderConfirmed)
		assert.ErrorIs(t, err, ErrOrderChanged)
	})
}

func TestOrderService_PaymentVerification(t *testing.T) {
	gcashOrder := func(payment models.PaymentStatus) *models.Order {
		return &models.Order{
			ID:               "order-1",
			StoreID:          "store-1",
			OrderNumber:      "ORD-20251017-ABCDEF",
			CustomerEmail:    "juan@example.com",
			PaymentMethod:    models.PaymentGCash,
			Status:           models.OrderPending,
			PaymentStatus:    payment,
			PaymentReference: "old-ref",
		}
	}

	t.Run("Verify", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByID", "store-1").Return(testStore(), nil)
		repo.On("GetOrderByID", "order-1").Return(gcashOrder(models.PaymentForVerification), nil)
		repo.On("UpdateOrderState", mock.MatchedBy(func(u database.OrderUpdate) bool {
			return u.Event.EventType == models.EventOrderPaymentVerified
		})).Return(nil)

		order, err := NewOrderService(repo, nil).VerifyPayment("owner-1", "store-1", "order-1")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentVerified, order.PaymentStatus)
	})

	t.Run("Verify requires a submitted payment", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByID", "store-1").Return(testStore(), nil)
		repo.On("GetOrderByID", "order-1").Return(gcashOrder(models.PaymentAwaiting), nil)

		_, err := NewOrderService(repo, nil).VerifyPayment("owner-1", "store-1", "order-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Reject then resubmit", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetStoreByID", "store-1").Return(testStore(), nil)
		repo.On("GetOrderByID", "order-1").Return(gcashOrder(models.PaymentForVerification), nil)
		repo.On("UpdateOrderState", mock.Anything).Return(nil)

		order, err := NewOrderService(repo, nil).RejectPayment("owner-1", "store-1", "order-1", " amount mismatch ")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRejected, order.PaymentStatus)
		assert.Equal(t, "amount mismatch", order.PaymentNote)

		repo.On("GetOrderByNumber", "ORD-20251017-ABCDEF").Return(gcashOrder(models.PaymentRejected), nil)
		order, err = NewOrderService(repo, nil).SubmitPayment("ORD-20251017-ABCDEF", models.SubmitPaymentRequest{
			Email:            "juan@example.com",
			PaymentReference: "new-ref-123",
		})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentForVerification, order.PaymentStatus)
		assert.Equal(t, "new-ref-123", order.PaymentReference)
		assert.Empty(t, order.PaymentNote)
	})

	t.Run("Submit after verification is refused", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetOrderByNumber", "ORD-20251017-ABCDEF").Return(gcashOrder(models.PaymentVerified), nil)

		_, err := NewOrderService(repo, nil).SubmitPayment("ORD-20251017-ABCDEF", models.SubmitPaymentRequest{
			Email:            "juan@example.com",
			PaymentReference: "new-ref-123",
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}
