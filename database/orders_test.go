package database

import (
	"storefront/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(storeID, number string, lines ...models.OrderItem) *models.Order {
	now := time.Now().UTC()
	order := &models.Order{
		ID:              uuid.New().String(),
		OrderNumber:     number,
		StoreID:         storeID,
		CustomerName:    "Juan Dela Cruz",
		CustomerEmail:   "juan@example.com",
		CustomerPhone:   "09171234567",
		ShippingAddress: "123 Rizal Ave, Naga City",
		Region:          "luzon",
		PaymentMethod:   models.PaymentCOD,
		PaymentStatus:   models.PaymentCODPending,
		Status:          models.OrderPending,
		Subtotal:        decimal.Zero,
		ShippingFee:     decimal.NewFromInt(95),
		TotalWeightKg:   decimal.RequireFromString("0.4"),
		WeightBand:      "0-0.5",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, line := range lines {
		line.ID = uuid.New().String()
		line.OrderID = order.ID
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Subtotal = order.Subtotal.Add(line.LineTotal)
		order.Items = append(order.Items, line)
	}
	order.Total = order.Subtotal.Add(order.ShippingFee)
	return order
}

func newTestEvent(aggregateID, eventType string) *models.OutboxEvent {
	return &models.OutboxEvent{
		ID:          uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Payload:     []byte(`{}`),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestCreateOrder(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	store := createTestStore(t, repo, "order-shop")
	tart := createTestProduct(t, repo, store.ID, "Pili Tart", "85", 5)
	jam := createTestProduct(t, repo, store.ID, "Ube Jam", "249", 1)

	t.Run("Order decrements stock and writes event", func(t *testing.T) {
		order := newTestOrder(store.ID, "ORD-20251017-AAAAAA",
			models.OrderItem{ProductID: tart.ID, ProductName: tart.Name, UnitPrice: tart.Price, Quantity: 2},
		)
		event := newTestEvent(order.ID, models.EventOrderPlaced)

		require.NoError(t, repo.CreateOrder(order, event))

		p, err := repo.GetProduct(tart.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, p.Stock)

		saved, err := repo.GetOrderByNumber("ORD-20251017-AAAAAA")
		require.NoError(t, err)
		require.NotNil(t, saved)
		require.Len(t, saved.Items, 1)
		assert.True(t, saved.Total.Equal(decimal.NewFromInt(265)))
		assert.Equal(t, models.PaymentCODPending, saved.PaymentStatus)

		e, err := repo.GetEvent(event.ID)
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, models.EventPending, e.Status)
	})

	t.Run("Insufficient stock rolls back everything", func(t *testing.T) {
		order := newTestOrder(store.ID, "ORD-20251017-BBBBBB",
			models.OrderItem{ProductID: tart.ID, ProductName: tart.Name, UnitPrice: tart.Price, Quantity: 1},
			models.OrderItem{ProductID: jam.ID, ProductName: jam.Name, UnitPrice: jam.Price, Quantity: 2},
		)
		event := newTestEvent(order.ID, models.EventOrderPlaced)

		err := repo.CreateOrder(order, event)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		p, err := repo.GetProduct(tart.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, p.Stock, "first line must be restored on rollback")

		saved, err := repo.GetOrderByNumber("ORD-20251017-BBBBBB")
		require.NoError(t, err)
		assert.Nil(t, saved)

		e, err := repo.GetEvent(event.ID)
		require.NoError(t, err)
		assert.Nil(t, e)
	})

	t.Run("Duplicate order number", func(t *testing.T) {
		order := newTestOrder(store.ID, "ORD-20251017-AAAAAA",
			models.OrderItem{ProductID: tart.ID, ProductName: tart.Name, UnitPrice: tart.Price, Quantity: 1},
		)
		assert.ErrorIs(t, repo.CreateOrder(order), ErrDuplicate)
	})
}

func TestUpdateOrderState(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	store := createTestStore(t, repo, "status-shop")
	tart := createTestProduct(t, repo, store.ID, "Pili Tart", "85", 5)

	order := newTestOrder(store.ID, "ORD-20251017-CCCCCC",
		models.OrderItem{ProductID: tart.ID, ProductName: tart.Name, UnitPrice: tart.Price, Quantity: 3},
	)
	require.NoError(t, repo.CreateOrder(order))

	t.Run("Stale update is refused", func(t *testing.T) {
		current, err := repo.GetOrderByID(order.ID)
		require.NoError(t, err)

		current.Status = models.OrderShipped
		err = repo.UpdateOrderState(OrderUpdate{
			Order:       current,
			FromStatus:  models.OrderConfirmed,
			FromPayment: models.PaymentCODPending,
		})
		assert.ErrorIs(t, err, ErrStaleState)
	})

	t.Run("Cancel restocks items", func(t *testing.T) {
		current, err := repo.GetOrderByID(order.ID)
		require.NoError(t, err)

		current.Status = models.OrderCancelled
		err = repo.UpdateOrderState(OrderUpdate{
			Order:       current,
			FromStatus:  models.OrderPending,
			FromPayment: models.PaymentCODPending,
			Restock:     true,
			Event:       newTestEvent(order.ID, models.EventOrderStatusChanged),
		})
		require.NoError(t, err)

		p, err := repo.GetProduct(tart.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, p.Stock)

		saved, err := repo.GetOrderByID(order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderCancelled, saved.Status)
	})

	t.Run("List with filters", func(t *testing.T) {
		orders, total, err := repo.ListOrders(store.ID, models.OrderFilter{Status: "cancelled", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, orders, 1)

		orders, total, err = repo.ListOrders(store.ID, models.OrderFilter{Status: "pending", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, orders)
	})
}
