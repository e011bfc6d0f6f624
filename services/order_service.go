package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"storefront/database"
	"storefront/models"
	"storefront/shipping"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	orderNumberAttempts = 5
)

// OrderService handles carts, order placement and payment verification
type OrderService struct {
	repo       OrderRepository
	dispatcher EventDispatcher
	now        func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(repo OrderRepository, dispatcher EventDispatcher) *OrderService {
	return &OrderService{
		repo:       repo,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// publishedStore loads a store customers may order from
func (s *OrderService) publishedStore(domain string) (*models.Store, error) {
	store, err := s.repo.GetStoreByDomain(strings.ToLower(domain))
	if err != nil {
		return nil, err
	}
	if store == nil || !store.Published {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// Quote prices a cart for a published store
func (s *OrderService) Quote(domain string, req models.QuoteRequest) (*models.CartQuote, error) {
	store, err := s.publishedStore(domain)
	if err != nil {
		return nil, err
	}
	return s.quote(store, req.Items, req.Region)
}

// mergeLines folds repeated products into one line, keeping first-seen order
func mergeLines(items []models.CartItemInput) []models.CartItemInput {
	index := make(map[string]int, len(items))
	merged := make([]models.CartItemInput, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func (s *OrderService) quote(store *models.Store, items []models.CartItemInput, region string) (*models.CartQuote, error) {
	lines := mergeLines(items)

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.repo.GetProductsByIDs(store.ID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	quote := &models.CartQuote{
		Items:         make([]models.OrderItem, 0, len(lines)),
		Subtotal:      decimal.Zero,
		TotalWeightKg: decimal.Zero,
		Region:        region,
	}

	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok || !product.Active {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, line.ProductID)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: %s (%d left)", ErrInsufficientStock, product.Name, product.Stock)
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		lineTotal := product.Price.Mul(qty)
		quote.Items = append(quote.Items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
		})
		quote.Subtotal = quote.Subtotal.Add(lineTotal)
		quote.TotalWeightKg = quote.TotalWeightKg.Add(product.WeightKg.Mul(qty))
	}

	table, err := storeTable(s.repo, store.ID)
	if err != nil {
		return nil, err
	}
	ship, err := shipping.Calculate(table, shipping.Region(region), quote.TotalWeightKg, quote.Subtotal, store.FreeShippingMin)
	if err != nil {
		if errors.Is(err, shipping.ErrNoRate) || errors.Is(err, shipping.ErrUnknownRegion) {
			return nil, ErrShippingUnavailable
		}
		return nil, err
	}

	quote.WeightBand = string(ship.Band)
	quote.ShippingFee = ship.Fee
	quote.FreeShipping = ship.FreeShipping
	quote.Total = quote.Subtotal.Add(ship.Fee)
	return quote, nil
}

// Place validates a cart and records the order, reserving stock atomically
func (s *OrderService) Place(domain string, req models.PlaceOrderRequest) (*models.Order, error) {
	store, err := s.publishedStore(domain)
	if err != nil {
		return nil, err
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if !store.AcceptsPayment(method) {
		return nil, ErrPaymentMethodUnavailable
	}

	quote, err := s.quote(store, req.Items, req.Region)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		ID:              uuid.New().String(),
		StoreID:         store.ID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Region:          req.Region,
		PaymentMethod:   method,
		Status:          models.OrderPending,
		Subtotal:        quote.Subtotal,
		ShippingFee:     quote.ShippingFee,
		Total:           quote.Total,
		TotalWeightKg:   quote.TotalWeightKg,
		WeightBand:      quote.WeightBand,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	switch method {
	case models.PaymentGCash:
		order.PaymentStatus = models.PaymentAwaiting
		if req.PaymentReference != "" {
			order.PaymentReference = strings.TrimSpace(req.PaymentReference)
			order.PaymentProofURL = req.PaymentProofURL
			order.PaymentStatus = models.PaymentForVerification
		}
	case models.PaymentCOD:
		order.PaymentStatus = models.PaymentCODPending
	}

	for _, item := range quote.Items {
		item.ID = uuid.New().String()
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}

	var event *models.OutboxEvent
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber, err = newOrderNumber(now)
		if err != nil {
			return nil, err
		}
		event, err = newOrderEvent(order, models.EventOrderPlaced, "")
		if err != nil {
			return nil, err
		}

		err = s.repo.CreateOrder(order, event)
		if errors.Is(err, database.ErrDuplicate) {
			continue
		}
		break
	}
	switch {
	case errors.Is(err, database.ErrDuplicate):
		return nil, ErrOrderNumberExhausted
	case errors.Is(err, database.ErrInsufficientStock):
		// Someone bought the last units between quote and insert
		return nil, ErrInsufficientStock
	case err != nil:
		return nil, err
	}

	s.dispatch(event)
	return order, nil
}

// Track returns an order to the customer who placed it
func (s *OrderService) Track(orderNumber, email string) (*models.Order, error) {
	order, err := s.repo.GetOrderByNumber(strings.ToUpper(strings.TrimSpace(orderNumber)))
	if err != nil {
		return nil, err
	}
	if order == nil || !strings.EqualFold(order.CustomerEmail, strings.TrimSpace(email)) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// SubmitPayment records the customer's GCash reference for the owner to verify
func (s *OrderService) SubmitPayment(orderNumber string, req models.SubmitPaymentRequest) (*models.Order, error) {
	order, err := s.Track(orderNumber, req.Email)
	if err != nil {
		return nil, err
	}

	if order.PaymentMethod != models.PaymentGCash || order.Status != models.OrderPending {
		return nil, ErrInvalidTransition
	}
	if order.PaymentStatus != models.PaymentAwaiting && order.PaymentStatus != models.PaymentRejected {
		return nil, ErrInvalidTransition
	}

	from := order.PaymentStatus
	order.PaymentReference = strings.TrimSpace(req.PaymentReference)
	order.PaymentProofURL = req.PaymentProofURL
	order.PaymentNote = ""
	order.PaymentStatus = models.PaymentForVerification

	if err := s.update(order, order.Status, from, false, models.EventOrderPaymentSubmitted, ""); err != nil {
		return nil, err
	}
	return order, nil
}

// ownedOrder loads an order of a store the owner holds
func (s *OrderService) ownedOrder(ownerID, storeID, orderID string) (*models.Order, error) {
	if _, err := ownedStore(s.repo, ownerID, storeID); err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.StoreID != storeID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List retrieves a store's orders for its owner
func (s *OrderService) List(ownerID, storeID string, filter models.OrderFilter) ([]models.Order, int, error) {
	if _, err := ownedStore(s.repo, ownerID, storeID); err != nil {
		return nil, 0, err
	}

	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListOrders(storeID, filter)
}

// Get retrieves one order with its items for the store owner
func (s *OrderService) Get(ownerID, storeID, orderID string) (*models.Order, error) {
	return s.ownedOrder(ownerID, storeID, orderID)
}

// VerifyPayment accepts a submitted GCash payment
func (s *OrderService) VerifyPayment(ownerID, storeID, orderID string) (*models.Order, error) {
	order, err := s.ownedOrder(ownerID, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentGCash || order.PaymentStatus != models.PaymentForVerification {
		return nil, ErrInvalidTransition
	}

	order.PaymentStatus = models.PaymentVerified
	order.PaymentNote = ""
	if err := s.update(order, order.Status, models.PaymentForVerification, false, models.EventOrderPaymentVerified, ""); err != nil {
		return nil, err
	}
	return order, nil
}

// RejectPayment sends a submitted GCash payment back to the customer with a note
func (s *OrderService) RejectPayment(ownerID, storeID, orderID, note string) (*models.Order, error) {
	order, err := s.ownedOrder(ownerID, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentGCash || order.PaymentStatus != models.PaymentForVerification {
		return nil, ErrInvalidTransition
	}

	order.PaymentStatus = models.PaymentRejected
	order.PaymentNote = strings.TrimSpace(note)
	if err := s.update(order, order.Status, models.PaymentForVerification, false, models.EventOrderPaymentRejected, ""); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order through pending, confirmed, shipped and delivered, or cancels it
func (s *OrderService) UpdateStatus(ownerID, storeID, orderID string, to models.OrderStatus) (*models.Order, error) {
	order, err := s.ownedOrder(ownerID, storeID, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	fromPayment := order.PaymentStatus
	if !models.CanTransition(from, to) {
		return nil, ErrInvalidTransition
	}
	if to == models.OrderConfirmed && order.PaymentMethod == models.PaymentGCash && order.PaymentStatus != models.PaymentVerified {
		return nil, ErrPaymentNotVerified
	}

	order.Status = to
	if to == models.OrderDelivered && order.PaymentMethod == models.PaymentCOD {
		order.PaymentStatus = models.PaymentCollected
	}

	restock := to == models.OrderCancelled
	if err := s.update(order, from, fromPayment, restock, models.EventOrderStatusChanged, from); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) update(order *models.Order, from models.OrderStatus, fromPayment models.PaymentStatus, restock bool, eventType string, previous models.OrderStatus) error {
	event, err := newOrderEvent(order, eventType, previous)
	if err != nil {
		return err
	}

	err = s.repo.UpdateOrderState(database.OrderUpdate{
		Order:       order,
		FromStatus:  from,
		FromPayment: fromPayment,
		Restock:     restock,
		Event:       event,
	})
	if errors.Is(err, database.ErrStaleState) {
		return ErrOrderChanged
	}
	if err != nil {
		return err
	}

	s.dispatch(event)
	return nil
}

func (s *OrderService) dispatch(event *models.OutboxEvent) {
	if s.dispatcher != nil && event != nil {
		s.dispatcher.DispatchImmediate(event.ID)
	}
}

// orderEventPayload is the body of every order.* event
type orderEventPayload struct {
	OrderID        string               `json:"order_id"`
	OrderNumber    string               `json:"order_number"`
	StoreID        string               `json:"store_id"`
	Status         models.OrderStatus   `json:"status"`
	PreviousStatus models.OrderStatus   `json:"previous_status,omitempty"`
	PaymentMethod  models.PaymentMethod `json:"payment_method"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	CustomerEmail  string               `json:"customer_email"`
	Total          decimal.Decimal      `json:"total"`
	ItemCount      int                  `json:"item_count"`
}

func newOrderEvent(order *models.Order, eventType string, previous models.OrderStatus) (*models.OutboxEvent, error) {
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}

	payload, err := json.Marshal(orderEventPayload{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		StoreID:        order.StoreID,
		Status:         order.Status,
		PreviousStatus: previous,
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		CustomerEmail:  order.CustomerEmail,
		Total:          order.Total,
		ItemCount:      itemCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	return &models.OutboxEvent{
		ID:          uuid.New().String(),
		AggregateID: order.ID,
		EventType:   eventType,
		Payload:     payload,
		Status:      models.EventPending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// newOrderNumber returns ORD-YYYYMMDD-XXXXXX with a random suffix
func newOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), buf), nil
}
