package database

import (
	"database/sql"
	"fmt"
	"storefront/models"
	"time"
)

// ==================== ORDER OPERATIONS ====================

const orderColumns = `id, order_number, store_id, customer_name, customer_email, customer_phone,
	shipping_address, region, payment_method, payment_status, status,
	payment_reference, payment_proof_url, payment_note,
	subtotal, shipping_fee, total, total_weight_kg, weight_band, notes,
	created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var method, paymentStatus, status string

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.StoreID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ShippingAddress, &o.Region, &method, &paymentStatus, &status,
		&o.PaymentReference, &o.PaymentProofURL, &o.PaymentNote,
		&o.Subtotal, &o.ShippingFee, &o.Total, &o.TotalWeightKg, &o.WeightBand, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.PaymentMethod = models.PaymentMethod(method)
	o.PaymentStatus = models.PaymentStatus(paymentStatus)
	o.Status = models.OrderStatus(status)
	return &o, nil
}

// CreateOrder inserts an order with its items, decrements stock for every line
// and records the given outbox events, all in one transaction.
// Returns ErrInsufficientStock if any line cannot be fulfilled and
// ErrDuplicate if the order number is already taken.
func (r *Repository) CreateOrder(o *models.Order, events ...*models.OutboxEvent) error {
	return r.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO orders (`+orderColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			o.ID, o.OrderNumber, o.StoreID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
			o.ShippingAddress, o.Region, string(o.PaymentMethod), string(o.PaymentStatus), string(o.Status),
			o.PaymentReference, o.PaymentProofURL, o.PaymentNote,
			o.Subtotal, o.ShippingFee, o.Total, o.TotalWeightKg, o.WeightBand, o.Notes,
			o.CreatedAt, o.UpdatedAt,
		)
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for _, item := range o.Items {
			res, err := tx.Exec(`
				UPDATE products SET stock = stock - ?, updated_at = ?
				WHERE id = ? AND store_id = ? AND active = 1 AND stock >= ?
			`, item.Quantity, o.CreatedAt, item.ProductID, o.StoreID, item.Quantity)
			if err != nil {
				return fmt.Errorf("failed to reserve stock: %w", err)
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, item.ProductName)
			}

			_, err = tx.Exec(`
				INSERT INTO order_items (id, order_id, product_id, product_name, unit_price, quantity, line_total)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, item.ID, o.ID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity, item.LineTotal)
			if err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
		}

		for _, event := range events {
			if err := insertEvent(tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) getOrder(where string, arg any) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE `+where, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.getOrderItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// GetOrderByID retrieves an order and its items
func (r *Repository) GetOrderByID(orderID string) (*models.Order, error) {
	return r.getOrder("id = ?", orderID)
}

// GetOrderByNumber retrieves an order and its items by its public order number
func (r *Repository) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	return r.getOrder("order_number = ?", orderNumber)
}

func (r *Repository) getOrderItems(orderID string) ([]models.OrderItem, error) {
	rows, err := r.db.Query(`
		SELECT id, order_id, product_id, product_name, unit_price, quantity, line_total
		FROM order_items WHERE order_id = ?
		ORDER BY rowid ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.UnitPrice, &item.Quantity, &item.LineTotal,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListOrders retrieves a store's orders, newest first, without items
func (r *Repository) ListOrders(storeID string, filter models.OrderFilter) ([]models.Order, int, error) {
	where := "store_id = ?"
	args := []any{storeID}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.PaymentStatus != "" {
		where += " AND payment_status = ?"
		args = append(args, filter.PaymentStatus)
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM orders WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}

	return orders, total, rows.Err()
}

// OrderUpdate is a guarded change of an order's state.
// The update only applies while the order still has FromStatus and FromPayment.
type OrderUpdate struct {
	Order       *models.Order
	FromStatus  models.OrderStatus
	FromPayment models.PaymentStatus
	Restock     bool
	Event       *models.OutboxEvent
}

// UpdateOrderState writes the new status, payment fields and outbox event of an order.
// Returns ErrStaleState if the order changed since it was read.
func (r *Repository) UpdateOrderState(u OrderUpdate) error {
	o := u.Order
	o.UpdatedAt = time.Now().UTC()

	return r.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE orders SET
				status = ?, payment_status = ?, payment_reference = ?,
				payment_proof_url = ?, payment_note = ?, updated_at = ?
			WHERE id = ? AND status = ? AND payment_status = ?
		`,
			string(o.Status), string(o.PaymentStatus), o.PaymentReference,
			o.PaymentProofURL, o.PaymentNote, o.UpdatedAt,
			o.ID, string(u.FromStatus), string(u.FromPayment),
		)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrStaleState
		}

		if u.Restock {
			// Products deleted since the order was placed are skipped
			for _, item := range o.Items {
				if _, err := tx.Exec(`
					UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?
				`, item.Quantity, o.UpdatedAt, item.ProductID); err != nil {
					return fmt.Errorf("failed to restock: %w", err)
				}
			}
		}

		if u.Event != nil {
			return insertEvent(tx, u.Event)
		}
		return nil
	})
}
