package database

import (
	"database/sql"
	"storefront/models"
	"strings"
	"time"
)

// ==================== PRODUCT OPERATIONS ====================

const productColumns = `id, store_id, name, description, price, weight_kg, weight_band,
	stock, image_url, active, sort_order, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.WeightKg, &p.WeightBand,
		&p.Stock, &p.ImageURL, &p.Active, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) queryProducts(query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

// GetProduct retrieves a product by ID
func (r *Repository) GetProduct(productID string) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = ?`, productID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts retrieves a store's products in display order
func (r *Repository) ListProducts(storeID string, activeOnly bool) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY sort_order ASC, name ASC`
	return r.queryProducts(query, storeID)
}

// GetProductsByIDs retrieves the given products of one store; unknown IDs are skipped
func (r *Repository) GetProductsByIDs(storeID string, productIDs []string) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return []models.Product{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(productIDs)), ",")
	args := make([]any, 0, len(productIDs)+1)
	args = append(args, storeID)
	for _, id := range productIDs {
		args = append(args, id)
	}

	return r.queryProducts(
		`SELECT `+productColumns+` FROM products WHERE store_id = ? AND id IN (`+placeholders+`)`,
		args...,
	)
}

// CountActiveProducts returns the number of active products in a store
func (r *Repository) CountActiveProducts(storeID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM products WHERE store_id = ? AND active = 1`, storeID).Scan(&count)
	return count, err
}

// CreateProduct inserts a new product
func (r *Repository) CreateProduct(p *models.Product) error {
	_, err := r.db.Exec(`
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.StoreID, p.Name, p.Description, p.Price, p.WeightKg, p.WeightBand,
		p.Stock, p.ImageURL, boolToInt(p.Active), p.SortOrder, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// UpdateProduct saves a product's editable fields
func (r *Repository) UpdateProduct(p *models.Product) error {
	_, err := r.db.Exec(`
		UPDATE products SET
			name = ?, description = ?, price = ?, weight_kg = ?, weight_band = ?,
			stock = ?, image_url = ?, active = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Name, p.Description, p.Price, p.WeightKg, p.WeightBand,
		p.Stock, p.ImageURL, boolToInt(p.Active), p.SortOrder, p.UpdatedAt, p.ID,
	)
	return err
}

// AdjustStock adds delta to a product's stock, refusing to go below zero
func (r *Repository) AdjustStock(productID string, delta int) (int, error) {
	res, err := r.db.Exec(`
		UPDATE products SET stock = stock + ?, updated_at = ?
		WHERE id = ? AND stock + ? >= 0
	`, delta, time.Now().UTC(), productID, delta)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrInsufficientStock
	}

	var stock int
	err = r.db.QueryRow(`SELECT stock FROM products WHERE id = ?`, productID).Scan(&stock)
	return stock, err
}

// DeleteProduct removes a product; past order items keep their snapshot
func (r *Repository) DeleteProduct(productID string) error {
	_, err := r.db.Exec("DELETE FROM products WHERE id = ?", productID)
	return err
}
