package database

import (
	"database/sql"
	"storefront/shipping"

	"github.com/shopspring/decimal"
)

// ==================== SHIPPING RATE OPERATIONS ====================

// GetShippingRates retrieves a store's rate overrides
func (r *Repository) GetShippingRates(storeID string) ([]shipping.Rate, error) {
	rows, err := r.db.Query(`
		SELECT region, weight_band, fee FROM shipping_rates WHERE store_id = ?
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := make([]shipping.Rate, 0)
	for rows.Next() {
		var region, band string
		var fee decimal.Decimal
		if err := rows.Scan(&region, &band, &fee); err != nil {
			return nil, err
		}
		rates = append(rates, shipping.Rate{
			Region: shipping.Region(region),
			Band:   shipping.Band(band),
			Fee:    fee,
		})
	}

	return rates, rows.Err()
}

// ReplaceShippingRates swaps a store's overrides for the given set in one transaction
func (r *Repository) ReplaceShippingRates(storeID string, rates []shipping.Rate) error {
	return r.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM shipping_rates WHERE store_id = ?", storeID); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO shipping_rates (store_id, region, weight_band, fee)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(store_id, region, weight_band) DO UPDATE SET fee = excluded.fee
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, rate := range rates {
			if _, err := stmt.Exec(storeID, string(rate.Region), string(rate.Band), rate.Fee); err != nil {
				return err
			}
		}
		return nil
	})
}
