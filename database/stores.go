package database

import (
	"database/sql"
	"storefront/models"
	"time"
)

// ==================== STORE OPERATIONS ====================

const storeColumns = `id, owner_id, name, domain, template, tagline, description, logo_url,
	primary_color, accent_color, contact_email, contact_phone,
	gcash_name, gcash_number, gcash_qr_url, cod_enabled, free_shipping_min,
	published, published_at, created_at, updated_at`

func scanStore(row interface{ Scan(...any) error }) (*models.Store, error) {
	var s models.Store
	var template string
	var publishedAt sql.NullTime

	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Domain, &template, &s.Tagline, &s.Description, &s.LogoURL,
		&s.PrimaryColor, &s.AccentColor, &s.ContactEmail, &s.ContactPhone,
		&s.GCashName, &s.GCashNumber, &s.GCashQRURL, &s.CODEnabled, &s.FreeShippingMin,
		&s.Published, &publishedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Template = models.Template(template)
	s.PublishedAt = nullTime(publishedAt)
	return &s, nil
}

func (r *Repository) getStore(where string, arg any) (*models.Store, error) {
	store, err := scanStore(r.db.QueryRow(`SELECT `+storeColumns+` FROM stores WHERE `+where, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// GetStoreByID retrieves a store by its ID
func (r *Repository) GetStoreByID(storeID string) (*models.Store, error) {
	return r.getStore("id = ?", storeID)
}

// GetStoreByDomain retrieves a store by its public domain slug
func (r *Repository) GetStoreByDomain(domain string) (*models.Store, error) {
	return r.getStore("domain = ?", domain)
}

func (r *Repository) queryStores(query string, args ...any) ([]models.Store, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := make([]models.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *s)
	}

	return stores, rows.Err()
}

// ListStoresByOwner retrieves all stores belonging to an owner
func (r *Repository) ListStoresByOwner(ownerID string) ([]models.Store, error) {
	return r.queryStores(`SELECT `+storeColumns+` FROM stores WHERE owner_id = ? ORDER BY created_at ASC`, ownerID)
}

// ListAllStores retrieves every store (paginated), newest first
func (r *Repository) ListAllStores(limit, offset int) ([]models.Store, error) {
	return r.queryStores(`SELECT `+storeColumns+` FROM stores ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

// CreateStore inserts a store; returns ErrDuplicate if the domain is taken
func (r *Repository) CreateStore(s *models.Store) error {
	_, err := r.db.Exec(`
		INSERT INTO stores (`+storeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID, s.OwnerID, s.Name, s.Domain, string(s.Template), s.Tagline, s.Description, s.LogoURL,
		s.PrimaryColor, s.AccentColor, s.ContactEmail, s.ContactPhone,
		s.GCashName, s.GCashNumber, s.GCashQRURL, boolToInt(s.CODEnabled), s.FreeShippingMin,
		boolToInt(s.Published), s.PublishedAt, s.CreatedAt, s.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// UpdateStore saves a store's editable configuration
func (r *Repository) UpdateStore(s *models.Store) error {
	_, err := r.db.Exec(`
		UPDATE stores SET
			name = ?, domain = ?, template = ?, tagline = ?, description = ?, logo_url = ?,
			primary_color = ?, accent_color = ?, contact_email = ?, contact_phone = ?,
			gcash_name = ?, gcash_number = ?, gcash_qr_url = ?, cod_enabled = ?,
			free_shipping_min = ?, updated_at = ?
		WHERE id = ?
	`,
		s.Name, s.Domain, string(s.Template), s.Tagline, s.Description, s.LogoURL,
		s.PrimaryColor, s.AccentColor, s.ContactEmail, s.ContactPhone,
		s.GCashName, s.GCashNumber, s.GCashQRURL, boolToInt(s.CODEnabled),
		s.FreeShippingMin, s.UpdatedAt, s.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// SetStorePublished flips the published flag
func (r *Repository) SetStorePublished(storeID string, published bool) error {
	now := time.Now().UTC()
	var publishedAt any
	if published {
		publishedAt = now
	}
	_, err := r.db.Exec(`
		UPDATE stores SET published = ?, published_at = ?, updated_at = ? WHERE id = ?
	`, boolToInt(published), publishedAt, now, storeID)
	return err
}

// DeleteStore removes a store and, through cascades, its products, rates and orders
func (r *Repository) DeleteStore(storeID string) error {
	_, err := r.db.Exec("DELETE FROM stores WHERE id = ?", storeID)
	return err
}
