package database

import (
	"database/sql"
	"storefront/models"
	"time"
)

// ==================== API APPLICATION OPERATIONS ====================

const applicationColumns = `id, store_id, owner_id, api_type, reason, status, review_note,
	reviewed_by, reviewed_at, COALESCE(api_key_hash, ''), api_key_prefix, created_at, updated_at`

func scanApplication(row interface{ Scan(...any) error }) (*models.ApiApplication, error) {
	var a models.ApiApplication
	var apiType, status string
	var reviewedAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.StoreID, &a.OwnerID, &apiType, &a.Reason, &status, &a.ReviewNote,
		&a.ReviewedBy, &reviewedAt, &a.ApiKeyHash, &a.ApiKeyPrefix, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.ApiType = models.ApiType(apiType)
	a.Status = models.ApplicationStatus(status)
	a.ReviewedAt = nullTime(reviewedAt)
	return &a, nil
}

func (r *Repository) getApplication(where string, args ...any) (*models.ApiApplication, error) {
	app, err := scanApplication(r.db.QueryRow(`SELECT `+applicationColumns+` FROM api_applications WHERE `+where, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *Repository) queryApplications(query string, args ...any) ([]models.ApiApplication, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]models.ApiApplication, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}

	return apps, rows.Err()
}

// CreateApplication inserts a new pending application. It returns ErrDuplicate
// when the store already holds an active application for the API type.
func (r *Repository) CreateApplication(a *models.ApiApplication) error {
	_, err := r.db.Exec(`
		INSERT INTO api_applications (id, store_id, owner_id, api_type, reason, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.StoreID, a.OwnerID, string(a.ApiType), a.Reason, string(a.Status), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetApplication retrieves an application by ID
func (r *Repository) GetApplication(id string) (*models.ApiApplication, error) {
	return r.getApplication("id = ?", id)
}

// FindActiveApplication returns the pending or approved application of a store for an API type
func (r *Repository) FindActiveApplication(storeID string, apiType models.ApiType) (*models.ApiApplication, error) {
	return r.getApplication(
		"store_id = ? AND api_type = ? AND status IN ('pending', 'approved') ORDER BY created_at DESC LIMIT 1",
		storeID, string(apiType),
	)
}

// GetApplicationByKeyHash returns the approved application holding a key
func (r *Repository) GetApplicationByKeyHash(hash string) (*models.ApiApplication, error) {
	return r.getApplication("api_key_hash = ? AND status = 'approved'", hash)
}

// ListApplicationsByOwner retrieves an owner's applications, newest first
func (r *Repository) ListApplicationsByOwner(ownerID string) ([]models.ApiApplication, error) {
	return r.queryApplications(
		`SELECT `+applicationColumns+` FROM api_applications WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID,
	)
}

// ListApplications retrieves all applications, optionally filtered by status, oldest first
func (r *Repository) ListApplications(status string) ([]models.ApiApplication, error) {
	if status == "" {
		return r.queryApplications(`SELECT ` + applicationColumns + ` FROM api_applications ORDER BY created_at ASC`)
	}
	return r.queryApplications(
		`SELECT `+applicationColumns+` FROM api_applications WHERE status = ? ORDER BY created_at ASC`,
		status,
	)
}

// UpdateApplicationReview records a review decision. The update only applies
// while the application still has the expected status; otherwise ErrStaleState.
func (r *Repository) UpdateApplicationReview(a *models.ApiApplication, from models.ApplicationStatus) error {
	a.UpdatedAt = time.Now().UTC()

	var keyHash any
	if a.ApiKeyHash != "" {
		keyHash = a.ApiKeyHash
	}

	res, err := r.db.Exec(`
		UPDATE api_applications SET
			status = ?, review_note = ?, reviewed_by = ?, reviewed_at = ?,
			api_key_hash = ?, api_key_prefix = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`,
		string(a.Status), a.ReviewNote, a.ReviewedBy, a.ReviewedAt,
		keyHash, a.ApiKeyPrefix, a.UpdatedAt,
		a.ID, string(from),
	)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrStaleState
	}
	return nil
}
