package database

import (
	"database/sql"
	"storefront/models"
	"strings"
	"time"
)

// ==================== USER OPERATIONS ====================

const userColumns = `id, email, name, password_hash, COALESCE(google_id, ''), role, disabled, created_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	var role string
	var lastLogin sql.NullTime

	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.GoogleID,
		&role, &user.Disabled, &user.CreatedAt, &lastLogin,
	)
	if err != nil {
		return nil, err
	}

	user.Role = models.Role(role)
	user.LastLoginAt = nullTime(lastLogin)
	return &user, nil
}

func (r *Repository) getUser(where string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(userID string) (*models.User, error) {
	return r.getUser("id = ?", userID)
}

// GetUserByEmail retrieves a user by email (case-insensitive)
func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	return r.getUser("email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByGoogleID retrieves a user linked to a Google account
func (r *Repository) GetUserByGoogleID(googleID string) (*models.User, error) {
	return r.getUser("google_id = ?", googleID)
}

// CreateUser inserts a new user; returns ErrDuplicate if the email is taken
func (r *Repository) CreateUser(user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = models.RoleOwner
	}

	var googleID any
	if user.GoogleID != "" {
		googleID = user.GoogleID
	}

	_, err := r.db.Exec(`
		INSERT INTO users (id, email, name, password_hash, google_id, role, disabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID, user.Email, user.Name, user.PasswordHash, googleID,
		string(user.Role), boolToInt(user.Disabled), user.CreatedAt, time.Now().UTC(),
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// LinkGoogleID attaches a Google account to an existing user
func (r *Repository) LinkGoogleID(userID, googleID string) error {
	_, err := r.db.Exec(`UPDATE users SET google_id = ?, updated_at = ? WHERE id = ?`,
		googleID, time.Now().UTC(), userID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// UpdatePassword replaces a user's password hash
func (r *Repository) UpdatePassword(userID, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), userID)
	return err
}

// UpdateLastLogin stamps the user's last successful login
func (r *Repository) UpdateLastLogin(userID string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`, now, now, userID)
	return err
}

// SetUserRole changes a user's role
func (r *Repository) SetUserRole(userID string, role models.Role) error {
	_, err := r.db.Exec(`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().UTC(), userID)
	return err
}

// SetUserDisabled enables or disables a user and drops their sessions when disabling
func (r *Repository) SetUserDisabled(userID string, disabled bool) error {
	return r.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`UPDATE users SET disabled = ?, updated_at = ? WHERE id = ?`,
			boolToInt(disabled), time.Now().UTC(), userID); err != nil {
			return err
		}
		if disabled {
			if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListUsers returns users ordered by creation date (paginated)
func (r *Repository) ListUsers(limit, offset int) ([]models.User, error) {
	rows, err := r.db.Query(`SELECT `+userColumns+` FROM users ORDER BY created_at ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}
