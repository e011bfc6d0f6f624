package session

import (
	"database/sql"
	"log/slog"
	"storefront/models"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a session lives without being refreshed
const DefaultTTL = 30 * 24 * time.Hour

// Store keeps sessions in the sessions table so they survive restarts
type Store struct {
	db       *sql.DB
	ttl      time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewStore(db *sql.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		db:       db,
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Create(user *models.User) (*models.Session, error) {
	now := time.Now().UTC()
	session := &models.Session{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		ExpiresAt:  now.Add(s.ttl),
		CreatedAt:  now,
		LastUsedAt: now,
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, user_id, expires_at, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.UserID, session.ExpiresAt, session.CreatedAt, session.LastUsedAt)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Get returns a live session, or nil when it is unknown, expired or its user is disabled
func (s *Store) Get(sessionID string) (*models.Session, error) {
	var session models.Session
	var role string
	var disabled bool

	err := s.db.QueryRow(`
		SELECT s.id, s.user_id, u.email, u.name, u.role, u.disabled,
		       s.expires_at, s.created_at, s.last_used_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, sessionID).Scan(
		&session.ID, &session.UserID, &session.Email, &session.Name, &role, &disabled,
		&session.ExpiresAt, &session.CreatedAt, &session.LastUsedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if disabled || time.Now().After(session.ExpiresAt) {
		return nil, nil
	}

	session.Role = models.Role(role)
	return &session, nil
}

// Touch records session activity
func (s *Store) Touch(sessionID string) error {
	_, err := s.db.Exec(`UPDATE sessions SET last_used_at = ? WHERE id = ?`, time.Now().UTC(), sessionID)
	return err
}

func (s *Store) Delete(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

// DeleteForUser drops every session of a user
func (s *Store) DeleteForUser(userID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

func (s *Store) CleanupExpired() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) StartCleanupRoutine(interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				removed, err := s.CleanupExpired()
				if err != nil {
					slog.Error("session cleanup failed", "error", err)
					continue
				}
				if removed > 0 {
					slog.Debug("expired sessions removed", "count", removed)
				}
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Stop ends the cleanup routine and waits for it to exit
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}
