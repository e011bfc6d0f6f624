package database

import (
	"database/sql"
	"fmt"
	"storefront/models"
	"time"
)

// ==================== OUTBOX OPERATIONS ====================

const eventColumns = `id, aggregate_id, event_type, payload, status, retry_count, last_attempt_at, COALESCE(error, ''), created_at`

func insertEvent(ex execer, e *models.OutboxEvent) error {
	if e.Status == "" {
		e.Status = models.EventPending
	}
	_, err := ex.Exec(`
		INSERT INTO outbox_events (id, aggregate_id, event_type, payload, status, retry_count, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, e.ID, e.AggregateID, e.EventType, e.Payload, string(e.Status), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

func scanEvent(row interface{ Scan(...any) error }) (*models.OutboxEvent, error) {
	var e models.OutboxEvent
	var status string
	var lastAttempt sql.NullTime

	if err := row.Scan(
		&e.ID, &e.AggregateID, &e.EventType, &e.Payload, &status,
		&e.RetryCount, &lastAttempt, &e.Error, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.Status = models.EventStatus(status)
	e.LastAttemptAt = nullTime(lastAttempt)
	return &e, nil
}

func (r *Repository) queryEvents(query string, args ...any) ([]models.OutboxEvent, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.OutboxEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}

	return events, rows.Err()
}

// GetEvent retrieves an outbox event by ID
func (r *Repository) GetEvent(id string) (*models.OutboxEvent, error) {
	e, err := scanEvent(r.db.QueryRow(`SELECT `+eventColumns+` FROM outbox_events WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetPendingEvents returns events awaiting dispatch that were created before the cutoff
func (r *Repository) GetPendingEvents(limit int, createdBefore time.Time) ([]models.OutboxEvent, error) {
	return r.queryEvents(`
		SELECT `+eventColumns+` FROM outbox_events
		WHERE status IN ('pending', 'failed') AND retry_count < ? AND created_at < ?
		ORDER BY created_at ASC
		LIMIT ?
	`, models.MaxDispatchRetries, createdBefore.UTC(), limit)
}

// GetFailedEvents returns events that failed or were abandoned, newest first
func (r *Repository) GetFailedEvents(limit int) ([]models.OutboxEvent, error) {
	return r.queryEvents(`
		SELECT `+eventColumns+` FROM outbox_events
		WHERE status IN ('failed', 'abandoned')
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
}

// MarkEventDispatching claims an event for dispatch; false when another dispatcher holds it
func (r *Repository) MarkEventDispatching(id string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE outbox_events SET status = 'dispatching', last_attempt_at = ?
		WHERE id = ? AND status IN ('pending', 'failed')
	`, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// MarkEventDispatched records a successful publish
func (r *Repository) MarkEventDispatched(id string) error {
	_, err := r.db.Exec(`
		UPDATE outbox_events SET status = 'dispatched', error = NULL WHERE id = ?
	`, id)
	return err
}

// MarkEventFailed records a failed publish, abandoning the event after MaxDispatchRetries
func (r *Repository) MarkEventFailed(id string, errMsg string) error {
	_, err := r.db.Exec(`
		UPDATE outbox_events SET
			retry_count = retry_count + 1,
			error = ?,
			status = CASE
				WHEN retry_count + 1 >= ? THEN 'abandoned'
				ELSE 'failed'
			END
		WHERE id = ?
	`, errMsg, models.MaxDispatchRetries, id)
	return err
}

// RetryEvent resets a failed or abandoned event so the worker picks it up again
func (r *Repository) RetryEvent(id string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE outbox_events SET status = 'pending', retry_count = 0, error = NULL
		WHERE id = ? AND status IN ('failed', 'abandoned')
	`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// ResetStuckEvents returns events left in dispatching (e.g. after a crash) to pending
func (r *Repository) ResetStuckEvents(olderThan time.Time) (int64, error) {
	res, err := r.db.Exec(`
		UPDATE outbox_events SET status = 'pending'
		WHERE status = 'dispatching' AND last_attempt_at < ?
	`, olderThan.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
