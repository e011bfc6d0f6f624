package database

import (
	"database/sql"
	"storefront/models"
	"time"
)

// ==================== SUPPORT TICKET OPERATIONS ====================

const ticketColumns = `id, owner_id, store_id, subject, priority, status, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*models.SupportTicket, error) {
	var t models.SupportTicket
	var status string
	if err := row.Scan(&t.ID, &t.OwnerID, &t.StoreID, &t.Subject, &t.Priority, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = models.TicketStatus(status)
	return &t, nil
}

// CreateTicket inserts a ticket together with its opening message
func (r *Repository) CreateTicket(t *models.SupportTicket, first *models.TicketMessage) error {
	return r.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO support_tickets (`+ticketColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.OwnerID, t.StoreID, t.Subject, t.Priority, string(t.Status), t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return err
		}
		return insertTicketMessage(tx, first)
	})
}

func insertTicketMessage(ex execer, m *models.TicketMessage) error {
	_, err := ex.Exec(`
		INSERT INTO ticket_messages (id, ticket_id, author_id, author_role, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.TicketID, m.AuthorID, string(m.AuthorRole), m.Body, m.CreatedAt)
	return err
}

// GetTicket retrieves a ticket by ID
func (r *Repository) GetTicket(ticketID string) (*models.SupportTicket, error) {
	t, err := scanTicket(r.db.QueryRow(`SELECT `+ticketColumns+` FROM support_tickets WHERE id = ?`, ticketID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repository) queryTickets(query string, args ...any) ([]models.SupportTicket, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]models.SupportTicket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}

	return tickets, rows.Err()
}

// ListTicketsByOwner retrieves an owner's tickets, most recently active first
func (r *Repository) ListTicketsByOwner(ownerID string) ([]models.SupportTicket, error) {
	return r.queryTickets(
		`SELECT `+ticketColumns+` FROM support_tickets WHERE owner_id = ? ORDER BY updated_at DESC`,
		ownerID,
	)
}

// ListTickets retrieves all tickets, optionally filtered by status
func (r *Repository) ListTickets(status string) ([]models.SupportTicket, error) {
	if status == "" {
		return r.queryTickets(`SELECT ` + ticketColumns + ` FROM support_tickets ORDER BY updated_at DESC`)
	}
	return r.queryTickets(
		`SELECT `+ticketColumns+` FROM support_tickets WHERE status = ? ORDER BY updated_at DESC`,
		status,
	)
}

// AddTicketMessage appends a message to an open ticket and bumps its activity time.
// Returns ErrStaleState if the ticket is no longer open.
func (r *Repository) AddTicketMessage(m *models.TicketMessage) error {
	return r.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE support_tickets SET updated_at = ? WHERE id = ? AND status = 'open'
		`, m.CreatedAt, m.TicketID)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrStaleState
		}
		return insertTicketMessage(tx, m)
	})
}

// ListTicketMessages retrieves a ticket's messages in order, only those after the given time when set
func (r *Repository) ListTicketMessages(ticketID string, after *time.Time) ([]models.TicketMessage, error) {
	query := `SELECT id, ticket_id, author_id, author_role, body, created_at FROM ticket_messages WHERE ticket_id = ?`
	args := []any{ticketID}
	if after != nil {
		query += ` AND created_at > ?`
		args = append(args, after.UTC())
	}
	query += ` ORDER BY created_at ASC, rowid ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.TicketMessage, 0)
	for rows.Next() {
		var m models.TicketMessage
		var role string
		if err := rows.Scan(&m.ID, &m.TicketID, &m.AuthorID, &role, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.AuthorRole = models.Role(role)
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// SetTicketStatus opens or closes a ticket
func (r *Repository) SetTicketStatus(ticketID string, status models.TicketStatus) error {
	_, err := r.db.Exec(`
		UPDATE support_tickets SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), time.Now().UTC(), ticketID)
	return err
}
