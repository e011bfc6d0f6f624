package services

import (
	"errors"
	"storefront/database"
	"storefront/models"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketService handles support tickets between owners and super admins
type TicketService struct {
	repo TicketRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(repo TicketRepository) *TicketService {
	return &TicketService{repo: repo}
}

// Create opens a ticket with its first message
func (ts *TicketService) Create(owner *models.Session, req models.CreateTicketRequest) (*models.SupportTicket, error) {
	if req.StoreID != "" {
		if _, err := ownedStore(ts.repo, owner.UserID, req.StoreID); err != nil {
			return nil, err
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	now := time.Now().UTC()
	ticket := &models.SupportTicket{
		ID:        uuid.New().String(),
		OwnerID:   owner.UserID,
		StoreID:   req.StoreID,
		Subject:   strings.TrimSpace(req.Subject),
		Priority:  priority,
		Status:    models.TicketOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	first := &models.TicketMessage{
		ID:         uuid.New().String(),
		TicketID:   ticket.ID,
		AuthorID:   owner.UserID,
		AuthorRole: owner.Role,
		Body:       strings.TrimSpace(req.Message),
		CreatedAt:  now,
	}

	if err := ts.repo.CreateTicket(ticket, first); err != nil {
		return nil, err
	}
	return ticket, nil
}

// List returns the caller's tickets, or every ticket for a super admin
func (ts *TicketService) List(sess *models.Session, status string) ([]models.SupportTicket, error) {
	if sess.Role == models.RoleSuperAdmin {
		return ts.repo.ListTickets(status)
	}

	tickets, err := ts.repo.ListTicketsByOwner(sess.UserID)
	if err != nil || status == "" {
		return tickets, err
	}

	filtered := make([]models.SupportTicket, 0, len(tickets))
	for _, t := range tickets {
		if string(t.Status) == status {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// Get returns a ticket visible to the caller
func (ts *TicketService) Get(sess *models.Session, ticketID string) (*models.SupportTicket, error) {
	ticket, err := ts.repo.GetTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil || (sess.Role != models.RoleSuperAdmin && ticket.OwnerID != sess.UserID) {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// Messages returns the conversation, only messages newer than after when given.
// The cursor for the next poll is taken before the query runs, so anything
// committed during the query is still newer than it.
func (ts *TicketService) Messages(sess *models.Session, ticketID string, after *time.Time) ([]models.TicketMessage, time.Time, error) {
	if _, err := ts.Get(sess, ticketID); err != nil {
		return nil, time.Time{}, err
	}

	cursor := time.Now().UTC()
	messages, err := ts.repo.ListTicketMessages(ticketID, after)
	if err != nil {
		return nil, time.Time{}, err
	}
	return messages, cursor, nil
}

// PostMessage adds a message to an open ticket
func (ts *TicketService) PostMessage(sess *models.Session, ticketID, body string) (*models.TicketMessage, error) {
	ticket, err := ts.Get(sess, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketClosed {
		return nil, ErrTicketClosed
	}

	msg := &models.TicketMessage{
		ID:         uuid.New().String(),
		TicketID:   ticketID,
		AuthorID:   sess.UserID,
		AuthorRole: sess.Role,
		Body:       strings.TrimSpace(body),
		CreatedAt:  time.Now().UTC(),
	}
	if err := ts.repo.AddTicketMessage(msg); err != nil {
		if errors.Is(err, database.ErrStaleState) {
			return nil, ErrTicketClosed
		}
		return nil, err
	}
	return msg, nil
}

// SetStatus closes or reopens a ticket
func (ts *TicketService) SetStatus(sess *models.Session, ticketID string, status models.TicketStatus) (*models.SupportTicket, error) {
	ticket, err := ts.Get(sess, ticketID)
	if err != nil {
		return nil, err
	}
	if err := ts.repo.SetTicketStatus(ticketID, status); err != nil {
		return nil, err
	}
	ticket.Status = status
	return ticket, nil
}
