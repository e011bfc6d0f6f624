package services

import (
	"storefront/models"
)

// AdminService handles super admin operations on users, stores and the event outbox
type AdminService struct {
	repo       AdminRepository
	dispatcher EventDispatcher
}

// NewAdminService creates a new admin service
func NewAdminService(repo AdminRepository, dispatcher EventDispatcher) *AdminService {
	return &AdminService{repo: repo, dispatcher: dispatcher}
}

func normalizePage(limit, offset int) (int, int) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListUsers retrieves users with pagination
func (as *AdminService) ListUsers(limit, offset int) ([]models.User, error) {
	limit, offset = normalizePage(limit, offset)
	return as.repo.ListUsers(limit, offset)
}

// SetUserDisabled disables or re-enables an account. Admins cannot disable themselves.
func (as *AdminService) SetUserDisabled(adminID, userID string, disabled bool) (*models.User, error) {
	if adminID == userID && disabled {
		return nil, ErrForbidden
	}

	user, err := as.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := as.repo.SetUserDisabled(userID, disabled); err != nil {
		return nil, err
	}
	user.Disabled = disabled
	return user, nil
}

// ListStores retrieves every store with pagination
func (as *AdminService) ListStores(limit, offset int) ([]models.Store, error) {
	limit, offset = normalizePage(limit, offset)
	return as.repo.ListAllStores(limit, offset)
}

// FailedEvents returns outbox events that failed or were abandoned
func (as *AdminService) FailedEvents(limit int) ([]models.OutboxEvent, error) {
	limit, _ = normalizePage(limit, 0)
	return as.repo.GetFailedEvents(limit)
}

// RetryEvent requeues a failed or abandoned event and dispatches it right away
func (as *AdminService) RetryEvent(id string) error {
	event, err := as.repo.GetEvent(id)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}

	ok, err := as.repo.RetryEvent(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEventNotRetryable
	}

	if as.dispatcher != nil {
		as.dispatcher.DispatchImmediate(id)
	}
	return nil
}
