package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"storefront/database"
	"storefront/models"
	"storefront/shipping"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	apiKeyPrefix    = "sf_live_"
	apiKeyShownPart = len(apiKeyPrefix) + 6
)

// ApplicationService handles API access applications and key authentication
type ApplicationService struct {
	repo ApplicationRepository
}

// NewApplicationService creates a new application service
func NewApplicationService(repo ApplicationRepository) *ApplicationService {
	return &ApplicationService{repo: repo}
}

// Submit files an application for one of the owner's stores
func (as *ApplicationService) Submit(ownerID string, req models.ApiApplicationRequest) (*models.ApiApplication, error) {
	if _, err := ownedStore(as.repo, ownerID, req.StoreID); err != nil {
		return nil, err
	}

	apiType := models.ApiType(req.ApiType)
	existing, err := as.repo.FindActiveApplication(req.StoreID, apiType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrApplicationExists
	}

	now := time.Now().UTC()
	app := &models.ApiApplication{
		ID:        uuid.New().String(),
		StoreID:   req.StoreID,
		OwnerID:   ownerID,
		ApiType:   apiType,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    models.ApplicationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := as.repo.CreateApplication(app); err != nil {
		// a concurrent submit won the race past the check above
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrApplicationExists
		}
		return nil, err
	}
	return app, nil
}

// ListMine retrieves the owner's applications
func (as *ApplicationService) ListMine(ownerID string) ([]models.ApiApplication, error) {
	return as.repo.ListApplicationsByOwner(ownerID)
}

// List retrieves all applications for review
func (as *ApplicationService) List(status string) ([]models.ApiApplication, error) {
	return as.repo.ListApplications(status)
}

func (as *ApplicationService) get(id string) (*models.ApiApplication, error) {
	app, err := as.repo.GetApplication(id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	return app, nil
}

// Approve grants access and returns the plaintext key. It is never retrievable again.
func (as *ApplicationService) Approve(reviewerID, id, note string) (*models.ApiApplication, string, error) {
	app, err := as.get(id)
	if err != nil {
		return nil, "", err
	}
	if app.Status != models.ApplicationPending {
		return nil, "", ErrApplicationReviewed
	}

	key, err := generateAPIKey()
	if err != nil {
		return nil, "", err
	}

	app.Status = models.ApplicationApproved
	app.ApiKeyHash = hashAPIKey(key)
	app.ApiKeyPrefix = key[:apiKeyShownPart]
	if err := as.review(app, reviewerID, note, models.ApplicationPending); err != nil {
		return nil, "", err
	}
	return app, key, nil
}

// Reject declines a pending application
func (as *ApplicationService) Reject(reviewerID, id, note string) (*models.ApiApplication, error) {
	app, err := as.get(id)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationPending {
		return nil, ErrApplicationReviewed
	}

	app.Status = models.ApplicationRejected
	if err := as.review(app, reviewerID, note, models.ApplicationPending); err != nil {
		return nil, err
	}
	return app, nil
}

// Revoke withdraws an approved application's key
func (as *ApplicationService) Revoke(reviewerID, id, note string) (*models.ApiApplication, error) {
	app, err := as.get(id)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationApproved {
		return nil, ErrApplicationReviewed
	}

	app.Status = models.ApplicationRejected
	app.ApiKeyHash = ""
	if err := as.review(app, reviewerID, note, models.ApplicationApproved); err != nil {
		return nil, err
	}
	return app, nil
}

func (as *ApplicationService) review(app *models.ApiApplication, reviewerID, note string, from models.ApplicationStatus) error {
	now := time.Now().UTC()
	app.ReviewedBy = reviewerID
	app.ReviewedAt = &now
	app.ReviewNote = strings.TrimSpace(note)

	err := as.repo.UpdateApplicationReview(app, from)
	if errors.Is(err, database.ErrStaleState) {
		return ErrApplicationReviewed
	}
	return err
}

// Authenticate resolves an API key to its approved application
func (as *ApplicationService) Authenticate(key string) (*models.ApiApplication, error) {
	if !strings.HasPrefix(key, apiKeyPrefix) {
		return nil, ErrInvalidApiKey
	}

	app, err := as.repo.GetApplicationByKeyHash(hashAPIKey(key))
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrInvalidApiKey
	}
	return app, nil
}

// ShippingQuote prices a shipment with the rates of the application's store
func (as *ApplicationService) ShippingQuote(app *models.ApiApplication, req models.ExtShippingQuoteRequest) (*shipping.Quote, error) {
	store, err := as.repo.GetStoreByID(app.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	table, err := storeTable(as.repo, store.ID)
	if err != nil {
		return nil, err
	}

	quote, err := shipping.Calculate(table, shipping.Region(req.Region), req.WeightKg, req.Subtotal, store.FreeShippingMin)
	if errors.Is(err, shipping.ErrNoRate) {
		return nil, ErrShippingUnavailable
	}
	return quote, err
}

// PaymentQR is the GCash payment detail exposed through the QR API
type PaymentQR struct {
	StoreName   string `json:"store_name"`
	Domain      string `json:"domain"`
	GCashName   string `json:"gcash_name"`
	GCashNumber string `json:"gcash_number"`
	QRURL       string `json:"qr_url"`
}

// QR returns the GCash details of the application's store
func (as *ApplicationService) QR(app *models.ApiApplication) (*PaymentQR, error) {
	store, err := as.repo.GetStoreByID(app.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	if !store.GCashEnabled() {
		return nil, ErrPaymentMethodUnavailable
	}

	return &PaymentQR{
		StoreName:   store.Name,
		Domain:      store.Domain,
		GCashName:   store.GCashName,
		GCashNumber: store.GCashNumber,
		QRURL:       store.GCashQRURL,
	}, nil
}

func generateAPIKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return apiKeyPrefix + hex.EncodeToString(buf), nil
}

func hashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
