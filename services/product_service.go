package services

import (
	"errors"
	"storefront/database"
	"storefront/models"
	"storefront/shipping"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProductService handles business logic for products
type ProductService struct {
	repo ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// List retrieves every product of an owned store
func (ps *ProductService) List(ownerID, storeID string) ([]models.Product, error) {
	if _, err := ownedStore(ps.repo, ownerID, storeID); err != nil {
		return nil, err
	}
	return ps.repo.ListProducts(storeID, false)
}

// Get retrieves a product of an owned store
func (ps *ProductService) Get(ownerID, storeID, productID string) (*models.Product, error) {
	if _, err := ownedStore(ps.repo, ownerID, storeID); err != nil {
		return nil, err
	}

	product, err := ps.repo.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create adds a product; its weight band is derived from the weight
func (ps *ProductService) Create(ownerID, storeID string, req models.ProductRequest) (*models.Product, error) {
	if _, err := ownedStore(ps.repo, ownerID, storeID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyProductRequest(product, req); err != nil {
		return nil, err
	}

	if err := ps.repo.CreateProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves a product's editable fields
func (ps *ProductService) Update(ownerID, storeID, productID string, req models.ProductRequest) (*models.Product, error) {
	product, err := ps.Get(ownerID, storeID, productID)
	if err != nil {
		return nil, err
	}

	if err := applyProductRequest(product, req); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()

	if err := ps.repo.UpdateProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}

func applyProductRequest(product *models.Product, req models.ProductRequest) error {
	band, err := shipping.ClassifyWeight(req.WeightKg)
	if err != nil {
		return err
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Price = req.Price
	product.WeightKg = req.WeightKg
	product.WeightBand = string(band)
	product.Stock = req.Stock
	product.ImageURL = req.ImageURL
	product.SortOrder = req.SortOrder
	if req.Active != nil {
		product.Active = *req.Active
	}
	return nil
}

// AdjustStock changes stock by delta and returns the new level
func (ps *ProductService) AdjustStock(ownerID, storeID, productID string, delta int) (*models.Product, error) {
	product, err := ps.Get(ownerID, storeID, productID)
	if err != nil {
		return nil, err
	}

	stock, err := ps.repo.AdjustStock(productID, delta)
	if err != nil {
		if errors.Is(err, database.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	product.Stock = stock
	return product, nil
}

// Delete removes a product
func (ps *ProductService) Delete(ownerID, storeID, productID string) error {
	if _, err := ps.Get(ownerID, storeID, productID); err != nil {
		return err
	}
	return ps.repo.DeleteProduct(productID)
}
