package repository

import (
	"gorm.io/gorm"

	"github.com/coverchain/coverchain/app/models"
)

// providerRepository implements the ProviderRepository interface
type providerRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a new provider repository instance
func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

// Create inserts a new provider record
func (r *providerRepository) Create(provider *models.Provider) error {
	return r.db.Create(provider).Error
}

// GetByID retrieves a provider by its ID
func (r *providerRepository) GetByID(id uint) (*models.Provider, error) {
	var provider models.Provider
	err := r.db.First(&provider, id).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// GetByAddress retrieves a provider by its chain address
func (r *providerRepository) GetByAddress(address string) (*models.Provider, error) {
	var provider models.Provider
	err := r.db.Where("provider_address = ?", address).First(&provider).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// GetFirstApproved retrieves the earliest approved provider. Used as the
// attachment target for chain-recorded policies that carry no provider id.
func (r *providerRepository) GetFirstApproved() (*models.Provider, error) {
	var provider models.Provider
	err := r.db.Where("status = ?", models.ProviderStatusApproved).
		Order("id ASC").First(&provider).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// GetByStatus retrieves providers filtered by status, newest first
func (r *providerRepository) GetByStatus(status string) ([]models.Provider, error) {
	var providers []models.Provider
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").Find(&providers).Error
	return providers, err
}

// Update persists changes to an existing provider
func (r *providerRepository) Update(provider *models.Provider) error {
	return r.db.Save(provider).Error
}

// List retrieves all providers, newest first
func (r *providerRepository) List() ([]models.Provider, error) {
	var providers []models.Provider
	err := r.db.Order("created_at DESC").Find(&providers).Error
	return providers, err
}

// Count returns the total number of providers
func (r *providerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Provider{}).Count(&count).Error
	return count, err
}
