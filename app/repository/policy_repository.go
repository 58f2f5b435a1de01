package repository

import (
	"gorm.io/gorm"

	"github.com/coverchain/coverchain/app/models"
)

// policyRepository implements the PolicyRepository interface
type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new policy repository instance
func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

// Create inserts a new policy record
func (r *policyRepository) Create(policy *models.Policy) error {
	return r.db.Create(policy).Error
}

// GetByID retrieves a policy by its ID with the owning provider
func (r *policyRepository) GetByID(id uint) (*models.Policy, error) {
	var policy models.Policy
	err := r.db.Preload("Provider").First(&policy, id).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// GetByOnchainID retrieves a policy by its chain-side identifier
func (r *policyRepository) GetByOnchainID(onchainPolicyID int64) (*models.Policy, error) {
	var policy models.Policy
	err := r.db.Preload("Provider").
		Where("onchain_policy_id = ?", onchainPolicyID).First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// GetByStatus retrieves policies filtered by status, newest first
func (r *policyRepository) GetByStatus(status string) ([]models.Policy, error) {
	var policies []models.Policy
	err := r.db.Preload("Provider").Where("status = ?", status).
		Order("created_at DESC").Find(&policies).Error
	return policies, err
}

// GetByBeneficiary retrieves policies held by a beneficiary address
func (r *policyRepository) GetByBeneficiary(address string) ([]models.Policy, error) {
	var policies []models.Policy
	err := r.db.Preload("Provider").Where("beneficiary_address = ?", address).
		Order("created_at DESC").Find(&policies).Error
	return policies, err
}

// Update persists changes to an existing policy
func (r *policyRepository) Update(policy *models.Policy) error {
	return r.db.Save(policy).Error
}

// List retrieves all policies with their providers, newest first
func (r *policyRepository) List() ([]models.Policy, error) {
	var policies []models.Policy
	err := r.db.Preload("Provider").Order("created_at DESC").Find(&policies).Error
	return policies, err
}

// Count returns the total number of policies
func (r *policyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Policy{}).Count(&count).Error
	return count, err
}
