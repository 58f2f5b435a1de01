package repository

import (
	"gorm.io/gorm"

	"github.com/coverchain/coverchain/app/models"
)

// claimRepository implements the ClaimRepository interface
type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new claim repository instance
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

// Create inserts a new claim record
func (r *claimRepository) Create(claim *models.Claim) error {
	return r.db.Create(claim).Error
}

// GetByID retrieves a claim by its ID with policy and provider
func (r *claimRepository) GetByID(id uint) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.Preload("Policy").Preload("Policy.Provider").First(&claim, id).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// GetByOnchainID retrieves a claim by its chain-side identifier
func (r *claimRepository) GetByOnchainID(onchainClaimID int64) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.Preload("Policy").Preload("Policy.Provider").
		Where("onchain_claim_id = ?", onchainClaimID).First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// GetPending retrieves PENDING claims, newest first
func (r *claimRepository) GetPending() ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Preload("Policy").Preload("Policy.Provider").
		Where("status = ?", models.ClaimStatusPending).
		Order("created_at DESC").Find(&claims).Error
	return claims, err
}

// GetUnderReview retrieves UNDER_REVIEW claims ordered by review time descending
func (r *claimRepository) GetUnderReview() ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Preload("Policy").Preload("Policy.Provider").
		Where("status = ?", models.ClaimStatusUnderReview).
		Order("reviewed_at DESC").Find(&claims).Error
	return claims, err
}

// Update persists changes to an existing claim
func (r *claimRepository) Update(claim *models.Claim) error {
	return r.db.Save(claim).Error
}

// List retrieves all claims with policy and provider, newest first
func (r *claimRepository) List() ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Preload("Policy").Preload("Policy.Provider").
		Order("created_at DESC").Find(&claims).Error
	return claims, err
}

// Count returns the total number of claims
func (r *claimRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Claim{}).Count(&count).Error
	return count, err
}
