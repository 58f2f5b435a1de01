package repository

import (
	"github.com/coverchain/coverchain/app/models"
)

// ProviderRepository defines the interface for provider-related database operations
type ProviderRepository interface {
	Create(provider *models.Provider) error
	GetByID(id uint) (*models.Provider, error)
	GetByAddress(address string) (*models.Provider, error)
	GetFirstApproved() (*models.Provider, error)
	GetByStatus(status string) ([]models.Provider, error)
	Update(provider *models.Provider) error
	List() ([]models.Provider, error)
	Count() (int64, error)
}

// PolicyRepository defines the interface for policy-related database operations
type PolicyRepository interface {
	Create(policy *models.Policy) error
	GetByID(id uint) (*models.Policy, error)
	GetByOnchainID(onchainPolicyID int64) (*models.Policy, error)
	GetByStatus(status string) ([]models.Policy, error)
	GetByBeneficiary(address string) ([]models.Policy, error)
	Update(policy *models.Policy) error
	List() ([]models.Policy, error)
	Count() (int64, error)
}

// ClaimRepository defines the interface for claim-related database operations
type ClaimRepository interface {
	Create(claim *models.Claim) error
	GetByID(id uint) (*models.Claim, error)
	GetByOnchainID(onchainClaimID int64) (*models.Claim, error)
	GetPending() ([]models.Claim, error)
	GetUnderReview() ([]models.Claim, error)
	Update(claim *models.Claim) error
	List() ([]models.Claim, error)
	Count() (int64, error)
}

// KycDocumentRepository defines the interface for KYC document operations
type KycDocumentRepository interface {
	Create(doc *models.KycDocument) error
	GetByID(id uint) (*models.KycDocument, error)
	GetByUserAddress(address string) ([]models.KycDocument, error)
	GetPending() ([]models.KycDocument, error)
	Update(doc *models.KycDocument) error
}
