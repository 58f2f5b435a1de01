package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles all repository instances
type Repositories struct {
	Provider ProviderRepository
	Policy   PolicyRepository
	Claim    ClaimRepository
	Kyc      KycDocumentRepository
}

// NewRepositories creates all repositories from a GORM DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Provider: NewProviderRepository(db),
		Policy:   NewPolicyRepository(db),
		Claim:    NewClaimRepository(db),
		Kyc:      NewKycDocumentRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetProviderRepository returns the provider repository instance
func (f *Factory) GetProviderRepository() ProviderRepository {
	return f.GetRepositories().Provider
}

// GetPolicyRepository returns the policy repository instance
func (f *Factory) GetPolicyRepository() PolicyRepository {
	return f.GetRepositories().Policy
}

// GetClaimRepository returns the claim repository instance
func (f *Factory) GetClaimRepository() ClaimRepository {
	return f.GetRepositories().Claim
}

// GetKycDocumentRepository returns the KYC document repository instance
func (f *Factory) GetKycDocumentRepository() KycDocumentRepository {
	return f.GetRepositories().Kyc
}

// Global factory instance
var globalFactory *Factory
var factoryMu sync.Mutex

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	globalFactory = NewFactory(db)
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
