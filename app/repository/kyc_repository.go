package repository

import (
	"gorm.io/gorm"

	"github.com/coverchain/coverchain/app/models"
)

// kycDocumentRepository implements the KycDocumentRepository interface
type kycDocumentRepository struct {
	db *gorm.DB
}

// NewKycDocumentRepository creates a new KYC document repository instance
func NewKycDocumentRepository(db *gorm.DB) KycDocumentRepository {
	return &kycDocumentRepository{db: db}
}

// Create inserts a new KYC document record
func (r *kycDocumentRepository) Create(doc *models.KycDocument) error {
	return r.db.Create(doc).Error
}

// GetByID retrieves a KYC document by its ID
func (r *kycDocumentRepository) GetByID(id uint) (*models.KycDocument, error) {
	var doc models.KycDocument
	err := r.db.First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetByUserAddress retrieves all documents uploaded by an address, newest first
func (r *kycDocumentRepository) GetByUserAddress(address string) ([]models.KycDocument, error) {
	var docs []models.KycDocument
	err := r.db.Where("user_address = ?", address).
		Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// GetPending retrieves PENDING documents, newest first
func (r *kycDocumentRepository) GetPending() ([]models.KycDocument, error) {
	var docs []models.KycDocument
	err := r.db.Where("status = ?", models.KycStatusPending).
		Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// Update persists changes to an existing KYC document
func (r *kycDocumentRepository) Update(doc *models.KycDocument) error {
	return r.db.Save(doc).Error
}
