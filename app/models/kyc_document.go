package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	KycStatusPending  = "PENDING"
	KycStatusVerified = "VERIFIED"
	KycStatusRejected = "REJECTED"
)

// KycDocument is an identity document pinned to the object storage
// gateway and verified by an insurer.
type KycDocument struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserAddress     string     `gorm:"type:varchar(66);index;not null" json:"user_address" validate:"required"`
	UserDid         string     `gorm:"type:varchar(255)" json:"user_did"`
	DocumentType    string     `gorm:"type:varchar(50);not null" json:"document_type" validate:"required"`
	DocumentCid     string     `gorm:"type:varchar(100);not null" json:"document_cid" validate:"required"`
	Status          string     `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	VerifiedBy      string     `gorm:"type:varchar(66);default:null" json:"verified_by,omitempty"`
	VerifiedAt      *time.Time `gorm:"type:timestamp;default:null" json:"verified_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (k *KycDocument) Validate() error {
	v := validator.New()

	return v.Struct(k)
}
