package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ProviderStatusPending  = "PENDING"
	ProviderStatusApproved = "APPROVED"
	ProviderStatusRejected = "REJECTED"
)

// Provider is an onboarded healthcare provider. The row is created once
// during onboarding and only the approval workflow mutates it afterwards.
type Provider struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ProviderDid     string     `gorm:"type:varchar(255);index" json:"provider_did" validate:"required"`
	ProviderAddress string     `gorm:"type:varchar(66);index;not null" json:"provider_address" validate:"required"`
	Name            string     `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	IssuerDid       string     `gorm:"type:varchar(255)" json:"issuer_did"`
	LicenseCid      string     `gorm:"type:varchar(100)" json:"license_cid"`
	VcCid           string     `gorm:"type:varchar(100)" json:"vc_cid"`
	Status          string     `gorm:"type:varchar(20);default:'PENDING';index" json:"status" validate:"oneof=PENDING APPROVED REJECTED"`
	ApprovedAt      *time.Time `gorm:"type:timestamp;default:null" json:"approved_at,omitempty"`
	ApprovedBy      string     `gorm:"type:varchar(66);default:null" json:"approved_by,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	IssuedAt        *time.Time `gorm:"type:timestamp;default:null" json:"issued_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Provider) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
