package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	PolicyStatusPending  = "PENDING"
	PolicyStatusActive   = "ACTIVE"
	PolicyStatusRejected = "REJECTED"
)

// Policy is an insurance policy owned by a provider. Policies recorded
// from an on-chain premium payment start ACTIVE; administratively
// issued policies start PENDING and go through the approval workflow.
//
// OnchainPolicyID is unique: one chain-side policy maps to at most
// one row. Rows without a chain id leave it NULL.
type Policy struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ProviderID         uint            `gorm:"index;not null" json:"provider_id"`
	Provider           *Provider       `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	IssuerDid          string          `gorm:"type:varchar(255)" json:"issuer_did"`
	BeneficiaryAddress string          `gorm:"type:varchar(66);index;not null" json:"beneficiary_address" validate:"required"`
	BeneficiaryDid     string          `gorm:"type:varchar(255)" json:"beneficiary_did"`
	CoverageAmount     decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"coverage_amount"`
	StartEpoch         int64           `gorm:"not null" json:"start_epoch"`
	EndEpoch           int64           `gorm:"not null" json:"end_epoch"`
	Tier               string          `gorm:"type:varchar(50);default:'Standard'" json:"tier"`
	PremiumPaid        decimal.Decimal `gorm:"type:decimal(38,18);default:0" json:"premium_paid"`
	OnchainPolicyID    *int64          `gorm:"uniqueIndex" json:"onchain_policy_id,omitempty"`
	KycDocCid          string          `gorm:"type:varchar(100)" json:"kyc_doc_cid"`
	Status             string          `gorm:"type:varchar(20);default:'PENDING';index" json:"status" validate:"oneof=PENDING ACTIVE REJECTED"`
	PolicyVcCid        string          `gorm:"type:varchar(100)" json:"policy_vc_cid"`
	ApprovedAt         *time.Time      `gorm:"type:timestamp;default:null" json:"approved_at,omitempty"`
	RejectionReason    string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	RefundTxHash       string          `gorm:"type:varchar(66)" json:"refund_tx_hash,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Policy) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
