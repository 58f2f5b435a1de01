package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ClaimStatusPending     = "PENDING"
	ClaimStatusUnderReview = "UNDER_REVIEW"
	ClaimStatusApproved    = "APPROVED"
	ClaimStatusRejected    = "REJECTED"
	ClaimStatusPaid        = "PAID"
)

// Claim tracks a payout request against a policy through its
// five-state lifecycle. REJECTED and PAID are terminal.
type Claim struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	PolicyID        uint            `gorm:"index;not null" json:"policy_id"`
	Policy          *Policy         `gorm:"foreignKey:PolicyID" json:"policy,omitempty"`
	OnchainClaimID  *int64          `gorm:"uniqueIndex" json:"onchain_claim_id,omitempty"`
	ClaimType       string          `gorm:"type:varchar(50)" json:"claim_type"`
	EvidenceCid     string          `gorm:"type:varchar(100)" json:"evidence_cid"`
	Status          string          `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	PayoutAmount    decimal.Decimal `gorm:"type:decimal(38,18);default:0" json:"payout_amount"`
	PayoutTxHash    string          `gorm:"type:varchar(66)" json:"payout_tx_hash,omitempty"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time      `gorm:"type:timestamp;default:null" json:"reviewed_at,omitempty"`
	PaidAt          *time.Time      `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
