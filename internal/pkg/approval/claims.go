package approval

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/internal/pkg/apperrors"
)

// Claim lifecycle: PENDING -> UNDER_REVIEW -> {APPROVED, REJECTED},
// APPROVED -> PAID. Payout execution happens on-chain before the
// caller invokes MarkClaimPaid with the transaction hash as proof; the
// engine itself never talks to the chain.

// ListPendingClaims returns PENDING claims, newest first.
func (s *Service) ListPendingClaims(ctx context.Context) ([]models.Claim, error) {
	_ = ctx
	claims, err := s.repos.Claim.GetPending()
	if err != nil {
		return nil, apperrors.NewStorage("list pending claims", err)
	}
	return claims, nil
}

// ListUnderReviewClaims returns UNDER_REVIEW claims ordered by review
// time descending.
func (s *Service) ListUnderReviewClaims(ctx context.Context) ([]models.Claim, error) {
	_ = ctx
	claims, err := s.repos.Claim.GetUnderReview()
	if err != nil {
		return nil, apperrors.NewStorage("list under-review claims", err)
	}
	return claims, nil
}

// SetClaimUnderReview moves a claim from PENDING to UNDER_REVIEW.
func (s *Service) SetClaimUnderReview(ctx context.Context, id uint) (*models.Claim, error) {
	_ = ctx
	claim, err := s.getClaim(id)
	if err != nil {
		return nil, err
	}

	next, err := NextClaimStatus(claim.Status, ActionReview)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claim.Status = next
	claim.ReviewedAt = &now
	if err := s.repos.Claim.Update(claim); err != nil {
		return nil, apperrors.NewStorage("set claim under review", err)
	}

	log.Infof("[Approval] Claim #%d set to under review", claim.ID)
	return claim, nil
}

// ApproveClaim moves a claim from UNDER_REVIEW to APPROVED and records
// the payout amount.
func (s *Service) ApproveClaim(ctx context.Context, id uint, payoutAmount decimal.Decimal) (*models.Claim, error) {
	_ = ctx
	claim, err := s.getClaim(id)
	if err != nil {
		return nil, err
	}

	next, err := NextClaimStatus(claim.Status, ActionApprove)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claim.Status = next
	claim.PayoutAmount = payoutAmount
	claim.ReviewedAt = &now
	if err := s.repos.Claim.Update(claim); err != nil {
		return nil, apperrors.NewStorage("approve claim", err)
	}

	log.Infof("[Approval] Claim #%d approved for payout: %s", claim.ID, payoutAmount.String())
	return claim, nil
}

// RejectClaim moves a claim from UNDER_REVIEW to REJECTED.
func (s *Service) RejectClaim(ctx context.Context, id uint, reason string) (*models.Claim, error) {
	_ = ctx
	claim, err := s.getClaim(id)
	if err != nil {
		return nil, err
	}

	next, err := NextClaimStatus(claim.Status, ActionReject)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claim.Status = next
	claim.RejectionReason = reason
	claim.ReviewedAt = &now
	if err := s.repos.Claim.Update(claim); err != nil {
		return nil, apperrors.NewStorage("reject claim", err)
	}

	log.Infof("[Approval] Claim #%d rejected: %s", claim.ID, reason)
	return claim, nil
}

// MarkClaimPaid moves a claim from APPROVED to PAID and stores the
// payout transaction hash.
func (s *Service) MarkClaimPaid(ctx context.Context, id uint, txHash string) (*models.Claim, error) {
	_ = ctx
	claim, err := s.getClaim(id)
	if err != nil {
		return nil, err
	}

	next, err := NextClaimStatus(claim.Status, ActionMarkPaid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claim.Status = next
	claim.PayoutTxHash = txHash
	claim.PaidAt = &now
	if err := s.repos.Claim.Update(claim); err != nil {
		return nil, apperrors.NewStorage("mark claim paid", err)
	}

	log.Infof("[Approval] Claim #%d payment confirmed: %s", claim.ID, txHash)
	return claim, nil
}

func (s *Service) getClaim(id uint) (*models.Claim, error) {
	claim, err := s.repos.Claim.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("claim", id)
		}
		return nil, apperrors.NewStorage("get claim", err)
	}
	return claim, nil
}
