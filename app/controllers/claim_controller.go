package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/app/repository"
)

// HandleSubmitClaim creates a PENDING claim against a policy. The
// policy is resolved by database id first, then by its on-chain id.
func HandleSubmitClaim(c *fiber.Ctx) error {
	var req struct {
		PolicyID        uint   `json:"policy_id"`
		OnchainPolicyID int64  `json:"onchain_policy_id"`
		OnchainClaimID  int64  `json:"onchain_claim_id"`
		ClaimType       string `json:"claim_type"`
		EvidenceCid     string `json:"evidence_cid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.PolicyID == 0 && req.OnchainPolicyID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "policy_id or onchain_policy_id required"})
	}

	repos := repository.GetGlobalRepositories()

	var policy *models.Policy
	var err error
	if req.PolicyID != 0 {
		policy, err = repos.Policy.GetByID(req.PolicyID)
	} else {
		policy, err = repos.Policy.GetByOnchainID(req.OnchainPolicyID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "policy not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	claim := &models.Claim{
		PolicyID:    policy.ID,
		ClaimType:   req.ClaimType,
		EvidenceCid: req.EvidenceCid,
		Status:      models.ClaimStatusPending,
	}
	if req.OnchainClaimID != 0 {
		id := req.OnchainClaimID
		claim.OnchainClaimID = &id
	}
	if err := repos.Claim.Create(claim); err != nil {
		fiberlog.Errorf("claim submit failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	fiberlog.Infof("Claim %d submitted against policy %d", claim.ID, claim.PolicyID)
	return c.JSON(fiber.Map{"success": true, "claim": claim})
}

// HandleListClaims returns all claims, newest first.
func HandleListClaims(c *fiber.Ctx) error {
	claims, err := repository.GetGlobalRepositories().Claim.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "claims": claims})
}

// HandleListPendingClaims returns PENDING claims awaiting triage.
func HandleListPendingClaims(c *fiber.Ctx) error {
	claims, err := getApprovalService().ListPendingClaims(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "claims": claims})
}

// HandleListUnderReviewClaims returns claims currently under review.
func HandleListUnderReviewClaims(c *fiber.Ctx) error {
	claims, err := getApprovalService().ListUnderReviewClaims(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "claims": claims})
}

// HandleClaimUnderReview moves a pending claim into review.
func HandleClaimUnderReview(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}
	claim, err := getApprovalService().SetClaimUnderReview(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "claim": claim})
}

// HandleApproveClaim approves a claim under review with a payout
// amount. Amounts arrive as a JSON string or number.
func HandleApproveClaim(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req struct {
		PayoutAmount decimal.Decimal `json:"payout_amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.PayoutAmount.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payout_amount required"})
	}

	claim, err := getApprovalService().ApproveClaim(c.Context(), id, req.PayoutAmount)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "claim": claim})
}

// HandleRejectClaim rejects a claim under review with a reason.
func HandleRejectClaim(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Reason) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reason required"})
	}

	claim, err := getApprovalService().RejectClaim(c.Context(), id, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "claim": claim})
}

// HandleMarkClaimPaid confirms an approved claim's payout with its
// transaction hash.
func HandleMarkClaimPaid(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req struct {
		TxHash string `json:"tx_hash"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.TxHash) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tx_hash required"})
	}

	claim, err := getApprovalService().MarkClaimPaid(c.Context(), id, req.TxHash)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "claim": claim})
}

// HandleUpdateClaimStatus routes a generic status-update request to
// the matching workflow step. The claim is resolved by database id or
// by its on-chain id; every target status still goes through the
// lifecycle guards.
func HandleUpdateClaimStatus(c *fiber.Ctx) error {
	var req struct {
		ClaimID        uint            `json:"claim_id"`
		OnchainClaimID int64           `json:"onchain_claim_id"`
		Status         string          `json:"status"`
		Reason         string          `json:"reason"`
		PayoutAmount   decimal.Decimal `json:"payout_amount"`
		TxHash         string          `json:"tx_hash"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ClaimID == 0 && req.OnchainClaimID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "claim_id or onchain_claim_id required"})
	}

	id := req.ClaimID
	if id == 0 {
		found, err := repository.GetGlobalRepositories().Claim.GetByOnchainID(req.OnchainClaimID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "claim not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
		}
		id = found.ID
	}

	svc := getApprovalService()
	var claim *models.Claim
	var err error
	switch req.Status {
	case models.ClaimStatusUnderReview:
		claim, err = svc.SetClaimUnderReview(c.Context(), id)
	case models.ClaimStatusApproved:
		if req.PayoutAmount.IsZero() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payout_amount required"})
		}
		claim, err = svc.ApproveClaim(c.Context(), id, req.PayoutAmount)
	case models.ClaimStatusRejected:
		if strings.TrimSpace(req.Reason) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reason required"})
		}
		claim, err = svc.RejectClaim(c.Context(), id, req.Reason)
	case models.ClaimStatusPaid:
		if strings.TrimSpace(req.TxHash) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tx_hash required"})
		}
		claim, err = svc.MarkClaimPaid(c.Context(), id, req.TxHash)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown target status: " + req.Status})
	}
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "claim": claim})
}
