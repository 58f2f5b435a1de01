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

type policyRequest struct {
	ProviderID         uint            `json:"provider_id"`
	IssuerDid          string          `json:"issuer_did"`
	BeneficiaryAddress string          `json:"beneficiary_address"`
	BeneficiaryDid     string          `json:"beneficiary_did"`
	CoverageAmount     decimal.Decimal `json:"coverage_amount"`
	StartEpoch         int64           `json:"start_epoch"`
	EndEpoch           int64           `json:"end_epoch"`
	Tier               string          `json:"tier"`
	PremiumPaid        decimal.Decimal `json:"premium_paid"`
	OnchainPolicyID    int64           `json:"onchain_policy_id"`
	KycDocCid          string          `json:"kyc_doc_cid"`
	PolicyVcCid        string          `json:"policy_vc_cid"`
}

func (r *policyRequest) toModel() *models.Policy {
	policy := &models.Policy{
		ProviderID:         r.ProviderID,
		IssuerDid:          r.IssuerDid,
		BeneficiaryAddress: r.BeneficiaryAddress,
		BeneficiaryDid:     r.BeneficiaryDid,
		CoverageAmount:     r.CoverageAmount,
		StartEpoch:         r.StartEpoch,
		EndEpoch:           r.EndEpoch,
		Tier:               r.Tier,
		PremiumPaid:        r.PremiumPaid,
		KycDocCid:          r.KycDocCid,
		PolicyVcCid:        r.PolicyVcCid,
	}
	if r.OnchainPolicyID != 0 {
		id := r.OnchainPolicyID
		policy.OnchainPolicyID = &id
	}
	return policy
}

// HandleIssuePolicy creates a PENDING policy for an approved provider.
// The policy activates later through the approval workflow.
func HandleIssuePolicy(c *fiber.Ctx) error {
	var req policyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ProviderID == 0 || strings.TrimSpace(req.BeneficiaryAddress) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "provider_id and beneficiary_address required"})
	}

	repos := repository.GetGlobalRepositories()
	provider, err := repos.Provider.GetByID(req.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "provider not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	if provider.Status != models.ProviderStatusApproved {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "provider is not approved"})
	}

	policy := req.toModel()
	policy.Status = models.PolicyStatusPending
	if policy.IssuerDid == "" {
		policy.IssuerDid = provider.ProviderDid
	}
	if err := policy.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := repos.Policy.Create(policy); err != nil {
		fiberlog.Errorf("policy issue failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	fiberlog.Infof("Policy issued for %s by provider %d (pending approval)", policy.BeneficiaryAddress, policy.ProviderID)
	return c.JSON(fiber.Map{"success": true, "policy": policy})
}

// HandleRecordPolicy records a policy whose premium was already paid
// on-chain. The row is created ACTIVE immediately. When no provider is
// named the first approved provider is used; with none available the
// caller is pointed at the seed command.
func HandleRecordPolicy(c *fiber.Ctx) error {
	var req policyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.BeneficiaryAddress) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "beneficiary_address required"})
	}

	repos := repository.GetGlobalRepositories()

	var provider *models.Provider
	var err error
	if req.ProviderID != 0 {
		provider, err = repos.Provider.GetByID(req.ProviderID)
	} else {
		provider, err = repos.Provider.GetFirstApproved()
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "no approved provider available; run the seed command to bootstrap one",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	policy := req.toModel()
	policy.ProviderID = provider.ID
	policy.Status = models.PolicyStatusActive
	now := nowFunc()
	policy.ApprovedAt = &now
	if policy.IssuerDid == "" {
		policy.IssuerDid = provider.ProviderDid
	}
	if err := policy.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := repos.Policy.Create(policy); err != nil {
		fiberlog.Errorf("policy record failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	fiberlog.Infof("Policy %d recorded as active for %s", policy.ID, policy.BeneficiaryAddress)
	return c.JSON(fiber.Map{"success": true, "policy": policy})
}

// HandleListPolicies returns all policies, newest first. A beneficiary
// query parameter narrows the result to one wallet.
func HandleListPolicies(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	var policies []models.Policy
	var err error
	if beneficiary := c.Query("beneficiary"); beneficiary != "" {
		policies, err = repos.Policy.GetByBeneficiary(beneficiary)
	} else {
		policies, err = repos.Policy.List()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "policies": policies})
}

// HandleGetPolicy returns a single policy by its database id.
func HandleGetPolicy(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	policy, err := repository.GetGlobalRepositories().Policy.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "policy not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "policy": policy})
}

// HandleListPendingPolicies returns PENDING policies awaiting review.
func HandleListPendingPolicies(c *fiber.Ctx) error {
	policies, err := getApprovalService().ListPendingPolicies(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "policies": policies})
}

// HandleApprovePolicy activates a pending policy.
func HandleApprovePolicy(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req struct {
		InsurerAddress string `json:"insurer_address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	policy, err := getApprovalService().ApprovePolicy(c.Context(), id, req.InsurerAddress)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "policy": policy})
}

// HandleRejectPolicy rejects a pending policy. A refund transaction
// hash executed by the caller, if any, is stored alongside the reason.
func HandleRejectPolicy(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req struct {
		Reason         string `json:"reason"`
		InsurerAddress string `json:"insurer_address"`
		RefundTxHash   string `json:"refund_tx_hash"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Reason) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reason required"})
	}

	policy, err := getApprovalService().RejectPolicy(c.Context(), id, req.Reason, req.InsurerAddress, req.RefundTxHash)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "policy": policy})
}
