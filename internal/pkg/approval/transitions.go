package approval

import (
	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/internal/pkg/apperrors"
)

// Action names a workflow step applied to a record.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionReview   Action = "review"
	ActionMarkPaid Action = "mark_paid"
	ActionVerify   Action = "verify"
)

// Transition tables: from-status x action -> to-status. A missing
// entry means the step is illegal from that status; callers get an
// InvalidTransitionError instead of a silent overwrite.
var providerTransitions = map[string]map[Action]string{
	models.ProviderStatusPending: {
		ActionApprove: models.ProviderStatusApproved,
		ActionReject:  models.ProviderStatusRejected,
	},
}

var policyTransitions = map[string]map[Action]string{
	models.PolicyStatusPending: {
		ActionApprove: models.PolicyStatusActive,
		ActionReject:  models.PolicyStatusRejected,
	},
}

var claimTransitions = map[string]map[Action]string{
	models.ClaimStatusPending: {
		ActionReview: models.ClaimStatusUnderReview,
	},
	models.ClaimStatusUnderReview: {
		ActionApprove: models.ClaimStatusApproved,
		ActionReject:  models.ClaimStatusRejected,
	},
	models.ClaimStatusApproved: {
		ActionMarkPaid: models.ClaimStatusPaid,
	},
}

var kycTransitions = map[string]map[Action]string{
	models.KycStatusPending: {
		ActionVerify: models.KycStatusVerified,
		ActionReject: models.KycStatusRejected,
	},
}

// nextStatus resolves a transition or fails with InvalidTransitionError.
func nextStatus(entity string, table map[string]map[Action]string, from string, action Action) (string, error) {
	if actions, ok := table[from]; ok {
		if to, ok := actions[action]; ok {
			return to, nil
		}
	}
	return "", &apperrors.InvalidTransitionError{Entity: entity, From: from, Action: string(action)}
}

// NextProviderStatus resolves a provider workflow step.
func NextProviderStatus(from string, action Action) (string, error) {
	return nextStatus("provider", providerTransitions, from, action)
}

// NextPolicyStatus resolves a policy workflow step.
func NextPolicyStatus(from string, action Action) (string, error) {
	return nextStatus("policy", policyTransitions, from, action)
}

// NextClaimStatus resolves a claim lifecycle step.
func NextClaimStatus(from string, action Action) (string, error) {
	return nextStatus("claim", claimTransitions, from, action)
}

// NextKycStatus resolves a KYC verification step.
func NextKycStatus(from string, action Action) (string, error) {
	return nextStatus("kyc_document", kycTransitions, from, action)
}
