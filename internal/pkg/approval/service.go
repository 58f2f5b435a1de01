package approval

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/app/repository"
	"github.com/coverchain/coverchain/internal/pkg/apperrors"
	"github.com/coverchain/coverchain/internal/pkg/jobqueue"
)

// MirrorFunc schedules the on-chain replay of a provider approval.
// It is best-effort: the caller ignores its outcome.
type MirrorFunc func(provider *models.Provider, approvedBy string) error

// Service applies status transitions to providers and policies and
// schedules the best-effort on-chain mirror of provider approvals.
// The local database write is authoritative; the mirror may lag or
// never happen.
type Service struct {
	repos  *repository.Repositories
	mirror MirrorFunc
}

// NewService creates an approval service from injected repositories
// and mirror scheduler.
func NewService(repos *repository.Repositories, mirror MirrorFunc) *Service {
	if mirror == nil {
		mirror = enqueueMirrorJob
	}
	return &Service{repos: repos, mirror: mirror}
}

// NewServiceFromDB creates an approval service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(repository.NewRepositories(db), nil)
}

// enqueueMirrorJob hands the approval to the chain-mirror queue. An
// enqueue failure is logged and swallowed; the approval stands.
func enqueueMirrorJob(provider *models.Provider, approvedBy string) error {
	payload := jobqueue.ChainMirrorJobPayload{
		ProviderID:      provider.ID,
		ProviderAddress: provider.ProviderAddress,
		ApprovedBy:      approvedBy,
	}
	_, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeChainMirror, payload.ToMap())
	return err
}

// ListPendingProviders returns PENDING providers, newest first.
func (s *Service) ListPendingProviders(ctx context.Context) ([]models.Provider, error) {
	_ = ctx
	providers, err := s.repos.Provider.GetByStatus(models.ProviderStatusPending)
	if err != nil {
		return nil, apperrors.NewStorage("list pending providers", err)
	}
	return providers, nil
}

// ApproveProvider moves a provider from PENDING to APPROVED and
// schedules the on-chain mirror once the local write has succeeded.
func (s *Service) ApproveProvider(ctx context.Context, id uint, approverAddress string) (*models.Provider, error) {
	_ = ctx
	provider, err := s.getProvider(id)
	if err != nil {
		return nil, err
	}

	next, err := NextProviderStatus(provider.Status, ActionApprove)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	provider.Status = next
	provider.ApprovedAt = &now
	provider.ApprovedBy = approverAddress
	if err := s.repos.Provider.Update(provider); err != nil {
		return nil, apperrors.NewStorage("approve provider", err)
	}

	log.Infof("[Approval] Provider %s approved by %s", provider.ProviderDid, approverAddress)

	// Best effort from here on: the database state is the source of
	// truth and the on-chain mirror may lag or never happen.
	if err := s.mirror(provider, approverAddress); err != nil {
		log.Warnf("[Approval] Failed to schedule on-chain mirror for provider %d (database updated): %v", provider.ID, err)
	}

	return provider, nil
}

// RejectProvider moves a provider from PENDING to REJECTED and records
// the reason. No chain call is made.
func (s *Service) RejectProvider(ctx context.Context, id uint, reason, approverAddress string) (*models.Provider, error) {
	_ = ctx
	provider, err := s.getProvider(id)
	if err != nil {
		return nil, err
	}

	next, err := NextProviderStatus(provider.Status, ActionReject)
	if err != nil {
		return nil, err
	}

	provider.Status = next
	provider.RejectionReason = reason
	provider.ApprovedBy = approverAddress
	if err := s.repos.Provider.Update(provider); err != nil {
		return nil, apperrors.NewStorage("reject provider", err)
	}

	log.Infof("[Approval] Provider %s rejected: %s", provider.ProviderDid, reason)
	return provider, nil
}

// ListPendingPolicies returns PENDING policies, newest first.
func (s *Service) ListPendingPolicies(ctx context.Context) ([]models.Policy, error) {
	_ = ctx
	policies, err := s.repos.Policy.GetByStatus(models.PolicyStatusPending)
	if err != nil {
		return nil, apperrors.NewStorage("list pending policies", err)
	}
	return policies, nil
}

// ApprovePolicy moves a policy from PENDING to ACTIVE.
func (s *Service) ApprovePolicy(ctx context.Context, id uint, approverAddress string) (*models.Policy, error) {
	_ = ctx
	policy, err := s.getPolicy(id)
	if err != nil {
		return nil, err
	}

	next, err := NextPolicyStatus(policy.Status, ActionApprove)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	policy.Status = next
	policy.ApprovedAt = &now
	if err := s.repos.Policy.Update(policy); err != nil {
		return nil, apperrors.NewStorage("approve policy", err)
	}

	log.Infof("[Approval] Policy #%d approved and activated by %s", policy.ID, approverAddress)
	return policy, nil
}

// RejectPolicy moves a policy from PENDING to REJECTED. The refund
// transaction hash, if any, was executed by the caller beforehand and
// is recorded verbatim.
func (s *Service) RejectPolicy(ctx context.Context, id uint, reason, approverAddress, refundTxHash string) (*models.Policy, error) {
	_ = ctx
	policy, err := s.getPolicy(id)
	if err != nil {
		return nil, err
	}

	next, err := NextPolicyStatus(policy.Status, ActionReject)
	if err != nil {
		return nil, err
	}

	policy.Status = next
	policy.RejectionReason = reason
	policy.RefundTxHash = refundTxHash
	if err := s.repos.Policy.Update(policy); err != nil {
		return nil, apperrors.NewStorage("reject policy", err)
	}

	log.Infof("[Approval] Policy #%d rejected by %s: %s", policy.ID, approverAddress, reason)
	return policy, nil
}

func (s *Service) getProvider(id uint) (*models.Provider, error) {
	provider, err := s.repos.Provider.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("provider", id)
		}
		return nil, apperrors.NewStorage("get provider", err)
	}
	return provider, nil
}

func (s *Service) getPolicy(id uint) (*models.Policy, error) {
	policy, err := s.repos.Policy.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("policy", id)
		}
		return nil, apperrors.NewStorage("get policy", err)
	}
	return policy, nil
}
