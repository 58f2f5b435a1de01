package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/app/repository"
	"github.com/coverchain/coverchain/internal/pkg/apperrors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Provider{}, &models.Policy{}, &models.Claim{}, &models.KycDocument{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, mirror MirrorFunc) *Service {
	t.Helper()
	if mirror == nil {
		mirror = func(*models.Provider, string) error { return nil }
	}
	return NewService(repository.NewRepositories(db), mirror)
}

func createProvider(t *testing.T, db *gorm.DB, status string) *models.Provider {
	t.Helper()
	provider := &models.Provider{
		ProviderDid:     "did:ethr:localhost:0xabc",
		ProviderAddress: "0xabc",
		Name:            "Acme Insurance",
		Status:          status,
	}
	require.NoError(t, db.Create(provider).Error)
	return provider
}

func TestApproveProviderSetsApprovalFields(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)
	provider := createProvider(t, db, models.ProviderStatusPending)

	got, err := svc.ApproveProvider(context.Background(), provider.ID, "0xinsurer")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusApproved, got.Status)
	assert.NotNil(t, got.ApprovedAt)
	assert.Equal(t, "0xinsurer", got.ApprovedBy)

	var stored models.Provider
	require.NoError(t, db.First(&stored, provider.ID).Error)
	assert.Equal(t, models.ProviderStatusApproved, stored.Status)
	assert.NotNil(t, stored.ApprovedAt)
}

func TestApproveProviderMirrorFailureDoesNotFailApproval(t *testing.T) {
	db := newTestDB(t)
	mirrorCalls := 0
	svc := newTestService(t, db, func(*models.Provider, string) error {
		mirrorCalls++
		return errors.New("rpc unreachable")
	})
	provider := createProvider(t, db, models.ProviderStatusPending)

	got, err := svc.ApproveProvider(context.Background(), provider.ID, "0xinsurer")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusApproved, got.Status)
	assert.Equal(t, 1, mirrorCalls)
}

func TestApproveProviderUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	_, err := svc.ApproveProvider(context.Background(), 7, "0xinsurer")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	var count int64
	require.NoError(t, db.Model(&models.Provider{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApproveProviderTwiceFails(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)
	provider := createProvider(t, db, models.ProviderStatusPending)

	_, err := svc.ApproveProvider(context.Background(), provider.ID, "0xinsurer")
	require.NoError(t, err)

	_, err = svc.ApproveProvider(context.Background(), provider.ID, "0xinsurer")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestRejectProviderStoresReasonVerbatim(t *testing.T) {
	db := newTestDB(t)
	mirrorCalls := 0
	svc := newTestService(t, db, func(*models.Provider, string) error {
		mirrorCalls++
		return nil
	})
	provider := createProvider(t, db, models.ProviderStatusPending)

	const reason = "license expired; see audit #42"
	got, err := svc.RejectProvider(context.Background(), provider.ID, reason, "0xinsurer")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusRejected, got.Status)
	assert.Equal(t, reason, got.RejectionReason)
	assert.Equal(t, 0, mirrorCalls, "rejection must not touch the chain")
}

func TestListPendingProvidersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	older := &models.Provider{
		ProviderDid:     "did:ethr:localhost:0xabc",
		ProviderAddress: "0xabc",
		Name:            "Acme Insurance",
		Status:          models.ProviderStatusPending,
		CreatedAt:       base,
	}
	require.NoError(t, db.Create(older).Error)
	createProvider(t, db, models.ProviderStatusApproved)
	newer := &models.Provider{
		ProviderDid:     "did:ethr:localhost:0xdef",
		ProviderAddress: "0xdef",
		Name:            "Beta Mutual",
		Status:          models.ProviderStatusPending,
		CreatedAt:       base.Add(time.Hour),
	}
	require.NoError(t, db.Create(newer).Error)

	pending, err := svc.ListPendingProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, p := range pending {
		assert.Equal(t, models.ProviderStatusPending, p.Status)
	}
	assert.Equal(t, newer.ID, pending[0].ID)
	assert.Equal(t, older.ID, pending[1].ID)
}

func TestListPendingPoliciesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)
	provider := createProvider(t, db, models.ProviderStatusApproved)

	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	older := &models.Policy{
		ProviderID:         provider.ID,
		BeneficiaryAddress: "0xbeneficiary",
		CoverageAmount:     decimal.NewFromInt(1000),
		StartEpoch:         100,
		EndEpoch:           200,
		Status:             models.PolicyStatusPending,
		CreatedAt:          base,
	}
	require.NoError(t, db.Create(older).Error)
	newer := &models.Policy{
		ProviderID:         provider.ID,
		BeneficiaryAddress: "0xother",
		CoverageAmount:     decimal.NewFromInt(2000),
		StartEpoch:         150,
		EndEpoch:           250,
		Status:             models.PolicyStatusPending,
		CreatedAt:          base.Add(time.Hour),
	}
	require.NoError(t, db.Create(newer).Error)

	pending, err := svc.ListPendingPolicies(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, newer.ID, pending[0].ID)
	assert.Equal(t, older.ID, pending[1].ID)
}

func TestApprovePolicyActivates(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)
	provider := createProvider(t, db, models.ProviderStatusApproved)

	policy := &models.Policy{
		ProviderID:         provider.ID,
		BeneficiaryAddress: "0xbeneficiary",
		CoverageAmount:     decimal.NewFromInt(1000),
		StartEpoch:         100,
		EndEpoch:           200,
		Status:             models.PolicyStatusPending,
	}
	require.NoError(t, db.Create(policy).Error)

	got, err := svc.ApprovePolicy(context.Background(), policy.ID, "0xinsurer")
	require.NoError(t, err)
	assert.Equal(t, models.PolicyStatusActive, got.Status)
	assert.NotNil(t, got.ApprovedAt)
}

func TestRejectPolicyStoresRefundTxHash(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)
	provider := createProvider(t, db, models.ProviderStatusApproved)

	policy := &models.Policy{
		ProviderID:         provider.ID,
		BeneficiaryAddress: "0xbeneficiary",
		CoverageAmount:     decimal.NewFromInt(1000),
		StartEpoch:         100,
		EndEpoch:           200,
		Status:             models.PolicyStatusPending,
	}
	require.NoError(t, db.Create(policy).Error)

	got, err := svc.RejectPolicy(context.Background(), policy.ID, "kyc missing", "0xinsurer", "0xrefund")
	require.NoError(t, err)
	assert.Equal(t, models.PolicyStatusRejected, got.Status)
	assert.Equal(t, "kyc missing", got.RejectionReason)
	assert.Equal(t, "0xrefund", got.RefundTxHash)
}

func TestVerifyKycDocument(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	doc := &models.KycDocument{
		UserAddress:  "0xuser",
		DocumentType: "passport",
		DocumentCid:  "QmDoc",
		Status:       models.KycStatusPending,
	}
	require.NoError(t, db.Create(doc).Error)

	got, err := svc.VerifyKycDocument(context.Background(), doc.ID, "0xverifier")
	require.NoError(t, err)
	assert.Equal(t, models.KycStatusVerified, got.Status)
	assert.Equal(t, "0xverifier", got.VerifiedBy)
	assert.NotNil(t, got.VerifiedAt)

	_, err = svc.VerifyKycDocument(context.Background(), doc.ID, "0xverifier")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}
