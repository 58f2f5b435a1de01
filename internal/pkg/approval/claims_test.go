package approval

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/internal/pkg/apperrors"
)

func createClaim(t *testing.T, db *gorm.DB, status string) *models.Claim {
	t.Helper()
	provider := createProvider(t, db, models.ProviderStatusApproved)
	policy := &models.Policy{
		ProviderID:         provider.ID,
		BeneficiaryAddress: "0xbeneficiary",
		CoverageAmount:     decimal.NewFromInt(5000),
		StartEpoch:         100,
		EndEpoch:           200,
		Status:             models.PolicyStatusActive,
	}
	require.NoError(t, db.Create(policy).Error)

	claim := &models.Claim{
		PolicyID:    policy.ID,
		ClaimType:   "treatment",
		EvidenceCid: "QmEvidence",
		Status:      status,
	}
	require.NoError(t, db.Create(claim).Error)
	return claim
}

func TestClaimFullLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)
	claim := createClaim(t, db, models.ClaimStatusPending)
	ctx := context.Background()

	got, err := svc.SetClaimUnderReview(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusUnderReview, got.Status)
	assert.NotNil(t, got.ReviewedAt)

	payout := decimal.RequireFromString("500")
	got, err = svc.ApproveClaim(ctx, claim.ID, payout)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusApproved, got.Status)
	assert.True(t, payout.Equal(got.PayoutAmount))

	got, err = svc.MarkClaimPaid(ctx, claim.ID, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusPaid, got.Status)
	assert.Equal(t, "0xabc", got.PayoutTxHash)
	assert.NotNil(t, got.PaidAt)

	var stored models.Claim
	require.NoError(t, db.First(&stored, claim.ID).Error)
	assert.Equal(t, models.ClaimStatusPaid, stored.Status)
}

func TestMarkClaimPaidFromPendingFails(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)
	claim := createClaim(t, db, models.ClaimStatusPending)

	_, err := svc.MarkClaimPaid(context.Background(), claim.ID, "0xabc")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))

	var stored models.Claim
	require.NoError(t, db.First(&stored, claim.ID).Error)
	assert.Equal(t, models.ClaimStatusPending, stored.Status)
	assert.Empty(t, stored.PayoutTxHash)
	assert.Nil(t, stored.PaidAt)
}

func TestRejectClaimFromUnderReview(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)
	claim := createClaim(t, db, models.ClaimStatusUnderReview)

	got, err := svc.RejectClaim(context.Background(), claim.ID, "evidence insufficient")
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusRejected, got.Status)
	assert.Equal(t, "evidence insufficient", got.RejectionReason)

	// terminal state, nothing moves it
	_, err = svc.SetClaimUnderReview(context.Background(), claim.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestClaimUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	_, err := svc.SetClaimUnderReview(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListPendingClaimsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	older := createClaim(t, db, models.ClaimStatusPending)
	require.NoError(t, db.Model(older).Update("created_at", base).Error)
	newer := createClaim(t, db, models.ClaimStatusPending)
	require.NoError(t, db.Model(newer).Update("created_at", base.Add(time.Hour)).Error)

	pending, err := svc.ListPendingClaims(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, newer.ID, pending[0].ID)
	assert.Equal(t, older.ID, pending[1].ID)
}

func TestListUnderReviewClaimsByReviewTime(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	earlier := createClaim(t, db, models.ClaimStatusUnderReview)
	require.NoError(t, db.Model(earlier).Update("reviewed_at", base).Error)
	latest := createClaim(t, db, models.ClaimStatusUnderReview)
	require.NoError(t, db.Model(latest).Update("reviewed_at", base.Add(time.Hour)).Error)

	reviewed, err := svc.ListUnderReviewClaims(context.Background())
	require.NoError(t, err)
	require.Len(t, reviewed, 2)
	assert.Equal(t, latest.ID, reviewed[0].ID)
	assert.Equal(t, earlier.ID, reviewed[1].ID)
}

func TestListClaimsByStage(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	pending := createClaim(t, db, models.ClaimStatusPending)
	reviewed := createClaim(t, db, models.ClaimStatusPending)
	_, err := svc.SetClaimUnderReview(ctx, reviewed.ID)
	require.NoError(t, err)

	pendingList, err := svc.ListPendingClaims(ctx)
	require.NoError(t, err)
	require.Len(t, pendingList, 1)
	assert.Equal(t, pending.ID, pendingList[0].ID)

	reviewList, err := svc.ListUnderReviewClaims(ctx)
	require.NoError(t, err)
	require.Len(t, reviewList, 1)
	assert.Equal(t, reviewed.ID, reviewList[0].ID)
}
