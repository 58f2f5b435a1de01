package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/app/repository"
	"github.com/coverchain/coverchain/internal/pkg/approval"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Provider{}, &models.Policy{}, &models.Claim{}, &models.KycDocument{}))

	repository.InitializeFactory(db)
	SetApprovalService(approval.NewService(repository.NewRepositories(db), func(*models.Provider, string) error {
		return nil
	}))

	app := fiber.New()
	app.Post("/policy/issue", HandleIssuePolicy)
	app.Post("/policy/record", HandleRecordPolicy)
	app.Get("/policy/list", HandleListPolicies)
	app.Get("/policy/pending", HandleListPendingPolicies)
	app.Post("/policy/approve/:id", HandleApprovePolicy)
	app.Post("/policy/reject/:id", HandleRejectPolicy)
	app.Get("/policy/:id", HandleGetPolicy)
	app.Post("/provider/approve/:id", HandleApproveProvider)
	app.Post("/claim/submit", HandleSubmitClaim)
	app.Post("/claim/update-status", HandleUpdateClaimStatus)
	app.Post("/claim/mark-paid/:id", HandleMarkClaimPaid)
	app.Get("/stats", HandleStats)
	app.Get("/debug/queue", HandleDebugQueue)
	return app, db
}

func seedApprovedProvider(t *testing.T, db *gorm.DB) *models.Provider {
	t.Helper()
	now := nowFunc()
	provider := &models.Provider{
		ProviderDid:     "did:ethr:localhost:0xprov",
		ProviderAddress: "0xprov",
		Name:            "Acme Insurance",
		Status:          models.ProviderStatusApproved,
		ApprovedAt:      &now,
	}
	require.NoError(t, db.Create(provider).Error)
	return provider
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRecordPolicyCreatesActive(t *testing.T) {
	app, db := setupTestApp(t)
	seedApprovedProvider(t, db)

	resp := postJSON(t, app, "/policy/record", fiber.Map{
		"beneficiary_address": "0xbeneficiary",
		"coverage_amount":     "1000.5",
		"premium_paid":        "10",
		"start_epoch":         100,
		"end_epoch":           200,
		"onchain_policy_id":   42,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	var stored models.Policy
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, models.PolicyStatusActive, stored.Status)
	assert.NotNil(t, stored.ApprovedAt, "a premium-triggered policy is never pending")
	assert.True(t, decimal.RequireFromString("1000.5").Equal(stored.CoverageAmount))
}

func TestRecordPolicyWithoutProvider(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := postJSON(t, app, "/policy/record", fiber.Map{
		"beneficiary_address": "0xbeneficiary",
		"coverage_amount":     "1000",
		"start_epoch":         100,
		"end_epoch":           200,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "not_found", body["error"])
}

func TestIssuePolicyRequiresApprovedProvider(t *testing.T) {
	app, db := setupTestApp(t)
	provider := &models.Provider{
		ProviderDid:     "did:ethr:localhost:0xprov",
		ProviderAddress: "0xprov",
		Name:            "Acme Insurance",
		Status:          models.ProviderStatusPending,
	}
	require.NoError(t, db.Create(provider).Error)

	resp := postJSON(t, app, "/policy/issue", fiber.Map{
		"provider_id":         provider.ID,
		"beneficiary_address": "0xbeneficiary",
		"coverage_amount":     "1000",
		"start_epoch":         100,
		"end_epoch":           200,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIssueThenApprovePolicy(t *testing.T) {
	app, db := setupTestApp(t)
	provider := seedApprovedProvider(t, db)

	resp := postJSON(t, app, "/policy/issue", fiber.Map{
		"provider_id":         provider.ID,
		"beneficiary_address": "0xbeneficiary",
		"coverage_amount":     "2500",
		"start_epoch":         100,
		"end_epoch":           200,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var policy models.Policy
	require.NoError(t, db.First(&policy).Error)
	assert.Equal(t, models.PolicyStatusPending, policy.Status)

	resp = postJSON(t, app, "/policy/approve/1", fiber.Map{"insurer_address": "0xinsurer"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&policy).Error)
	assert.Equal(t, models.PolicyStatusActive, policy.Status)
	assert.NotNil(t, policy.ApprovedAt)
}

func TestApproveProviderUnknownIDReturns404(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := postJSON(t, app, "/provider/approve/7", fiber.Map{"insurer_address": "0xinsurer"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "not_found", body["error"])
}
