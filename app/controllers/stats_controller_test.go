package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coverchain/coverchain/app/models"
)

func TestStatsCountsEntities(t *testing.T) {
	app, db := setupTestApp(t)
	provider := seedApprovedProvider(t, db)

	policy := &models.Policy{
		ProviderID:         provider.ID,
		BeneficiaryAddress: "0xbeneficiary",
		CoverageAmount:     decimal.NewFromInt(1000),
		StartEpoch:         100,
		EndEpoch:           200,
		Status:             models.PolicyStatusActive,
	}
	require.NoError(t, db.Create(policy).Error)

	req := httptest.NewRequest(fiber.MethodGet, "/stats?refresh=1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	totals, ok := body["totals"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), totals["providers"])
	assert.Equal(t, float64(1), totals["policies"])
	assert.Equal(t, float64(0), totals["claims"])
}

func TestDebugQueueHiddenOutsideDev(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/debug/queue", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
