package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainMirrorPayloadRoundTrip(t *testing.T) {
	payload := ChainMirrorJobPayload{
		ProviderID:      42,
		ProviderAddress: "0xprovider",
		ApprovedBy:      "0xinsurer",
	}

	got, err := ChainMirrorJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *got)
}

func TestChainMirrorPayloadFromRedisMap(t *testing.T) {
	// numbers come back as float64 after a JSON round trip through Redis
	data := map[string]interface{}{
		"provider_id":      float64(7),
		"provider_address": "0xprovider",
		"approved_by":      "0xinsurer",
	}

	got, err := ChainMirrorJobPayloadFromMap(data)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ProviderID)
	assert.Equal(t, "0xprovider", got.ProviderAddress)
}

func TestJobRetryAccounting(t *testing.T) {
	job := &Job{
		Status:     JobStatusProcessing,
		MaxRetries: 2,
	}

	job.MarkAsFailed("rpc unreachable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)

	job.MarkAsFailed("rpc unreachable")
	assert.False(t, job.IsRetryable(), "retries exhausted at MaxRetries")

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	assert.NotNil(t, job.CompletedAt)
}

func TestProcessingStartedAtFallbacks(t *testing.T) {
	created := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	updated := created.Add(5 * time.Minute)
	processed := created.Add(10 * time.Minute)

	job := &Job{CreatedAt: created}
	assert.Equal(t, created, processingStartedAt(job))

	job.UpdatedAt = updated
	assert.Equal(t, updated, processingStartedAt(job))

	job.ProcessedAt = &processed
	assert.Equal(t, processed, processingStartedAt(job))
}
