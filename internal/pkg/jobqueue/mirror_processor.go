package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/coverchain/coverchain/internal/pkg/chain"
)

// processChainMirrorJob replays a local provider approval onto the
// registry contract. Every attempt is logged so the mirror lag between
// database and chain stays observable; the database is never touched.
func (q *Queue) processChainMirrorJob(ctx context.Context, job *Job) error {
	payload, err := ChainMirrorJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid chain mirror payload: %w", err)
	}
	if payload.ProviderAddress == "" {
		return fmt.Errorf("chain mirror payload missing provider address")
	}

	gateway := chain.GetGateway()
	if !gateway.Enabled() {
		log.Infof("[JobQueue] Chain gateway disabled, mirror for provider %d skipped", payload.ProviderID)
		return nil
	}

	txHash, err := gateway.ApproveProvider(ctx, payload.ProviderAddress)
	if err != nil {
		log.Warnf("[JobQueue] Mirror attempt %d/%d for provider %d (%s) failed: %v",
			job.RetryCount+1, job.MaxRetries, payload.ProviderID, payload.ProviderAddress, err)
		return err
	}

	log.Infof("[JobQueue] Provider %d (%s) mirrored on-chain by %s: %s",
		payload.ProviderID, payload.ProviderAddress, payload.ApprovedBy, txHash)
	return nil
}
