package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coverchain/coverchain/app/repository"
	"github.com/coverchain/coverchain/internal/pkg/env"
	"github.com/coverchain/coverchain/internal/pkg/jobqueue"
)

// Debug endpoints dump raw tables. Only wired in development mode.

func HandleDebugProviders(c *fiber.Ctx) error {
	if !env.IsDev() {
		return c.SendStatus(fiber.StatusNotFound)
	}
	providers, err := repository.GetGlobalRepositories().Provider.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"count": len(providers), "providers": providers})
}

func HandleDebugPolicies(c *fiber.Ctx) error {
	if !env.IsDev() {
		return c.SendStatus(fiber.StatusNotFound)
	}
	policies, err := repository.GetGlobalRepositories().Policy.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"count": len(policies), "policies": policies})
}

func HandleDebugClaims(c *fiber.Ctx) error {
	if !env.IsDev() {
		return c.SendStatus(fiber.StatusNotFound)
	}
	claims, err := repository.GetGlobalRepositories().Claim.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"count": len(claims), "claims": claims})
}

// HandleDebugQueue reports chain-mirror queue depth and per-status job
// counts. Pass ?job_id= to fetch a single job record.
func HandleDebugQueue(c *fiber.Ctx) error {
	if !env.IsDev() {
		return c.SendStatus(fiber.StatusNotFound)
	}

	queue := jobqueue.GetManager().GetQueue()
	ctx := c.Context()

	if jobID := c.Query("job_id"); jobID != "" {
		job, err := queue.GetJob(ctx, jobID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "job not found"})
		}
		return c.JSON(fiber.Map{"job": job})
	}

	size, err := queue.GetQueueSize(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	stats, err := queue.GetJobStats(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"queue_size": size, "job_stats": stats})
}
