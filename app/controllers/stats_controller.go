package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coverchain/coverchain/internal/pkg/statistics"
)

// HandleStats returns entity totals. Counts are cached, pass
// ?refresh=1 to force a recount.
func HandleStats(c *fiber.Ctx) error {
	if c.Query("refresh") == "1" {
		statistics.Invalidate()
	}

	totals, err := statistics.GetTotals()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "totals": totals})
}
