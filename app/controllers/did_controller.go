package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/coverchain/coverchain/internal/pkg/identity"
)

// HandleCreateDID asks the identity agent for a fresh identifier.
func HandleCreateDID(c *fiber.Ctx) error {
	var req struct {
		Alias string `json:"alias"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ident, err := identity.GetAgent().CreateDID(c.Context(), req.Alias)
	if err != nil {
		fiberlog.Errorf("did creation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create DID", "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "did": ident.Did, "alias": ident.Alias})
}
