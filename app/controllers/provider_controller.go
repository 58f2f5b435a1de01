package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/app/repository"
	"github.com/coverchain/coverchain/internal/pkg/identity"
	"github.com/coverchain/coverchain/internal/pkg/objectstore"
	"github.com/coverchain/coverchain/internal/pkg/upload"
)

// HandleProviderOnboard creates a PENDING provider from a multipart
// onboarding request and pins the license document.
// Request: multipart form with "file" plus name / provider_address /
// optional provider_did fields.
func HandleProviderOnboard(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	providerAddress := strings.TrimSpace(c.FormValue("provider_address"))
	providerDid := strings.TrimSpace(c.FormValue("provider_did"))

	if name == "" || providerAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and provider_address required"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}

	data, err := readFormFile(fh)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to read uploaded file"})
	}
	if _, err := upload.ValidateDocumentBySniff(fh.Filename, head(data)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := objectstore.GetGateway().Pin(c.Context(), data, fh.Filename)
	if err != nil {
		fiberlog.Errorf("license upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file", "message": err.Error()})
	}

	// Create a DID for the provider when none was supplied. The agent
	// may be unavailable; the deterministic did:ethr form keeps
	// onboarding usable without it.
	agent := identity.GetAgent()
	if providerDid == "" {
		if ident, err := agent.CreateDID(c.Context(), name); err == nil {
			providerDid = ident.Did
		} else {
			fiberlog.Warnf("did agent unavailable, using address-derived did: %v", err)
			providerDid = identity.AddressDid(providerAddress)
		}
	}

	provider := &models.Provider{
		ProviderDid:     providerDid,
		ProviderAddress: providerAddress,
		Name:            name,
		IssuerDid:       agent.IssuerDid(),
		LicenseCid:      result.Cid,
		Status:          models.ProviderStatusPending,
	}
	if err := provider.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetProviderRepository()
	if err := repo.Create(provider); err != nil {
		fiberlog.Errorf("provider onboard failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	fiberlog.Infof("Provider %s onboarded, license %s", provider.ProviderDid, provider.LicenseCid)
	return c.JSON(fiber.Map{"success": true, "provider": provider})
}

// HandleListProviders returns all providers, newest first.
func HandleListProviders(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetProviderRepository()
	providers, err := repo.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "providers": providers})
}

// HandleListPendingProviders returns PENDING providers awaiting review.
func HandleListPendingProviders(c *fiber.Ctx) error {
	providers, err := getApprovalService().ListPendingProviders(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "providers": providers})
}

// HandleApproveProvider approves a pending provider and schedules the
// on-chain mirror.
func HandleApproveProvider(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req struct {
		InsurerAddress string `json:"insurer_address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.InsurerAddress) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "insurer_address required"})
	}

	provider, err := getApprovalService().ApproveProvider(c.Context(), id, req.InsurerAddress)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "provider": provider})
}

// HandleRejectProvider rejects a pending provider with a reason.
func HandleRejectProvider(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req struct {
		Reason         string `json:"reason"`
		InsurerAddress string `json:"insurer_address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Reason) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reason required"})
	}

	provider, err := getApprovalService().RejectProvider(c.Context(), id, req.Reason, req.InsurerAddress)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "provider": provider})
}

// head returns the sniffing window of an uploaded file.
func head(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}
