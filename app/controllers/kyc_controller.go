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

// HandleKycUpload pins an identity document and records it as a
// PENDING verification request for the given wallet.
// Request: multipart form with "file" plus user_address / document_type
// fields and an optional user_did.
func HandleKycUpload(c *fiber.Ctx) error {
	userAddress := strings.TrimSpace(c.FormValue("user_address"))
	documentType := strings.TrimSpace(c.FormValue("document_type"))
	userDid := strings.TrimSpace(c.FormValue("user_did"))

	if userAddress == "" || documentType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_address and document_type required"})
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
		fiberlog.Errorf("kyc document upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file", "message": err.Error()})
	}

	if userDid == "" {
		userDid = identity.AddressDid(userAddress)
	}

	doc := &models.KycDocument{
		UserAddress:  userAddress,
		UserDid:      userDid,
		DocumentType: documentType,
		DocumentCid:  result.Cid,
		Status:       models.KycStatusPending,
	}
	if err := doc.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := repository.GetGlobalRepositories().Kyc.Create(doc); err != nil {
		fiberlog.Errorf("kyc document create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	fiberlog.Infof("KYC document %s stored for %s", doc.DocumentCid, doc.UserAddress)
	return c.JSON(fiber.Map{
		"success":      true,
		"document_cid": result.Cid,
		"gateway_url":  result.GatewayURL,
		"kyc_document": doc,
	})
}

// HandleGetKycByUser returns all KYC documents of a wallet, newest
// first.
func HandleGetKycByUser(c *fiber.Ctx) error {
	userAddress := c.Params("userAddress")
	if userAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user address required"})
	}

	docs, err := repository.GetGlobalRepositories().Kyc.GetByUserAddress(userAddress)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "kyc_documents": docs})
}

// HandleListPendingKyc returns PENDING documents awaiting verification.
func HandleListPendingKyc(c *fiber.Ctx) error {
	docs, err := getApprovalService().ListPendingKycDocuments(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "kyc_documents": docs})
}

// HandleVerifyKyc marks a pending document as verified.
func HandleVerifyKyc(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req struct {
		VerifierAddress string `json:"verifier_address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	doc, err := getApprovalService().VerifyKycDocument(c.Context(), id, req.VerifierAddress)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "kyc_document": doc})
}

// HandleRejectKyc rejects a pending document with a reason.
func HandleRejectKyc(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req struct {
		Reason          string `json:"reason"`
		VerifierAddress string `json:"verifier_address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Reason) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reason required"})
	}

	doc, err := getApprovalService().RejectKycDocument(c.Context(), id, req.Reason, req.VerifierAddress)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "kyc_document": doc})
}
