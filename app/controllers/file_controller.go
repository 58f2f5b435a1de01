package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/coverchain/coverchain/internal/pkg/objectstore"
	"github.com/coverchain/coverchain/internal/pkg/upload"
)

// HandleFileUpload pins an arbitrary document and returns its content
// id without creating any database record.
func HandleFileUpload(c *fiber.Ctx) error {
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
		fiberlog.Errorf("file upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file", "message": err.Error()})
	}

	fiberlog.Infof("File %s pinned as %s", fh.Filename, result.Cid)
	return c.JSON(fiber.Map{
		"success":     true,
		"file_cid":    result.Cid,
		"gateway_url": result.GatewayURL,
		"filename":    fh.Filename,
	})
}
