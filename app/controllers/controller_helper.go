package controllers

import (
	"io"
	"mime/multipart"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coverchain/coverchain/internal/pkg/apperrors"
	"github.com/coverchain/coverchain/internal/pkg/approval"
	"github.com/coverchain/coverchain/internal/pkg/database"
)

var (
	approvalSvc *approval.Service
	svcMu       sync.Mutex

	// nowFunc is swapped out by clock-sensitive tests.
	nowFunc = time.Now
)

// InitializeControllers wires the controllers to the global database.
// Called once during router installation.
func InitializeControllers() {
	svcMu.Lock()
	defer svcMu.Unlock()
	approvalSvc = approval.NewServiceFromDB(database.GetDB())
}

// SetApprovalService overrides the approval service. Used by tests.
func SetApprovalService(s *approval.Service) {
	svcMu.Lock()
	defer svcMu.Unlock()
	approvalSvc = s
}

func getApprovalService() *approval.Service {
	svcMu.Lock()
	defer svcMu.Unlock()
	if approvalSvc == nil {
		approvalSvc = approval.NewServiceFromDB(database.GetDB())
	}
	return approvalSvc
}

// parseIDParam reads the :id route parameter.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, apperrors.NewValidation("id must be a positive integer")
	}
	return uint(id), nil
}

// serviceError maps domain errors onto HTTP responses:
// validation 400, unknown id 404, illegal workflow step 409,
// everything else 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case apperrors.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case apperrors.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": err.Error()})
	case apperrors.IsInvalidTransition(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "invalid_transition", "message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
}

// readFormFile loads an uploaded multipart file into memory.
func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
