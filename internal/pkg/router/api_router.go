package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/coverchain/coverchain/app/controllers"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	controllers.InitializeControllers()

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := app.Group("/", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
	}))

	provider := api.Group("/provider")
	provider.Post("/onboard", controllers.HandleProviderOnboard)
	provider.Get("/list", controllers.HandleListProviders)
	provider.Get("/pending", controllers.HandleListPendingProviders)
	provider.Post("/approve/:id", controllers.HandleApproveProvider)
	provider.Post("/reject/:id", controllers.HandleRejectProvider)

	policy := api.Group("/policy")
	policy.Post("/issue", controllers.HandleIssuePolicy)
	policy.Post("/record", controllers.HandleRecordPolicy)
	policy.Get("/list", controllers.HandleListPolicies)
	policy.Get("/pending", controllers.HandleListPendingPolicies)
	policy.Post("/approve/:id", controllers.HandleApprovePolicy)
	policy.Post("/reject/:id", controllers.HandleRejectPolicy)
	// after the static /policy routes so "list" never matches :id
	policy.Get("/:id", controllers.HandleGetPolicy)

	claim := api.Group("/claim")
	claim.Post("/submit", controllers.HandleSubmitClaim)
	claim.Post("/update-status", controllers.HandleUpdateClaimStatus)
	claim.Get("/list", controllers.HandleListClaims)
	claim.Get("/pending", controllers.HandleListPendingClaims)
	claim.Get("/under-review", controllers.HandleListUnderReviewClaims)
	claim.Post("/under-review/:id", controllers.HandleClaimUnderReview)
	claim.Post("/approve/:id", controllers.HandleApproveClaim)
	claim.Post("/reject/:id", controllers.HandleRejectClaim)
	claim.Post("/mark-paid/:id", controllers.HandleMarkClaimPaid)

	api.Post("/file/upload", controllers.HandleFileUpload)

	kyc := api.Group("/kyc")
	kyc.Post("/upload", controllers.HandleKycUpload)
	kyc.Get("/pending/list", controllers.HandleListPendingKyc)
	kyc.Post("/verify/:id", controllers.HandleVerifyKyc)
	kyc.Post("/reject/:id", controllers.HandleRejectKyc)
	kyc.Get("/:userAddress", controllers.HandleGetKycByUser)

	api.Post("/did/create", controllers.HandleCreateDID)

	api.Get("/stats", controllers.HandleStats)

	debug := api.Group("/debug")
	debug.Get("/providers", controllers.HandleDebugProviders)
	debug.Get("/policies", controllers.HandleDebugPolicies)
	debug.Get("/claims", controllers.HandleDebugClaims)
	debug.Get("/queue", controllers.HandleDebugQueue)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
