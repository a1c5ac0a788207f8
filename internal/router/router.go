package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"veridoc/internal/config"
	"veridoc/internal/domain"
	"veridoc/internal/handler"
	"veridoc/internal/middleware"
	"veridoc/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	documentH *handler.DocumentHandler,
	workflowH *handler.WorkflowHandler,
	typeH *handler.DocumentTypeHandler,
	auditH *handler.AuditHandler,
	reportH *handler.ReportHandler,
	userH *handler.UserHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(cfg.Log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.GET("/auth/me", authH.Me)

	// Document registry and workflow transitions
	docs := protected.Group("/documents")
	docs.POST("", middleware.RequireRole(domain.RoleAuthor, domain.RoleQA, domain.RoleAdmin), documentH.Create)
	docs.GET("", documentH.List)
	docs.GET("/:id", documentH.GetByID)
	docs.PATCH("/:id", documentH.Update)
	docs.POST("/:id/versions", documentH.AddVersion)
	docs.POST("/:id/advance", documentH.Advance)
	docs.POST("/:id/reject", documentH.Reject)
	docs.POST("/:id/effective", middleware.RequireRole(domain.RoleQA, domain.RoleApprover, domain.RoleAdmin), documentH.MarkEffective)
	docs.POST("/:id/archive", middleware.RequireRole(domain.RoleQA, domain.RoleApprover, domain.RoleAdmin), documentH.Archive)
	docs.POST("/:id/attachments", documentH.UploadAttachment)
	docs.GET("/:id/attachments/:attachmentID", documentH.DownloadAttachment)
	docs.GET("/:id/audit", auditH.ListByDocument)
	docs.GET("/:id/signatures", auditH.ListSignatures)

	// Workflow templates
	workflows := protected.Group("/workflows")
	workflows.POST("", middleware.RequireRole(domain.RoleQA, domain.RoleAdmin), workflowH.Create)
	workflows.GET("", workflowH.List)
	workflows.GET("/:id", workflowH.GetByID)
	workflows.PATCH("/:id", middleware.RequireRole(domain.RoleQA, domain.RoleAdmin), workflowH.Update)

	// Document types
	types := protected.Group("/document-types")
	types.POST("", middleware.RequireRole(domain.RoleQA, domain.RoleAdmin), typeH.Create)
	types.GET("", typeH.List)
	types.GET("/:id", typeH.GetByID)
	types.PATCH("/:id", middleware.RequireRole(domain.RoleQA, domain.RoleAdmin), typeH.Update)

	// Audit ledger and signatures
	protected.GET("/audit", auditH.List)
	protected.GET("/signatures/:id", auditH.GetSignature)

	// Reports and exports
	reports := protected.Group("/reports")
	reports.GET("/status-counts", reportH.StatusCounts)
	reports.GET("/register.csv", reportH.ExportRegister)
	reports.GET("/audit.xlsx", reportH.ExportAuditXLSX)

	// User management
	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), userH.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin), userH.List)
	users.GET("/:id", userH.GetByID)
	users.PATCH("/:id", middleware.RequireRole(domain.RoleAdmin), userH.Update)
	users.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), userH.Delete)

	return r
}
