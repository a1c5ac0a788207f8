package main

import (
	"fmt"
	"log"

	_ "veridoc/docs"
	"veridoc/internal/config"
	"veridoc/internal/email/noop"
	"veridoc/internal/email/ses"
	"veridoc/internal/handler"
	"veridoc/internal/port"
	"veridoc/internal/repository/postgres"
	"veridoc/internal/router"
	"veridoc/internal/service"
	s3storage "veridoc/internal/storage/s3"
)

// @title VeriDoc API
// @version 1.0
// @description Controlled document management with role-gated approval workflows, electronic signatures, and an append-only audit ledger.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	wfRepo := postgres.NewWorkflowRepo(db)
	typeRepo := postgres.NewDocumentTypeRepo(db)
	sigRepo := postgres.NewSignatureRepo(db)
	auditRepo := postgres.NewAuditRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	tx := postgres.NewTransactor(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize notifier
	var notifier port.Notifier
	switch cfg.Email.Provider {
	case "ses":
		notifier, err = ses.NewSESNotifier(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
	default:
		notifier = noop.NewNoopNotifier()
	}

	// Initialize services
	locks := service.NewDocumentLocks()
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	docSvc := service.NewDocumentService(docRepo, typeRepo, wfRepo, auditRepo, s3Client, cfg.S3.Bucket, tx, locks)
	engine := service.NewWorkflowEngine(docRepo, wfRepo, sigRepo, auditRepo, userRepo, tx, locks, notifier)
	wfSvc := service.NewWorkflowService(wfRepo, auditRepo, tx)
	typeSvc := service.NewDocumentTypeService(typeRepo, auditRepo, tx)
	auditSvc := service.NewAuditService(auditRepo, sigRepo)
	reportSvc := service.NewReportService(reportRepo, auditRepo)
	userSvc := service.NewUserService(userRepo)

	// Initialize handlers
	maxUploadBytes := cfg.S3.MaxFileSizeMB * 1024 * 1024
	authH := handler.NewAuthHandler(authSvc, userSvc)
	docH := handler.NewDocumentHandler(docSvc, engine, authSvc, maxUploadBytes)
	wfH := handler.NewWorkflowHandler(wfSvc)
	typeH := handler.NewDocumentTypeHandler(typeSvc)
	auditH := handler.NewAuditHandler(auditSvc)
	reportH := handler.NewReportHandler(reportSvc, docSvc)
	userH := handler.NewUserHandler(userSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, docH, wfH, typeH, auditH, reportH, userH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
