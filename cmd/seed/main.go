// Command seed bootstraps a fresh database with an admin user, the built-in
// document types, and a default two-step approval workflow.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"veridoc/internal/config"
	"veridoc/internal/domain"
	"veridoc/internal/repository/postgres"
)

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

	ctx := context.Background()
	userRepo := postgres.NewUserRepo(db)
	typeRepo := postgres.NewDocumentTypeRepo(db)
	wfRepo := postgres.NewWorkflowRepo(db)

	adminEmail := os.Getenv("VERIDOC_SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@veridoc.local"
	}
	adminPassword := os.Getenv("VERIDOC_SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme-admin-1"
	}

	now := time.Now().UTC()

	admin, err := userRepo.GetByEmail(ctx, adminEmail)
	if errors.Is(err, domain.ErrNotFound) {
		hash, herr := bcrypt.GenerateFromPassword([]byte(adminPassword), 12)
		if herr != nil {
			return fmt.Errorf("hashing admin password: %w", herr)
		}
		admin = &domain.User{
			ID:           uuid.New(),
			Email:        adminEmail,
			PasswordHash: string(hash),
			FullName:     "System Administrator",
			Role:         domain.RoleAdmin,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if cerr := userRepo.Create(ctx, admin); cerr != nil {
			return fmt.Errorf("creating admin user: %w", cerr)
		}
		log.Printf("created admin user %s", adminEmail)
	} else if err != nil {
		return fmt.Errorf("looking up admin user: %w", err)
	} else {
		log.Printf("admin user %s already exists", adminEmail)
	}

	// Document types
	typeSeeds := []struct {
		label domain.DocumentTypeLabel
		desc  string
	}{
		{domain.TypeSOP, "Standard operating procedures"},
		{domain.TypePolicy, "Company policies"},
		{domain.TypeWorkInstruction, "Step-by-step work instructions"},
		{domain.TypeForm, "Controlled forms and templates"},
		{domain.TypeSpecification, "Product and material specifications"},
		{domain.TypeQualityManual, "Quality manual sections"},
		{domain.TypeProtocol, "Validation and test protocols"},
		{domain.TypeReport, "Validation and test reports"},
	}
	for _, seed := range typeSeeds {
		if _, gerr := typeRepo.GetByLabel(ctx, seed.label); gerr == nil {
			continue
		} else if !errors.Is(gerr, domain.ErrNotFound) && !errors.Is(gerr, domain.ErrDocumentTypeNotFound) {
			return fmt.Errorf("looking up document type %s: %w", seed.label, gerr)
		}
		dt := &domain.DocumentType{
			ID:          uuid.New(),
			Label:       seed.label,
			Description: seed.desc,
			CreatedBy:   admin.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if cerr := typeRepo.Create(ctx, dt); cerr != nil {
			return fmt.Errorf("creating document type %s: %w", seed.label, cerr)
		}
		log.Printf("created document type %s", seed.label)
	}

	// Default workflow: review then approval.
	if _, gerr := wfRepo.GetDefault(ctx); gerr == nil {
		log.Println("default workflow template already exists")
		return nil
	} else if !errors.Is(gerr, domain.ErrWorkflowNotFound) {
		return fmt.Errorf("looking up default workflow: %w", gerr)
	}

	tpl := &domain.WorkflowTemplate{
		ID:          uuid.New(),
		Name:        "Standard Review and Approval",
		Description: "Two-step pipeline: technical review followed by final approval",
		Steps: domain.StepDefinitions{
			{
				ID:                uuid.New(),
				Label:             "Technical Review",
				Description:       "Peer review by a subject matter expert",
				RequiredRole:      domain.RoleReviewer,
				SLAHours:          48,
				RequiresSignature: true,
				SignatureMeaning:  "Technical Review electronically approved",
			},
			{
				ID:                uuid.New(),
				Label:             "Final Approval",
				Description:       "Release approval by the document owner's approver",
				RequiredRole:      domain.RoleApprover,
				SLAHours:          72,
				RequiresSignature: true,
				SignatureMeaning:  "Final Approval electronically approved",
			},
		},
		ComplianceRefs: domain.StringList{"21 CFR Part 11"},
		IsDefault:      true,
		CreatedBy:      admin.ID,
		CreatedAt:      now,
	}
	if cerr := wfRepo.Create(ctx, tpl); cerr != nil {
		return fmt.Errorf("creating default workflow: %w", cerr)
	}
	log.Printf("created default workflow template %q", tpl.Name)

	return nil
}
