package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

// StepDefinitionInput describes one step of a new workflow template.
type StepDefinitionInput struct {
	Label             string
	Description       string
	RequiredRole      domain.UserRole
	SLAHours          int
	RequiresSignature bool
	SignatureMeaning  string
}

// CreateWorkflowInput is the DTO for registering a new workflow template.
type CreateWorkflowInput struct {
	Name           string
	Description    string
	Steps          []StepDefinitionInput
	ComplianceRefs []string
	IsDefault      bool
	CreatedBy      uuid.UUID
}

// UpdateWorkflowInput carries mutable template fields. Steps are immutable
// after creation and deliberately absent here.
type UpdateWorkflowInput struct {
	TemplateID     uuid.UUID
	ActorID        uuid.UUID
	Name           *string
	Description    *string
	ComplianceRefs []string
	IsDefault      *bool
}

// WorkflowService manages workflow templates.
type WorkflowService interface {
	Create(ctx context.Context, input *CreateWorkflowInput) (*domain.WorkflowTemplate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowTemplate, error)
	List(ctx context.Context, offset, limit int) ([]domain.WorkflowTemplate, int, error)
	Update(ctx context.Context, input *UpdateWorkflowInput) error
}

type workflowService struct {
	wfRepo    port.WorkflowRepository
	auditRepo port.AuditRepository
	tx        port.Transactor
}

// NewWorkflowService creates a new WorkflowService implementation.
func NewWorkflowService(wfRepo port.WorkflowRepository, auditRepo port.AuditRepository, tx port.Transactor) WorkflowService {
	return &workflowService{wfRepo: wfRepo, auditRepo: auditRepo, tx: tx}
}

func (s *workflowService) Create(ctx context.Context, input *CreateWorkflowInput) (*domain.WorkflowTemplate, error) {
	if len(input.Steps) == 0 {
		return nil, domain.ErrValidationFailed
	}
	for _, step := range input.Steps {
		if step.Label == "" || !domain.ValidRoles[step.RequiredRole] {
			return nil, domain.ErrValidationFailed
		}
	}

	now := time.Now().UTC()
	steps := make(domain.StepDefinitions, len(input.Steps))
	for i, in := range input.Steps {
		meaning := in.SignatureMeaning
		if meaning == "" {
			meaning = fmt.Sprintf("%s electronically approved", in.Label)
		}
		steps[i] = domain.WorkflowStepDefinition{
			ID:                uuid.New(),
			Label:             in.Label,
			Description:       in.Description,
			RequiredRole:      in.RequiredRole,
			SLAHours:          in.SLAHours,
			RequiresSignature: in.RequiresSignature,
			SignatureMeaning:  meaning,
		}
	}

	tpl := &domain.WorkflowTemplate{
		ID:             uuid.New(),
		Name:           input.Name,
		Description:    input.Description,
		Steps:          steps,
		ComplianceRefs: append(domain.StringList(nil), input.ComplianceRefs...),
		IsDefault:      input.IsDefault,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if tpl.IsDefault {
			if err := s.wfRepo.ClearDefault(ctx); err != nil {
				return err
			}
		}
		if err := s.wfRepo.Create(ctx, tpl); err != nil {
			return fmt.Errorf("creating workflow template: %w", err)
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"name":       tpl.Name,
			"step_count": len(tpl.Steps),
			"is_default": tpl.IsDefault,
		})
		return s.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:             uuid.New(),
			ActorID:        input.CreatedBy,
			Action:         domain.AuditWorkflowCreated,
			EntityType:     domain.EntityWorkflow,
			EntityID:       tpl.ID,
			Summary:        fmt.Sprintf("workflow template %q created", tpl.Name),
			Metadata:       metadata,
			ComplianceRefs: tpl.ComplianceRefs,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *workflowService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowTemplate, error) {
	return s.wfRepo.GetByID(ctx, id)
}

func (s *workflowService) List(ctx context.Context, offset, limit int) ([]domain.WorkflowTemplate, int, error) {
	return s.wfRepo.List(ctx, offset, limit)
}

func (s *workflowService) Update(ctx context.Context, input *UpdateWorkflowInput) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		tpl, err := s.wfRepo.GetByID(ctx, input.TemplateID)
		if err != nil {
			return err
		}

		changed := map[string]interface{}{}
		if input.Name != nil {
			tpl.Name = *input.Name
			changed["name"] = *input.Name
		}
		if input.Description != nil {
			tpl.Description = *input.Description
			changed["description"] = *input.Description
		}
		if input.ComplianceRefs != nil {
			tpl.ComplianceRefs = append(domain.StringList(nil), input.ComplianceRefs...)
			changed["compliance_refs"] = input.ComplianceRefs
		}
		if input.IsDefault != nil {
			if *input.IsDefault && !tpl.IsDefault {
				if err := s.wfRepo.ClearDefault(ctx); err != nil {
					return err
				}
			}
			tpl.IsDefault = *input.IsDefault
			changed["is_default"] = *input.IsDefault
		}

		if err := s.wfRepo.Update(ctx, tpl); err != nil {
			return err
		}

		now := time.Now().UTC()
		metadata, _ := json.Marshal(changed)
		return s.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    input.ActorID,
			Action:     domain.AuditWorkflowUpdated,
			EntityType: domain.EntityWorkflow,
			EntityID:   tpl.ID,
			Summary:    fmt.Sprintf("workflow template %q updated", tpl.Name),
			Metadata:   metadata,
			CreatedAt:  now,
		})
	})
}
