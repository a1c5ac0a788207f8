package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

// AdvanceInput is the DTO for signing off the current workflow step.
// Reason and Evidence are recorded as supplied; non-empty enforcement is the
// boundary layer's responsibility.
type AdvanceInput struct {
	DocumentID        uuid.UUID
	ActorID           uuid.UUID
	ActorRole         domain.UserRole
	Reason            string
	SignatureMeaning  string
	SignatureEvidence string
	Notes             string
}

// RejectInput is the DTO for rejecting the current workflow step.
type RejectInput struct {
	DocumentID uuid.UUID
	ActorID    uuid.UUID
	ActorRole  domain.UserRole
	Reason     string
}

// WorkflowEngine drives documents through their approval pipelines. Each
// operation validates role and step preconditions, then applies every effect
// (step mutation, signature, audit entry) as one transaction.
type WorkflowEngine interface {
	Advance(ctx context.Context, input *AdvanceInput) (*domain.DocumentRecord, error)
	Reject(ctx context.Context, input *RejectInput) (*domain.DocumentRecord, error)
}

type workflowEngine struct {
	docRepo   port.DocumentRepository
	wfRepo    port.WorkflowRepository
	sigRepo   port.SignatureRepository
	auditRepo port.AuditRepository
	userRepo  port.UserRepository
	tx        port.Transactor
	locks     *DocumentLocks
	notifier  port.Notifier
}

// NewWorkflowEngine creates a new WorkflowEngine implementation.
// The notifier may be nil; step-ready notifications are then skipped.
func NewWorkflowEngine(
	docRepo port.DocumentRepository,
	wfRepo port.WorkflowRepository,
	sigRepo port.SignatureRepository,
	auditRepo port.AuditRepository,
	userRepo port.UserRepository,
	tx port.Transactor,
	locks *DocumentLocks,
	notifier port.Notifier,
) WorkflowEngine {
	return &workflowEngine{
		docRepo:   docRepo,
		wfRepo:    wfRepo,
		sigRepo:   sigRepo,
		auditRepo: auditRepo,
		userRepo:  userRepo,
		tx:        tx,
		locks:     locks,
		notifier:  notifier,
	}
}

// loadForTransition fetches the document and its template and validates the
// step preconditions shared by Advance and Reject. Precondition order:
// document exists, not archived, template exists, step index in range,
// role matches.
func (e *workflowEngine) loadForTransition(ctx context.Context, docID uuid.UUID, actorRole domain.UserRole) (*domain.DocumentRecord, *domain.WorkflowTemplate, error) {
	doc, err := e.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}

	// Archived is terminal: no workflow transition may leave it.
	if doc.Workflow.Status == domain.StatusArchived {
		return nil, nil, domain.ErrDocumentArchived
	}

	tpl, err := e.wfRepo.GetByID(ctx, doc.Workflow.TemplateID)
	if err != nil {
		// The document points at a template that no longer exists.
		return nil, nil, domain.ErrTemplateMissing
	}

	idx := doc.Workflow.CurrentStepIndex
	if idx >= len(doc.Workflow.Steps) || idx >= len(tpl.Steps) {
		return nil, nil, domain.ErrWorkflowComplete
	}

	if actorRole != tpl.Steps[idx].RequiredRole {
		return nil, nil, domain.ErrRoleMismatch
	}

	return doc, tpl, nil
}

func (e *workflowEngine) Advance(ctx context.Context, input *AdvanceInput) (*domain.DocumentRecord, error) {
	unlock := e.locks.Lock(input.DocumentID)
	defer unlock()

	var doc *domain.DocumentRecord
	var nextStep *domain.WorkflowStepDefinition

	err := e.tx.InTx(ctx, func(ctx context.Context) error {
		var tpl *domain.WorkflowTemplate
		var err error
		doc, tpl, err = e.loadForTransition(ctx, input.DocumentID, input.ActorRole)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		idx := doc.Workflow.CurrentStepIndex
		stepDef := tpl.Steps[idx]

		// Steps that do not require a signature complete without a
		// registry append and keep a nil SignatureID.
		var sig *domain.ElectronicSignature
		if stepDef.RequiresSignature {
			meaning := input.SignatureMeaning
			if meaning == "" {
				meaning = stepDef.SignatureMeaning
			}

			sig = &domain.ElectronicSignature{
				ID:         uuid.New(),
				UserID:     input.ActorID,
				DocumentID: doc.ID,
				StepID:     stepDef.ID,
				SignedAt:   now,
				Meaning:    meaning,
				Reason:     input.Reason,
				Evidence:   input.SignatureEvidence,
			}
			if err := e.sigRepo.Create(ctx, sig); err != nil {
				return fmt.Errorf("minting signature: %w", err)
			}
		}

		step := &doc.Workflow.Steps[idx]
		step.Status = domain.StepCompleted
		step.CompletedAt = &now
		step.ActorUserID = &input.ActorID
		if sig != nil {
			step.SignatureID = &sig.ID
		}
		if input.Notes != "" {
			step.Notes = input.Notes
		}

		var summary string
		lastStep := idx == len(doc.Workflow.Steps)-1
		if lastStep {
			// Index parks one past the end as the completion sentinel.
			doc.Workflow.CurrentStepIndex = len(doc.Workflow.Steps)
			doc.Workflow.Status = domain.StatusApproved
			summary = "workflow completed and document approved"
		} else {
			doc.Workflow.CurrentStepIndex = idx + 1
			next := &doc.Workflow.Steps[idx+1]
			next.Status = domain.StepInProgress
			next.StartedAt = &now
			doc.Workflow.Status = domain.StatusInReview
			summary = fmt.Sprintf("%s signed off", stepDef.Label)
			def := tpl.Steps[idx+1]
			nextStep = &def
		}
		doc.UpdatedAt = now

		if err := e.docRepo.Update(ctx, doc); err != nil {
			return fmt.Errorf("saving workflow state: %w", err)
		}

		fields := map[string]interface{}{
			"step_id":    stepDef.ID,
			"step_label": stepDef.Label,
			"reason":     input.Reason,
		}
		if sig != nil {
			fields["signature_id"] = sig.ID
		}
		metadata, _ := json.Marshal(fields)
		return e.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    input.ActorID,
			Action:     domain.AuditWorkflowAdvanced,
			EntityType: domain.EntityDocument,
			EntityID:   doc.ID,
			Summary:    summary,
			Metadata:   metadata,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	if nextStep != nil {
		go e.notifyStepReady(doc, nextStep)
	}

	return doc, nil
}

func (e *workflowEngine) Reject(ctx context.Context, input *RejectInput) (*domain.DocumentRecord, error) {
	unlock := e.locks.Lock(input.DocumentID)
	defer unlock()

	var doc *domain.DocumentRecord

	err := e.tx.InTx(ctx, func(ctx context.Context) error {
		var tpl *domain.WorkflowTemplate
		var err error
		doc, tpl, err = e.loadForTransition(ctx, input.DocumentID, input.ActorRole)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		idx := doc.Workflow.CurrentStepIndex
		stepDef := tpl.Steps[idx]

		rejected := &doc.Workflow.Steps[idx]
		rejected.Status = domain.StepRejected
		rejected.CompletedAt = &now
		rejected.ActorUserID = &input.ActorID
		rejected.Notes = input.Reason

		// Full reset: every step back to pending with cleared actor and
		// signature references, step 0 restarted. Signatures already minted
		// for completed steps stay in the registry as historical record.
		for i := range doc.Workflow.Steps {
			step := &doc.Workflow.Steps[i]
			step.Status = domain.StepPending
			step.StartedAt = nil
			step.CompletedAt = nil
			step.ActorUserID = nil
			step.SignatureID = nil
		}
		doc.Workflow.Steps[0].Status = domain.StepInProgress
		doc.Workflow.Steps[0].StartedAt = &now
		doc.Workflow.CurrentStepIndex = 0
		doc.Workflow.Status = domain.StatusDraft
		doc.UpdatedAt = now

		if err := e.docRepo.Update(ctx, doc); err != nil {
			return fmt.Errorf("saving workflow state: %w", err)
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"step_id":    stepDef.ID,
			"step_label": stepDef.Label,
			"reason":     input.Reason,
		})
		return e.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    input.ActorID,
			Action:     domain.AuditWorkflowRejected,
			EntityType: domain.EntityDocument,
			EntityID:   doc.ID,
			Summary:    fmt.Sprintf("%s rejected: %s", stepDef.Label, input.Reason),
			Metadata:   metadata,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// notifyStepReady emails every active holder of the next step's role.
// Best effort: failures are logged and never affect the transition.
func (e *workflowEngine) notifyStepReady(doc *domain.DocumentRecord, step *domain.WorkflowStepDefinition) {
	if e.notifier == nil {
		return
	}
	ctx := context.Background()
	users, err := e.userRepo.ListByRole(ctx, step.RequiredRole)
	if err != nil {
		log.Printf("workflowEngine.notifyStepReady: listing %s users: %v", step.RequiredRole, err)
		return
	}
	n := port.StepNotification{
		DocumentID:     doc.ID.String(),
		DocumentTitle:  doc.Title,
		DocumentNumber: doc.DocumentNumber,
		StepLabel:      step.Label,
		SLAHours:       step.SLAHours,
	}
	for _, u := range users {
		if err := e.notifier.NotifyStepReady(ctx, u.Email, u.FullName, n); err != nil {
			log.Printf("workflowEngine.notifyStepReady: notifying %s: %v", u.Email, err)
		}
	}
}
