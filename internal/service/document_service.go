package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

// CreateDocumentInput is the DTO for registering a new controlled document.
type CreateDocumentInput struct {
	Title              string
	DocumentNumber     string
	DocumentTypeID     uuid.UUID
	WorkflowTemplateID *uuid.UUID
	Category           string
	SecurityClass      string
	ChangeControlID    string
	InitialVersion     string
	ChangeSummary      string
	Tags               []string
	RiskClass          domain.RiskClass
	CreatedBy          uuid.UUID
	CreatorRole        domain.UserRole
}

// UpdateDocumentInput carries partial metadata updates; nil fields are left
// untouched.
type UpdateDocumentInput struct {
	DocumentID      uuid.UUID
	ActorID         uuid.UUID
	Title           *string
	Category        *string
	SecurityClass   *string
	ChangeControlID *string
	DocumentTypeID  *uuid.UUID
	NextIssueDate   *time.Time
	Tags            []string
	RiskClass       *domain.RiskClass
}

// AddVersionInput is the DTO for appending a new document version.
type AddVersionInput struct {
	DocumentID    uuid.UUID
	Label         string
	ChangeSummary string
	ActorID       uuid.UUID
}

// UploadAttachmentInput is the DTO for attaching a file to a document.
type UploadAttachmentInput struct {
	DocumentID  uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	ActorID     uuid.UUID
}

// DocumentService owns document records, their version history, and their
// metadata. Workflow transitions belong to the WorkflowEngine; the direct
// status flips (mark effective, archive) live here because they bypass the
// step machinery, but they share the per-document lock with the engine.
type DocumentService interface {
	Create(ctx context.Context, input *CreateDocumentInput) (*domain.DocumentRecord, error)
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.DocumentRecord, error)
	List(ctx context.Context, filter port.DocumentFilter, offset, limit int) ([]domain.DocumentRecord, int, error)
	Update(ctx context.Context, input *UpdateDocumentInput) error
	AddVersion(ctx context.Context, input *AddVersionInput) error
	MarkEffective(ctx context.Context, docID, actorID uuid.UUID) error
	Archive(ctx context.Context, docID, actorID uuid.UUID) error
	UploadAttachment(ctx context.Context, input *UploadAttachmentInput) (*domain.Attachment, error)
	DownloadAttachment(ctx context.Context, docID, attachmentID uuid.UUID) (*domain.Attachment, []byte, error)
}

type documentService struct {
	docRepo   port.DocumentRepository
	typeRepo  port.DocumentTypeRepository
	wfRepo    port.WorkflowRepository
	auditRepo port.AuditRepository
	storage   port.ObjectStorage
	bucket    string
	tx        port.Transactor
	locks     *DocumentLocks
}

// NewDocumentService creates a new DocumentService implementation.
// Storage may be nil when attachment support is disabled.
func NewDocumentService(
	docRepo port.DocumentRepository,
	typeRepo port.DocumentTypeRepository,
	wfRepo port.WorkflowRepository,
	auditRepo port.AuditRepository,
	storage port.ObjectStorage,
	bucket string,
	tx port.Transactor,
	locks *DocumentLocks,
) DocumentService {
	return &documentService{
		docRepo:   docRepo,
		typeRepo:  typeRepo,
		wfRepo:    wfRepo,
		auditRepo: auditRepo,
		storage:   storage,
		bucket:    bucket,
		tx:        tx,
		locks:     locks,
	}
}

// resolveTemplate picks the workflow template for a new document: the
// explicit id if given, otherwise the default template, otherwise the first
// one available.
func (s *documentService) resolveTemplate(ctx context.Context, explicit *uuid.UUID) (*domain.WorkflowTemplate, error) {
	if explicit != nil {
		return s.wfRepo.GetByID(ctx, *explicit)
	}

	tpl, err := s.wfRepo.GetDefault(ctx)
	if err == nil {
		return tpl, nil
	}
	if !errors.Is(err, domain.ErrWorkflowNotFound) {
		return nil, err
	}

	tpls, _, err := s.wfRepo.List(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(tpls) == 0 {
		return nil, domain.ErrNoWorkflowAvailable
	}
	return &tpls[0], nil
}

func (s *documentService) Create(ctx context.Context, input *CreateDocumentInput) (*domain.DocumentRecord, error) {
	var doc *domain.DocumentRecord
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.typeRepo.GetByID(ctx, input.DocumentTypeID); err != nil {
			return err
		}

		tpl, err := s.resolveTemplate(ctx, input.WorkflowTemplateID)
		if err != nil {
			return err
		}
		// Templates created through the service always have a step, but the
		// table does not enforce it.
		if len(tpl.Steps) == 0 {
			return domain.ErrValidationFailed
		}

		now := time.Now().UTC()

		steps := make([]domain.WorkflowInstanceStep, len(tpl.Steps))
		for i, def := range tpl.Steps {
			steps[i] = domain.WorkflowInstanceStep{
				StepID: def.ID,
				Status: domain.StepPending,
			}
		}
		steps[0].Status = domain.StepInProgress
		steps[0].StartedAt = &now

		label := input.InitialVersion
		if label == "" {
			label = "1.0"
		}

		doc = &domain.DocumentRecord{
			ID:              uuid.New(),
			Title:           input.Title,
			DocumentNumber:  input.DocumentNumber,
			CurrentVersion:  label,
			DocumentTypeID:  input.DocumentTypeID,
			Category:        input.Category,
			SecurityClass:   input.SecurityClass,
			IssuerRole:      input.CreatorRole,
			ChangeControlID: input.ChangeControlID,
			Workflow: domain.WorkflowInstance{
				TemplateID:       tpl.ID,
				Status:           domain.StatusDraft,
				CurrentStepIndex: 0,
				Steps:            steps,
				InitiatedAt:      now,
			},
			VersionHistory: domain.VersionHistory{{
				ID:            uuid.New(),
				Label:         label,
				ChangeSummary: input.ChangeSummary,
				CreatedBy:     input.CreatedBy,
				CreatedAt:     now,
			}},
			Tags:      append(domain.StringList(nil), input.Tags...),
			RiskClass: input.RiskClass,
			CreatedBy: input.CreatedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.docRepo.Create(ctx, doc); err != nil {
			return fmt.Errorf("creating document: %w", err)
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"document_number": doc.DocumentNumber,
			"template_id":     tpl.ID,
			"version":         label,
		})
		return s.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    input.CreatedBy,
			Action:     domain.AuditDocumentCreated,
			EntityType: domain.EntityDocument,
			EntityID:   doc.ID,
			Summary:    fmt.Sprintf("document %s created", doc.DocumentNumber),
			Metadata:   metadata,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.DocumentRecord, error) {
	return s.docRepo.GetByID(ctx, docID)
}

func (s *documentService) List(ctx context.Context, filter port.DocumentFilter, offset, limit int) ([]domain.DocumentRecord, int, error) {
	return s.docRepo.List(ctx, filter, offset, limit)
}

func (s *documentService) Update(ctx context.Context, input *UpdateDocumentInput) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		doc, err := s.docRepo.GetByID(ctx, input.DocumentID)
		if err != nil {
			return err
		}

		changed := map[string]interface{}{}
		if input.Title != nil {
			doc.Title = *input.Title
			changed["title"] = *input.Title
		}
		if input.Category != nil {
			doc.Category = *input.Category
			changed["category"] = *input.Category
		}
		if input.SecurityClass != nil {
			doc.SecurityClass = *input.SecurityClass
			changed["security_class"] = *input.SecurityClass
		}
		if input.ChangeControlID != nil {
			doc.ChangeControlID = *input.ChangeControlID
			changed["change_control_id"] = *input.ChangeControlID
		}
		if input.DocumentTypeID != nil {
			if _, err := s.typeRepo.GetByID(ctx, *input.DocumentTypeID); err != nil {
				return err
			}
			doc.DocumentTypeID = *input.DocumentTypeID
			changed["document_type_id"] = *input.DocumentTypeID
		}
		if input.NextIssueDate != nil {
			doc.NextIssueDate = input.NextIssueDate
			changed["next_issue_date"] = *input.NextIssueDate
		}
		if input.Tags != nil {
			doc.Tags = append(domain.StringList(nil), input.Tags...)
			changed["tags"] = input.Tags
		}
		if input.RiskClass != nil {
			doc.RiskClass = *input.RiskClass
			changed["risk_class"] = *input.RiskClass
		}

		now := time.Now().UTC()
		doc.UpdatedAt = now
		if err := s.docRepo.Update(ctx, doc); err != nil {
			return err
		}

		metadata, _ := json.Marshal(changed)
		return s.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    input.ActorID,
			Action:     domain.AuditDocumentUpdated,
			EntityType: domain.EntityDocument,
			EntityID:   doc.ID,
			Summary:    fmt.Sprintf("document %s updated", doc.DocumentNumber),
			Metadata:   metadata,
			CreatedAt:  now,
		})
	})
}

func (s *documentService) AddVersion(ctx context.Context, input *AddVersionInput) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		doc, err := s.docRepo.GetByID(ctx, input.DocumentID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		// Supersede the current newest entry before prepending.
		if len(doc.VersionHistory) > 0 && doc.VersionHistory[0].SupersededAt == nil {
			doc.VersionHistory[0].SupersededAt = &now
		}
		doc.VersionHistory = append(domain.VersionHistory{{
			ID:            uuid.New(),
			Label:         input.Label,
			ChangeSummary: input.ChangeSummary,
			CreatedBy:     input.ActorID,
			CreatedAt:     now,
		}}, doc.VersionHistory...)
		doc.CurrentVersion = input.Label
		doc.UpdatedAt = now

		if err := s.docRepo.Update(ctx, doc); err != nil {
			return err
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"version": input.Label,
			"summary": input.ChangeSummary,
		})
		return s.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    input.ActorID,
			Action:     domain.AuditDocumentVersioned,
			EntityType: domain.EntityDocument,
			EntityID:   doc.ID,
			Summary:    fmt.Sprintf("document %s versioned to %s", doc.DocumentNumber, input.Label),
			Metadata:   metadata,
			CreatedAt:  now,
		})
	})
}

func (s *documentService) MarkEffective(ctx context.Context, docID, actorID uuid.UUID) error {
	return s.setStatus(ctx, docID, actorID, domain.StatusEffective,
		domain.AuditDocumentEffective, "document marked effective")
}

func (s *documentService) Archive(ctx context.Context, docID, actorID uuid.UUID) error {
	return s.setStatus(ctx, docID, actorID, domain.StatusArchived,
		domain.AuditDocumentArchived, "document archived")
}

// setStatus applies a direct overall-status transition, independent of the
// step index. Role gating happens at the boundary.
func (s *documentService) setStatus(ctx context.Context, docID, actorID uuid.UUID, status domain.WorkflowStatus, action domain.AuditAction, summary string) error {
	unlock := s.locks.Lock(docID)
	defer unlock()

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		doc, err := s.docRepo.GetByID(ctx, docID)
		if err != nil {
			return err
		}

		// Archived is terminal.
		if doc.Workflow.Status == domain.StatusArchived && status != domain.StatusArchived {
			return domain.ErrDocumentArchived
		}

		now := time.Now().UTC()
		doc.Workflow.Status = status
		if status == domain.StatusEffective {
			doc.EffectiveDate = &now
			doc.IssueDate = &now
			doc.IssuedBy = &actorID
		}
		doc.UpdatedAt = now

		if err := s.docRepo.Update(ctx, doc); err != nil {
			return err
		}

		return s.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    actorID,
			Action:     action,
			EntityType: domain.EntityDocument,
			EntityID:   doc.ID,
			Summary:    fmt.Sprintf("%s (%s)", summary, doc.DocumentNumber),
			Metadata:   json.RawMessage("{}"),
			CreatedAt:  now,
		})
	})
}

func (s *documentService) UploadAttachment(ctx context.Context, input *UploadAttachmentInput) (*domain.Attachment, error) {
	if s.storage == nil {
		return nil, domain.ErrValidationFailed
	}

	var att *domain.Attachment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		doc, err := s.docRepo.GetByID(ctx, input.DocumentID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		id := uuid.New()
		key := fmt.Sprintf("documents/%s/%s_%s", doc.ID, id, input.FileName)

		if _, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.bucket,
			Key:         key,
			Body:        input.Body,
			ContentType: input.ContentType,
		}); err != nil {
			return fmt.Errorf("uploading attachment: %w", err)
		}

		att = &domain.Attachment{
			ID:          id,
			FileName:    input.FileName,
			ContentType: input.ContentType,
			Size:        input.Size,
			S3Bucket:    s.bucket,
			S3Key:       key,
			UploadedBy:  input.ActorID,
			UploadedAt:  now,
		}
		doc.Attachments = append(doc.Attachments, *att)
		doc.UpdatedAt = now

		if err := s.docRepo.Update(ctx, doc); err != nil {
			return err
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"attachment_id": id,
			"file_name":     input.FileName,
			"size":          input.Size,
		})
		return s.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    input.ActorID,
			Action:     domain.AuditDocumentUpdated,
			EntityType: domain.EntityDocument,
			EntityID:   doc.ID,
			Summary:    fmt.Sprintf("attachment %s added to %s", input.FileName, doc.DocumentNumber),
			Metadata:   metadata,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return att, nil
}

func (s *documentService) DownloadAttachment(ctx context.Context, docID, attachmentID uuid.UUID) (*domain.Attachment, []byte, error) {
	if s.storage == nil {
		return nil, nil, domain.ErrAttachmentNotFound
	}

	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}

	for i := range doc.Attachments {
		if doc.Attachments[i].ID == attachmentID {
			att := doc.Attachments[i]
			data, err := s.storage.Download(ctx, att.S3Bucket, att.S3Key)
			if err != nil {
				return nil, nil, fmt.Errorf("downloading attachment: %w", err)
			}
			return &att, data, nil
		}
	}
	return nil, nil, domain.ErrAttachmentNotFound
}
