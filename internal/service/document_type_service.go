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

// CreateDocumentTypeInput is the DTO for registering a new document type.
type CreateDocumentTypeInput struct {
	Label       domain.DocumentTypeLabel
	Description string
	CreatedBy   uuid.UUID
}

// UpdateDocumentTypeInput carries the mutable fields of a document type.
// The label is fixed once created.
type UpdateDocumentTypeInput struct {
	TypeID      uuid.UUID
	ActorID     uuid.UUID
	Description *string
	IsObsolete  *bool
}

// DocumentTypeService manages the document type taxonomy.
type DocumentTypeService interface {
	Create(ctx context.Context, input *CreateDocumentTypeInput) (*domain.DocumentType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error)
	List(ctx context.Context, offset, limit int) ([]domain.DocumentType, int, error)
	Update(ctx context.Context, input *UpdateDocumentTypeInput) error
}

type documentTypeService struct {
	typeRepo  port.DocumentTypeRepository
	auditRepo port.AuditRepository
	tx        port.Transactor
}

// NewDocumentTypeService creates a new DocumentTypeService implementation.
func NewDocumentTypeService(typeRepo port.DocumentTypeRepository, auditRepo port.AuditRepository, tx port.Transactor) DocumentTypeService {
	return &documentTypeService{typeRepo: typeRepo, auditRepo: auditRepo, tx: tx}
}

func (s *documentTypeService) Create(ctx context.Context, input *CreateDocumentTypeInput) (*domain.DocumentType, error) {
	if !domain.ValidTypeLabels[input.Label] {
		return nil, domain.ErrValidationFailed
	}

	now := time.Now().UTC()
	dt := &domain.DocumentType{
		ID:          uuid.New(),
		Label:       input.Label,
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.typeRepo.Create(ctx, dt); err != nil {
			return err
		}

		metadata, _ := json.Marshal(map[string]interface{}{"label": dt.Label})
		return s.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    input.CreatedBy,
			Action:     domain.AuditDocumentTypeCreated,
			EntityType: domain.EntityDocumentType,
			EntityID:   dt.ID,
			Summary:    fmt.Sprintf("document type %s created", dt.Label),
			Metadata:   metadata,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return dt, nil
}

func (s *documentTypeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error) {
	return s.typeRepo.GetByID(ctx, id)
}

func (s *documentTypeService) List(ctx context.Context, offset, limit int) ([]domain.DocumentType, int, error) {
	return s.typeRepo.List(ctx, offset, limit)
}

func (s *documentTypeService) Update(ctx context.Context, input *UpdateDocumentTypeInput) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		dt, err := s.typeRepo.GetByID(ctx, input.TypeID)
		if err != nil {
			return err
		}

		changed := map[string]interface{}{}
		if input.Description != nil {
			dt.Description = *input.Description
			changed["description"] = *input.Description
		}
		if input.IsObsolete != nil {
			dt.IsObsolete = *input.IsObsolete
			changed["is_obsolete"] = *input.IsObsolete
		}

		now := time.Now().UTC()
		dt.UpdatedAt = now
		if err := s.typeRepo.Update(ctx, dt); err != nil {
			return err
		}

		metadata, _ := json.Marshal(changed)
		return s.auditRepo.Create(ctx, &domain.AuditLogEntry{
			ID:         uuid.New(),
			ActorID:    input.ActorID,
			Action:     domain.AuditDocumentTypeUpdated,
			EntityType: domain.EntityDocumentType,
			EntityID:   dt.ID,
			Summary:    fmt.Sprintf("document type %s updated", dt.Label),
			Metadata:   metadata,
			CreatedAt:  now,
		})
	})
}
