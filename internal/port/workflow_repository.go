package port

import (
	"context"

	"github.com/google/uuid"

	"veridoc/internal/domain"
)

// WorkflowRepository defines the contract for workflow template persistence.
// Step lists are immutable after creation; only name, description,
// compliance refs, and the default flag may change.
type WorkflowRepository interface {
	Create(ctx context.Context, tpl *domain.WorkflowTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowTemplate, error)
	GetDefault(ctx context.Context) (*domain.WorkflowTemplate, error)
	List(ctx context.Context, offset, limit int) ([]domain.WorkflowTemplate, int, error)
	Update(ctx context.Context, tpl *domain.WorkflowTemplate) error
	// ClearDefault unsets the default flag on every template. Callers run it
	// in the same transaction as the write that sets a new default, so the
	// at-most-one-default invariant never has a transient double-default.
	ClearDefault(ctx context.Context) error
}

// DocumentTypeRepository defines the contract for document type persistence.
type DocumentTypeRepository interface {
	Create(ctx context.Context, dt *domain.DocumentType) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error)
	GetByLabel(ctx context.Context, label domain.DocumentTypeLabel) (*domain.DocumentType, error)
	List(ctx context.Context, offset, limit int) ([]domain.DocumentType, int, error)
	Update(ctx context.Context, dt *domain.DocumentType) error
}
