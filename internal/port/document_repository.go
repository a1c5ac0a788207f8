package port

import (
	"context"

	"github.com/google/uuid"

	"veridoc/internal/domain"
)

// DocumentFilter narrows document listing queries.
type DocumentFilter struct {
	DocumentTypeID *uuid.UUID
	Status         *domain.WorkflowStatus
	Tag            string
}

// DocumentRepository defines the contract for document record persistence.
// The repository exclusively owns DocumentRecord and its embedded workflow
// instance; all mutation goes through these methods.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.DocumentRecord) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.DocumentRecord, error)
	List(ctx context.Context, filter DocumentFilter, offset, limit int) ([]domain.DocumentRecord, int, error)
	Update(ctx context.Context, doc *domain.DocumentRecord) error
}
