package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"veridoc/internal/domain"
)

// AuditFilter narrows audit ledger queries.
type AuditFilter struct {
	EntityType *domain.EntityType
	EntityID   *uuid.UUID
	Action     *domain.AuditAction
	ActorID    *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// AuditRepository is the append-only audit ledger. It deliberately exposes no
// update or delete; entries are assigned their id and timestamp at append
// time and retrieved newest-first.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLogEntry) error
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error)
	List(ctx context.Context, filter AuditFilter, offset, limit int) ([]domain.AuditLogEntry, int, error)
}

// SignatureRepository is the append-only electronic signature registry,
// written exclusively by the workflow engine.
type SignatureRepository interface {
	Create(ctx context.Context, sig *domain.ElectronicSignature) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ElectronicSignature, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.ElectronicSignature, error)
}
