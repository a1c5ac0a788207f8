package service

import (
	"context"

	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

// AuditService exposes read access to the audit ledger and the signature
// registry. There is no write surface here; appends happen inside the
// services that perform the audited actions.
type AuditService interface {
	List(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, int, error)
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error)
	GetSignature(ctx context.Context, id uuid.UUID) (*domain.ElectronicSignature, error)
	ListSignaturesByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.ElectronicSignature, error)
}

type auditService struct {
	auditRepo port.AuditRepository
	sigRepo   port.SignatureRepository
}

// NewAuditService creates a new AuditService implementation.
func NewAuditService(auditRepo port.AuditRepository, sigRepo port.SignatureRepository) AuditService {
	return &auditService{auditRepo: auditRepo, sigRepo: sigRepo}
}

func (s *auditService) List(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	return s.auditRepo.List(ctx, filter, offset, limit)
}

func (s *auditService) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	return s.auditRepo.ListByEntity(ctx, entityType, entityID, offset, limit)
}

func (s *auditService) GetSignature(ctx context.Context, id uuid.UUID) (*domain.ElectronicSignature, error) {
	return s.sigRepo.GetByID(ctx, id)
}

func (s *auditService) ListSignaturesByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.ElectronicSignature, error) {
	return s.sigRepo.ListByDocument(ctx, documentID)
}
