package memory

import (
	"context"

	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

// The repository ports share method names with incompatible signatures, so
// the Store exposes one narrow view per port.

// Documents returns the store's DocumentRepository view.
func (s *Store) Documents() port.DocumentRepository { return s }

// Workflows returns the store's WorkflowRepository view.
func (s *Store) Workflows() port.WorkflowRepository { return workflowView{s} }

// DocumentTypes returns the store's DocumentTypeRepository view.
func (s *Store) DocumentTypes() port.DocumentTypeRepository { return typeView{s} }

// Signatures returns the store's SignatureRepository view.
func (s *Store) Signatures() port.SignatureRepository { return signatureView{s} }

// Audit returns the store's AuditRepository view.
func (s *Store) Audit() port.AuditRepository { return auditView{s} }

// Users returns the store's UserRepository view.
func (s *Store) Users() port.UserRepository { return userView{s} }

var _ port.DocumentRepository = (*Store)(nil)

type workflowView struct{ s *Store }

var _ port.WorkflowRepository = workflowView{}

func (v workflowView) Create(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	return v.s.CreateTemplate(ctx, tpl)
}

func (v workflowView) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowTemplate, error) {
	return v.s.GetTemplate(ctx, id)
}

func (v workflowView) GetDefault(ctx context.Context) (*domain.WorkflowTemplate, error) {
	return v.s.GetDefault(ctx)
}

func (v workflowView) List(ctx context.Context, offset, limit int) ([]domain.WorkflowTemplate, int, error) {
	return v.s.ListTemplates(ctx, offset, limit)
}

func (v workflowView) Update(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	return v.s.UpdateTemplate(ctx, tpl)
}

func (v workflowView) ClearDefault(ctx context.Context) error {
	return v.s.ClearDefault(ctx)
}

type typeView struct{ s *Store }

var _ port.DocumentTypeRepository = typeView{}

func (v typeView) Create(ctx context.Context, dt *domain.DocumentType) error {
	return v.s.CreateType(ctx, dt)
}

func (v typeView) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error) {
	return v.s.GetType(ctx, id)
}

func (v typeView) GetByLabel(ctx context.Context, label domain.DocumentTypeLabel) (*domain.DocumentType, error) {
	return v.s.GetTypeByLabel(ctx, label)
}

func (v typeView) List(ctx context.Context, offset, limit int) ([]domain.DocumentType, int, error) {
	return v.s.ListTypes(ctx, offset, limit)
}

func (v typeView) Update(ctx context.Context, dt *domain.DocumentType) error {
	return v.s.UpdateType(ctx, dt)
}

type signatureView struct{ s *Store }

var _ port.SignatureRepository = signatureView{}

func (v signatureView) Create(ctx context.Context, sig *domain.ElectronicSignature) error {
	return v.s.CreateSignature(ctx, sig)
}

func (v signatureView) GetByID(ctx context.Context, id uuid.UUID) (*domain.ElectronicSignature, error) {
	return v.s.GetSignature(ctx, id)
}

func (v signatureView) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.ElectronicSignature, error) {
	return v.s.ListSignaturesByDocument(ctx, documentID)
}

type auditView struct{ s *Store }

var _ port.AuditRepository = auditView{}

func (v auditView) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	return v.s.CreateAudit(ctx, entry)
}

func (v auditView) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	return v.s.ListAuditByEntity(ctx, entityType, entityID, offset, limit)
}

func (v auditView) List(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	return v.s.ListAudit(ctx, filter, offset, limit)
}

type userView struct{ s *Store }

var _ port.UserRepository = userView{}

func (v userView) Create(ctx context.Context, user *domain.User) error {
	return v.s.CreateUser(ctx, user)
}

func (v userView) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return v.s.GetUser(ctx, userID)
}

func (v userView) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return v.s.GetUserByEmail(ctx, email)
}

func (v userView) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	return v.s.ListUsers(ctx, offset, limit)
}

func (v userView) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	return v.s.ListUsersByRole(ctx, role)
}

func (v userView) Update(ctx context.Context, user *domain.User) error {
	return v.s.UpdateUser(ctx, user)
}
