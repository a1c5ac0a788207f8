// Package memory provides map-backed implementations of the persistence
// ports. It backs service tests and local development without PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

// Store is a goroutine-safe in-memory implementation of every repository
// port plus the Transactor. Records are copied on the way in and out, so a
// caller cannot mutate stored state except through an Update call.
type Store struct {
	mu         sync.RWMutex
	documents  map[uuid.UUID]domain.DocumentRecord
	templates  map[uuid.UUID]domain.WorkflowTemplate
	types      map[uuid.UUID]domain.DocumentType
	users      map[uuid.UUID]domain.User
	signatures []domain.ElectronicSignature
	audit      []domain.AuditLogEntry
	// insertion counters keep List ordering deterministic
	docOrder []uuid.UUID
	tplOrder []uuid.UUID
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		documents: make(map[uuid.UUID]domain.DocumentRecord),
		templates: make(map[uuid.UUID]domain.WorkflowTemplate),
		types:     make(map[uuid.UUID]domain.DocumentType),
		users:     make(map[uuid.UUID]domain.User),
	}
}

var (
	_ port.ReportRepository = (*Store)(nil)
	_ port.Transactor       = (*Store)(nil)
)

// InTx runs fn directly. Services validate all preconditions before the
// first write, so the store relies on that ordering: a failed operation has
// written nothing by the time it returns.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- DocumentRepository ---

func (s *Store) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = copyDocument(doc)
	s.docOrder = append(s.docOrder, doc.ID)
	return nil
}

func (s *Store) GetByID(ctx context.Context, docID uuid.UUID) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	out := copyDocument(&doc)
	return &out, nil
}

func (s *Store) List(ctx context.Context, filter port.DocumentFilter, offset, limit int) ([]domain.DocumentRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []domain.DocumentRecord
	for _, id := range s.docOrder {
		doc, ok := s.documents[id]
		if !ok {
			continue
		}
		if filter.DocumentTypeID != nil && doc.DocumentTypeID != *filter.DocumentTypeID {
			continue
		}
		if filter.Status != nil && doc.Workflow.Status != *filter.Status {
			continue
		}
		if filter.Tag != "" && !contains(doc.Tags, filter.Tag) {
			continue
		}
		all = append(all, copyDocument(&doc))
	}
	total := len(all)
	return paginate(all, offset, limit), total, nil
}

func (s *Store) Update(ctx context.Context, doc *domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; !ok {
		return domain.ErrDocumentNotFound
	}
	s.documents[doc.ID] = copyDocument(doc)
	return nil
}

// --- WorkflowRepository ---

func (s *Store) CreateTemplate(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.ID] = copyTemplate(tpl)
	s.tplOrder = append(s.tplOrder, tpl.ID)
	return nil
}

func (s *Store) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.WorkflowTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[id]
	if !ok {
		return nil, domain.ErrWorkflowNotFound
	}
	out := copyTemplate(&tpl)
	return &out, nil
}

func (s *Store) GetDefault(ctx context.Context) (*domain.WorkflowTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.tplOrder {
		if tpl, ok := s.templates[id]; ok && tpl.IsDefault {
			out := copyTemplate(&tpl)
			return &out, nil
		}
	}
	return nil, domain.ErrWorkflowNotFound
}

func (s *Store) ListTemplates(ctx context.Context, offset, limit int) ([]domain.WorkflowTemplate, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []domain.WorkflowTemplate
	for _, id := range s.tplOrder {
		if tpl, ok := s.templates[id]; ok {
			all = append(all, copyTemplate(&tpl))
		}
	}
	total := len(all)
	return paginate(all, offset, limit), total, nil
}

func (s *Store) UpdateTemplate(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[tpl.ID]; !ok {
		return domain.ErrWorkflowNotFound
	}
	s.templates[tpl.ID] = copyTemplate(tpl)
	return nil
}

func (s *Store) ClearDefault(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, tpl := range s.templates {
		if tpl.IsDefault {
			tpl.IsDefault = false
			s.templates[id] = tpl
		}
	}
	return nil
}

// --- DocumentTypeRepository ---

func (s *Store) CreateType(ctx context.Context, dt *domain.DocumentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types {
		if existing.Label == dt.Label {
			return domain.ErrDuplicateTypeLabel
		}
	}
	s.types[dt.ID] = *dt
	return nil
}

func (s *Store) GetType(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dt, ok := s.types[id]
	if !ok {
		return nil, domain.ErrDocumentTypeNotFound
	}
	return &dt, nil
}

func (s *Store) GetTypeByLabel(ctx context.Context, label domain.DocumentTypeLabel) (*domain.DocumentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, dt := range s.types {
		if dt.Label == label {
			out := dt
			return &out, nil
		}
	}
	return nil, domain.ErrDocumentTypeNotFound
}

func (s *Store) ListTypes(ctx context.Context, offset, limit int) ([]domain.DocumentType, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []domain.DocumentType
	for _, dt := range s.types {
		all = append(all, dt)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Label < all[j].Label })
	total := len(all)
	return paginate(all, offset, limit), total, nil
}

func (s *Store) UpdateType(ctx context.Context, dt *domain.DocumentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[dt.ID]; !ok {
		return domain.ErrDocumentTypeNotFound
	}
	s.types[dt.ID] = *dt
	return nil
}

// --- SignatureRepository ---

func (s *Store) CreateSignature(ctx context.Context, sig *domain.ElectronicSignature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signatures = append(s.signatures, *sig)
	return nil
}

func (s *Store) GetSignature(ctx context.Context, id uuid.UUID) (*domain.ElectronicSignature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sig := range s.signatures {
		if sig.ID == id {
			out := sig
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListSignaturesByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.ElectronicSignature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ElectronicSignature
	for i := len(s.signatures) - 1; i >= 0; i-- {
		if s.signatures[i].DocumentID == documentID {
			out = append(out, s.signatures[i])
		}
	}
	return out, nil
}

// --- AuditRepository ---

func (s *Store) CreateAudit(ctx context.Context, entry *domain.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, *entry)
	return nil
}

func (s *Store) ListAuditByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	et := entityType
	return s.ListAudit(ctx, port.AuditFilter{EntityType: &et, EntityID: &entityID}, offset, limit)
}

func (s *Store) ListAudit(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []domain.AuditLogEntry
	// newest-first
	for i := len(s.audit) - 1; i >= 0; i-- {
		e := s.audit[i]
		if filter.EntityType != nil && e.EntityType != *filter.EntityType {
			continue
		}
		if filter.EntityID != nil && e.EntityID != *filter.EntityID {
			continue
		}
		if filter.Action != nil && e.Action != *filter.Action {
			continue
		}
		if filter.ActorID != nil && e.ActorID != *filter.ActorID {
			continue
		}
		if filter.From != nil && e.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.CreatedAt.After(*filter.To) {
			continue
		}
		all = append(all, e)
	}
	total := len(all)
	return paginate(all, offset, limit), total, nil
}

// --- UserRepository ---

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []domain.User
	for _, user := range s.users {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	total := len(all)
	return paginate(all, offset, limit), total, nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, user := range s.users {
		if user.Role == role && user.IsActive {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

// --- ReportRepository ---

func (s *Store) WorkflowStatusCounts(ctx context.Context) ([]domain.StatusCountRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.WorkflowStatus]int)
	for _, doc := range s.documents {
		counts[doc.Workflow.Status]++
	}
	var rows []domain.StatusCountRow
	for status, count := range counts {
		rows = append(rows, domain.StatusCountRow{Status: status, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows, nil
}

// --- helpers ---

func copyDocument(doc *domain.DocumentRecord) domain.DocumentRecord {
	out := *doc
	out.Workflow.Steps = append([]domain.WorkflowInstanceStep(nil), doc.Workflow.Steps...)
	out.VersionHistory = append(domain.VersionHistory(nil), doc.VersionHistory...)
	out.Tags = append(domain.StringList(nil), doc.Tags...)
	out.Attachments = append(domain.AttachmentList(nil), doc.Attachments...)
	return out
}

func copyTemplate(tpl *domain.WorkflowTemplate) domain.WorkflowTemplate {
	out := *tpl
	out.Steps = append(domain.StepDefinitions(nil), tpl.Steps...)
	out.ComplianceRefs = append(domain.StringList(nil), tpl.ComplianceRefs...)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
