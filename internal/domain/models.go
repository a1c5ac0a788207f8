package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated platform user.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentType is a taxonomy entry for controlled documents. Once referenced
// by a document only Description and IsObsolete may change.
type DocumentType struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	Label       DocumentTypeLabel `db:"label" json:"label"`
	Description string            `db:"description" json:"description"`
	IsObsolete  bool              `db:"is_obsolete" json:"is_obsolete"`
	CreatedBy   uuid.UUID         `db:"created_by" json:"created_by"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// WorkflowStepDefinition is one stage of an approval pipeline. Slice index
// within the owning template is the pipeline position.
type WorkflowStepDefinition struct {
	ID                uuid.UUID `json:"id"`
	Label             string    `json:"label"`
	Description       string    `json:"description"`
	RequiredRole      UserRole  `json:"required_role"`
	SLAHours          int       `json:"sla_hours"`
	RequiresSignature bool      `json:"requires_signature"`
	SignatureMeaning  string    `json:"signature_meaning"`
}

// WorkflowTemplate is a named approval pipeline. Steps are immutable after
// creation; templates are versioned by creating new templates.
type WorkflowTemplate struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Description    string          `db:"description" json:"description"`
	Steps          StepDefinitions `db:"steps" json:"steps"`
	ComplianceRefs StringList      `db:"compliance_refs" json:"compliance_refs"`
	IsDefault      bool            `db:"is_default" json:"is_default"`
	CreatedBy      uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// WorkflowInstanceStep is the runtime state of one step for one document.
type WorkflowInstanceStep struct {
	StepID      uuid.UUID  `json:"step_id"`
	Status      StepStatus `json:"status"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ActorUserID *uuid.UUID `json:"actor_user_id"`
	SignatureID *uuid.UUID `json:"signature_id"`
	Notes       string     `json:"notes"`
}

// WorkflowInstance tracks a document's progress through its template.
// CurrentStepIndex points at the first non-terminal step, or equals
// len(Steps) once every step is completed.
type WorkflowInstance struct {
	TemplateID       uuid.UUID              `json:"template_id"`
	Status           WorkflowStatus         `json:"status"`
	CurrentStepIndex int                    `json:"current_step_index"`
	Steps            []WorkflowInstanceStep `json:"steps"`
	InitiatedAt      time.Time              `json:"initiated_at"`
}

// CurrentStep returns the in-flight step, or nil when the workflow is complete.
func (w *WorkflowInstance) CurrentStep() *WorkflowInstanceStep {
	if w.CurrentStepIndex < 0 || w.CurrentStepIndex >= len(w.Steps) {
		return nil
	}
	return &w.Steps[w.CurrentStepIndex]
}

// DocumentVersion is one entry of a document's version history.
type DocumentVersion struct {
	ID            uuid.UUID  `json:"id"`
	Label         string     `json:"label"`
	ChangeSummary string     `json:"change_summary"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	SupersededAt  *time.Time `json:"superseded_at"`
}

// Attachment is a file stored in object storage and referenced by a document.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	S3Bucket    string    `json:"s3_bucket"`
	S3Key       string    `json:"s3_key"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// DocumentRecord is a controlled document with its embedded workflow instance
// and version history. CurrentVersion always equals VersionHistory[0].Label;
// history is ordered newest-first.
type DocumentRecord struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	Title           string           `db:"title" json:"title"`
	DocumentNumber  string           `db:"document_number" json:"document_number"`
	CurrentVersion  string           `db:"current_version" json:"current_version"`
	DocumentTypeID  uuid.UUID        `db:"document_type_id" json:"document_type_id"`
	Category        string           `db:"category" json:"category"`
	SecurityClass   string           `db:"security_class" json:"security_class"`
	IssuedBy        *uuid.UUID       `db:"issued_by" json:"issued_by"`
	IssuerRole      UserRole         `db:"issuer_role" json:"issuer_role"`
	EffectiveDate   *time.Time       `db:"effective_date" json:"effective_date"`
	IssueDate       *time.Time       `db:"issue_date" json:"issue_date"`
	NextIssueDate   *time.Time       `db:"next_issue_date" json:"next_issue_date"`
	ChangeControlID string           `db:"change_control_id" json:"change_control_id"`
	Workflow        WorkflowInstance `db:"workflow" json:"workflow"`
	VersionHistory  VersionHistory   `db:"version_history" json:"version_history"`
	Tags            StringList       `db:"tags" json:"tags"`
	Attachments     AttachmentList   `db:"attachments" json:"attachments"`
	RiskClass       RiskClass        `db:"risk_class" json:"risk_class"`
	CreatedBy       uuid.UUID        `db:"created_by" json:"created_by"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// ElectronicSignature is a recorded attestation bound to one completed
// workflow step. Immutable once created.
type ElectronicSignature struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	DocumentID uuid.UUID `db:"document_id" json:"document_id"`
	StepID     uuid.UUID `db:"step_id" json:"step_id"`
	SignedAt   time.Time `db:"signed_at" json:"signed_at"`
	Meaning    string    `db:"meaning" json:"meaning"`
	Reason     string    `db:"reason" json:"reason"`
	Evidence   string    `db:"evidence" json:"evidence"`
}

// AuditLogEntry is one append-only record of a successful mutating action.
type AuditLogEntry struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	ActorID        uuid.UUID       `db:"actor_id" json:"actor_id"`
	Action         AuditAction     `db:"action" json:"action"`
	EntityType     EntityType      `db:"entity_type" json:"entity_type"`
	EntityID       uuid.UUID       `db:"entity_id" json:"entity_id"`
	Summary        string          `db:"summary" json:"summary"`
	Metadata       json.RawMessage `db:"metadata" json:"metadata"`
	ComplianceRefs StringList      `db:"compliance_refs" json:"compliance_refs"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// StatusCountRow is one row of the workflow status summary report.
type StatusCountRow struct {
	Status WorkflowStatus `db:"status" json:"status"`
	Count  int            `db:"count" json:"count"`
}
