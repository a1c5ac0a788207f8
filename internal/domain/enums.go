package domain

// UserRole is the closed set of roles that gate workflow steps. Step access
// compares roles by value; there is no hierarchy between them.
type UserRole string

const (
	RoleAuthor   UserRole = "author"
	RoleReviewer UserRole = "reviewer"
	RoleQA       UserRole = "qa"
	RoleApprover UserRole = "approver"
	RoleAdmin    UserRole = "admin"
)

// ValidRoles enumerates every assignable role.
var ValidRoles = map[UserRole]bool{
	RoleAuthor:   true,
	RoleReviewer: true,
	RoleQA:       true,
	RoleApprover: true,
	RoleAdmin:    true,
}

// DocumentTypeLabel is the closed taxonomy of controlled document categories.
type DocumentTypeLabel string

const (
	TypeSOP             DocumentTypeLabel = "sop"
	TypePolicy          DocumentTypeLabel = "policy"
	TypeWorkInstruction DocumentTypeLabel = "work_instruction"
	TypeForm            DocumentTypeLabel = "form"
	TypeSpecification   DocumentTypeLabel = "specification"
	TypeQualityManual   DocumentTypeLabel = "quality_manual"
	TypeProtocol        DocumentTypeLabel = "protocol"
	TypeReport          DocumentTypeLabel = "report"
)

// ValidTypeLabels enumerates the allowed document type labels.
var ValidTypeLabels = map[DocumentTypeLabel]bool{
	TypeSOP:             true,
	TypePolicy:          true,
	TypeWorkInstruction: true,
	TypeForm:            true,
	TypeSpecification:   true,
	TypeQualityManual:   true,
	TypeProtocol:        true,
	TypeReport:          true,
}

// WorkflowStatus is the overall lifecycle state of a document's workflow instance.
type WorkflowStatus string

const (
	StatusDraft           WorkflowStatus = "draft"
	StatusInReview        WorkflowStatus = "in_review"
	StatusPendingApproval WorkflowStatus = "pending_approval"
	StatusQAVerification  WorkflowStatus = "qa_verification"
	StatusApproved        WorkflowStatus = "approved"
	StatusEffective       WorkflowStatus = "effective"
	StatusSuperseded      WorkflowStatus = "superseded"
	StatusArchived        WorkflowStatus = "archived"
)

// StepStatus is the runtime state of a single workflow instance step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepRejected   StepStatus = "rejected"
)

// RiskClass classifies the impact of a controlled document.
type RiskClass string

const (
	RiskLow      RiskClass = "low"
	RiskMedium   RiskClass = "medium"
	RiskHigh     RiskClass = "high"
	RiskCritical RiskClass = "critical"
)

// AuditAction is the closed set of action codes recorded in the audit ledger.
type AuditAction string

const (
	AuditDocumentCreated     AuditAction = "DOCUMENT_CREATED"
	AuditDocumentUpdated     AuditAction = "DOCUMENT_UPDATED"
	AuditDocumentVersioned   AuditAction = "DOCUMENT_VERSIONED"
	AuditWorkflowAdvanced    AuditAction = "WORKFLOW_ADVANCED"
	AuditWorkflowRejected    AuditAction = "WORKFLOW_REJECTED"
	AuditDocumentEffective   AuditAction = "DOCUMENT_EFFECTIVE"
	AuditDocumentArchived    AuditAction = "DOCUMENT_ARCHIVED"
	AuditWorkflowCreated     AuditAction = "WORKFLOW_CREATED"
	AuditWorkflowUpdated     AuditAction = "WORKFLOW_UPDATED"
	AuditDocumentTypeCreated AuditAction = "DOCUMENT_TYPE_CREATED"
	AuditDocumentTypeUpdated AuditAction = "DOCUMENT_TYPE_UPDATED"
)

// EntityType identifies which collection an audit entry refers to.
type EntityType string

const (
	EntityDocument     EntityType = "document"
	EntityWorkflow     EntityType = "workflow_template"
	EntityDocumentType EntityType = "document_type"
)
