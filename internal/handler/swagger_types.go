package handler

import (
	"time"

	"github.com/google/uuid"

	"veridoc/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"qa.lead@example.com"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateDocumentRequest represents the create document request body.
type CreateDocumentRequest struct {
	Title              string           `json:"title" binding:"required" example:"Equipment Cleaning Procedure"`
	DocumentNumber     string           `json:"document_number" binding:"required" example:"SOP-001"`
	DocumentTypeID     uuid.UUID        `json:"document_type_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	WorkflowTemplateID *uuid.UUID       `json:"workflow_template_id" example:"660e8400-e29b-41d4-a716-446655440001"`
	Category           string           `json:"category" example:"production"`
	SecurityClass      string           `json:"security_class" example:"internal"`
	ChangeControlID    string           `json:"change_control_id" example:"CC-2024-015"`
	InitialVersion     string           `json:"initial_version" example:"1.0"`
	ChangeSummary      string           `json:"change_summary" example:"Initial issue"`
	Tags               []string         `json:"tags" example:"cleaning,equipment"`
	RiskClass          domain.RiskClass `json:"risk_class" example:"medium"`
}

// UpdateDocumentRequest represents the update document request body.
type UpdateDocumentRequest struct {
	Title           *string           `json:"title" example:"Equipment Cleaning Procedure (Rev B)"`
	Category        *string           `json:"category" example:"production"`
	SecurityClass   *string           `json:"security_class" example:"confidential"`
	ChangeControlID *string           `json:"change_control_id" example:"CC-2024-019"`
	DocumentTypeID  *uuid.UUID        `json:"document_type_id"`
	NextIssueDate   *time.Time        `json:"next_issue_date"`
	Tags            []string          `json:"tags"`
	RiskClass       *domain.RiskClass `json:"risk_class" example:"high"`
}

// AddVersionRequest represents the add version request body.
type AddVersionRequest struct {
	Label         string `json:"label" binding:"required" example:"2.0"`
	ChangeSummary string `json:"change_summary" example:"Updated rinse cycle timings"`
}

// AdvanceRequest represents the workflow sign-off request body.
type AdvanceRequest struct {
	Password string `json:"password" binding:"required" example:"securepassword123"`
	Reason   string `json:"reason" example:"Reviewed against change control CC-2024-015"`
	Meaning  string `json:"meaning" example:"Technical review electronically approved"`
	Evidence string `json:"evidence" example:"password"`
	Notes    string `json:"notes" example:"No findings"`
}

// RejectRequest represents the workflow rejection request body.
type RejectRequest struct {
	Password string `json:"password" binding:"required" example:"securepassword123"`
	Reason   string `json:"reason" binding:"required" example:"Section 4.2 references an obsolete form"`
}

// WorkflowStepRequest represents one step in a create workflow request.
type WorkflowStepRequest struct {
	Label             string          `json:"label" binding:"required" example:"Technical Review"`
	Description       string          `json:"description" example:"Peer review by a subject matter expert"`
	RequiredRole      domain.UserRole `json:"required_role" binding:"required" example:"reviewer"`
	SLAHours          int             `json:"sla_hours" example:"48"`
	RequiresSignature bool            `json:"requires_signature" example:"true"`
	SignatureMeaning  string          `json:"signature_meaning" example:"Technical review electronically approved"`
}

// CreateWorkflowRequest represents the create workflow template request body.
type CreateWorkflowRequest struct {
	Name           string                `json:"name" binding:"required" example:"Standard SOP Approval"`
	Description    string                `json:"description" example:"Review, QA verification, final approval"`
	Steps          []WorkflowStepRequest `json:"steps" binding:"required"`
	ComplianceRefs []string              `json:"compliance_refs" example:"21 CFR Part 11,ISO 13485"`
	IsDefault      bool                  `json:"is_default" example:"true"`
}

// UpdateWorkflowRequest represents the update workflow template request body.
type UpdateWorkflowRequest struct {
	Name           *string  `json:"name" example:"Standard SOP Approval v2"`
	Description    *string  `json:"description"`
	ComplianceRefs []string `json:"compliance_refs"`
	IsDefault      *bool    `json:"is_default" example:"false"`
}

// CreateDocumentTypeRequest represents the create document type request body.
type CreateDocumentTypeRequest struct {
	Label       domain.DocumentTypeLabel `json:"label" binding:"required" example:"sop"`
	Description string                   `json:"description" example:"Standard operating procedures"`
}

// UpdateDocumentTypeRequest represents the update document type request body.
type UpdateDocumentTypeRequest struct {
	Description *string `json:"description" example:"Standard operating procedures (production)"`
	IsObsolete  *bool   `json:"is_obsolete" example:"false"`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required" example:"reviewer@example.com"`
	Password string          `json:"password" binding:"required" example:"securepassword123"`
	FullName string          `json:"full_name" binding:"required" example:"Jordan Smith"`
	Role     domain.UserRole `json:"role" binding:"required" example:"reviewer"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Email    *string          `json:"email"`
	FullName *string          `json:"full_name"`
	Role     *domain.UserRole `json:"role" example:"approver"`
	IsActive *bool            `json:"is_active" example:"true"`
}

// --- Response Types ---

// Response wraps a success response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
