package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserInactive         = errors.New("user is inactive")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrWorkflowNotFound     = errors.New("workflow template not found")
	ErrDocumentTypeNotFound = errors.New("document type not found")
	ErrNoWorkflowAvailable  = errors.New("no workflow template available")
	ErrRoleMismatch         = errors.New("actor role does not match required step role")
	ErrWorkflowComplete     = errors.New("workflow already complete")
	ErrDocumentArchived     = errors.New("document is archived")
	ErrTemplateMissing      = errors.New("document references a missing workflow template")
	ErrDuplicateTypeLabel   = errors.New("document type label already exists")
	ErrValidationFailed     = errors.New("validation failed")
	ErrAttachmentNotFound   = errors.New("attachment not found")
)
