package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/port"
	"veridoc/internal/service"
)

// DocumentHandler handles document registry and workflow transition endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
	engine          service.WorkflowEngine
	authService     service.AuthService
	maxUploadBytes  int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, engine service.WorkflowEngine, authService service.AuthService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		engine:          engine,
		authService:     authService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Create handles POST /api/v1/documents
// @Summary Create a document
// @Description Register a controlled document and attach a workflow instance
// @Tags documents
// @Accept json
// @Produce json
// @Param request body CreateDocumentRequest true "Document details"
// @Success 201 {object} Response{data=domain.DocumentRecord} "Document created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Document type not found"
// @Failure 422 {object} ErrorResponseBody "No workflow template available"
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		Title              string           `json:"title" binding:"required"`
		DocumentNumber     string           `json:"document_number" binding:"required"`
		DocumentTypeID     uuid.UUID        `json:"document_type_id" binding:"required"`
		WorkflowTemplateID *uuid.UUID       `json:"workflow_template_id"`
		Category           string           `json:"category"`
		SecurityClass      string           `json:"security_class"`
		ChangeControlID    string           `json:"change_control_id"`
		InitialVersion     string           `json:"initial_version"`
		ChangeSummary      string           `json:"change_summary"`
		Tags               []string         `json:"tags"`
		RiskClass          domain.RiskClass `json:"risk_class"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "title, document_number, and document_type_id are required")
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), &service.CreateDocumentInput{
		Title:              req.Title,
		DocumentNumber:     req.DocumentNumber,
		DocumentTypeID:     req.DocumentTypeID,
		WorkflowTemplateID: req.WorkflowTemplateID,
		Category:           req.Category,
		SecurityClass:      req.SecurityClass,
		ChangeControlID:    req.ChangeControlID,
		InitialVersion:     req.InitialVersion,
		ChangeSummary:      req.ChangeSummary,
		Tags:               req.Tags,
		RiskClass:          req.RiskClass,
		CreatedBy:          userID,
		CreatorRole:        role,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get document by ID
// @Description Get a document with its workflow instance and version history
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.DocumentRecord} "Document details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Description List documents filtered by type, workflow status, or tag
// @Tags documents
// @Produce json
// @Param document_type_id query string false "Filter by document type"
// @Param status query string false "Filter by workflow status"
// @Param tag query string false "Filter by tag"
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} Response{data=[]domain.DocumentRecord} "Documents"
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	var filter port.DocumentFilter
	if v := c.Query("document_type_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document type ID")
			return
		}
		filter.DocumentTypeID = &id
	}
	if v := c.Query("status"); v != "" {
		status := domain.WorkflowStatus(v)
		filter.Status = &status
	}
	if v := c.Query("tag"); v != "" {
		filter.Tag = v
	}

	docs, total, err := h.documentService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PATCH /api/v1/documents/:id
// @Summary Update document metadata
// @Description Partially update document metadata; workflow state is not touched
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body UpdateDocumentRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.DocumentRecord} "Updated document"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [patch]
func (h *DocumentHandler) Update(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	var req struct {
		Title           *string           `json:"title"`
		Category        *string           `json:"category"`
		SecurityClass   *string           `json:"security_class"`
		ChangeControlID *string           `json:"change_control_id"`
		DocumentTypeID  *uuid.UUID        `json:"document_type_id"`
		NextIssueDate   *time.Time        `json:"next_issue_date"`
		Tags            []string          `json:"tags"`
		RiskClass       *domain.RiskClass `json:"risk_class"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.documentService.Update(c.Request.Context(), &service.UpdateDocumentInput{
		DocumentID:      docID,
		ActorID:         userID,
		Title:           req.Title,
		Category:        req.Category,
		SecurityClass:   req.SecurityClass,
		ChangeControlID: req.ChangeControlID,
		DocumentTypeID:  req.DocumentTypeID,
		NextIssueDate:   req.NextIssueDate,
		Tags:            req.Tags,
		RiskClass:       req.RiskClass,
	}); err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// AddVersion handles POST /api/v1/documents/:id/versions
// @Summary Add a document version
// @Description Append a new version; the previous newest entry is superseded
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body AddVersionRequest true "Version details"
// @Success 200 {object} Response{data=domain.DocumentRecord} "Updated document"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/versions [post]
func (h *DocumentHandler) AddVersion(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	var req struct {
		Label         string `json:"label" binding:"required"`
		ChangeSummary string `json:"change_summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "label is required")
		return
	}

	if err := h.documentService.AddVersion(c.Request.Context(), &service.AddVersionInput{
		DocumentID:    docID,
		Label:         req.Label,
		ChangeSummary: req.ChangeSummary,
		ActorID:       userID,
	}); err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Advance handles POST /api/v1/documents/:id/advance
// @Summary Sign off the current workflow step
// @Description Reconfirm the caller's password, record an electronic signature, and advance the workflow
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body AdvanceRequest true "Sign-off details"
// @Success 200 {object} Response{data=domain.DocumentRecord} "Updated document"
// @Failure 401 {object} ErrorResponseBody "Password reconfirmation failed"
// @Failure 403 {object} ErrorResponseBody "Role does not match the current step"
// @Failure 409 {object} ErrorResponseBody "Workflow already complete"
// @Security BearerAuth
// @Router /documents/{id}/advance [post]
func (h *DocumentHandler) Advance(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
		Reason   string `json:"reason"`
		Meaning  string `json:"meaning"`
		Evidence string `json:"evidence"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "password is required")
		return
	}

	// Signing requires password reconfirmation even on a valid session.
	if err := h.authService.VerifyReentry(c.Request.Context(), userID, req.Password); err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.engine.Advance(c.Request.Context(), &service.AdvanceInput{
		DocumentID:        docID,
		ActorID:           userID,
		ActorRole:         role,
		Reason:            req.Reason,
		SignatureMeaning:  req.Meaning,
		SignatureEvidence: req.Evidence,
		Notes:             req.Notes,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Reject handles POST /api/v1/documents/:id/reject
// @Summary Reject the current workflow step
// @Description Reconfirm the caller's password and send the document back to the first step
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body RejectRequest true "Rejection details"
// @Success 200 {object} Response{data=domain.DocumentRecord} "Updated document"
// @Failure 401 {object} ErrorResponseBody "Password reconfirmation failed"
// @Failure 403 {object} ErrorResponseBody "Role does not match the current step"
// @Failure 409 {object} ErrorResponseBody "Workflow already complete"
// @Security BearerAuth
// @Router /documents/{id}/reject [post]
func (h *DocumentHandler) Reject(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
		Reason   string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "password and reason are required")
		return
	}

	if err := h.authService.VerifyReentry(c.Request.Context(), userID, req.Password); err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.engine.Reject(c.Request.Context(), &service.RejectInput{
		DocumentID: docID,
		ActorID:    userID,
		ActorRole:  role,
		Reason:     req.Reason,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// MarkEffective handles POST /api/v1/documents/:id/effective
// @Summary Mark a document effective
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.DocumentRecord} "Updated document"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/effective [post]
func (h *DocumentHandler) MarkEffective(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	if err := h.documentService.MarkEffective(c.Request.Context(), docID, userID); err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Archive handles POST /api/v1/documents/:id/archive
// @Summary Archive a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.DocumentRecord} "Updated document"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/archive [post]
func (h *DocumentHandler) Archive(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	if err := h.documentService.Archive(c.Request.Context(), docID, userID); err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// UploadAttachment handles POST /api/v1/documents/:id/attachments
// @Summary Upload an attachment
// @Description Attach a file to a document; the blob is stored in object storage
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param file formData file true "File to attach"
// @Success 201 {object} Response{data=domain.Attachment} "Attachment created"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /documents/{id}/attachments [post]
func (h *DocumentHandler) UploadAttachment(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file form field is required")
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	att, err := h.documentService.UploadAttachment(c.Request.Context(), &service.UploadAttachmentInput{
		DocumentID:  docID,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Body:        file,
		ActorID:     userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, att)
}

// DownloadAttachment handles GET /api/v1/documents/:id/attachments/:attachmentID
// @Summary Download an attachment
// @Tags documents
// @Produce application/octet-stream
// @Param id path string true "Document ID (UUID)"
// @Param attachmentID path string true "Attachment ID (UUID)"
// @Success 200 {file} binary "Attachment content"
// @Failure 404 {object} ErrorResponseBody "Attachment not found"
// @Security BearerAuth
// @Router /documents/{id}/attachments/{attachmentID} [get]
func (h *DocumentHandler) DownloadAttachment(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}
	attID, err := uuid.Parse(c.Param("attachmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid attachment ID")
		return
	}

	att, data, err := h.documentService.DownloadAttachment(c.Request.Context(), docID, attID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+att.FileName+`"`)
	c.Data(http.StatusOK, att.ContentType, data)
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
