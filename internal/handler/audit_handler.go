package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/port"
	"veridoc/internal/service"
)

// AuditHandler handles audit ledger and electronic signature endpoints.
type AuditHandler struct {
	auditService service.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// parseAuditFilter builds an AuditFilter from query parameters. Returns false
// when a parameter is malformed (error response already written).
func parseAuditFilter(c *gin.Context) (port.AuditFilter, bool) {
	var filter port.AuditFilter

	if v := c.Query("entity_type"); v != "" {
		et := domain.EntityType(v)
		filter.EntityType = &et
	}
	if v := c.Query("entity_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid entity_id")
			return filter, false
		}
		filter.EntityID = &id
	}
	if v := c.Query("action"); v != "" {
		action := domain.AuditAction(v)
		filter.Action = &action
	}
	if v := c.Query("actor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid actor_id")
			return filter, false
		}
		filter.ActorID = &id
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "from must be RFC3339")
			return filter, false
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "to must be RFC3339")
			return filter, false
		}
		filter.To = &t
	}

	return filter, true
}

// List handles GET /api/v1/audit
// @Summary Query the audit ledger
// @Description List audit entries newest-first, filtered by entity, action, actor, or time range
// @Tags audit
// @Produce json
// @Param entity_type query string false "Filter by entity type"
// @Param entity_id query string false "Filter by entity ID"
// @Param action query string false "Filter by action code"
// @Param actor_id query string false "Filter by actor"
// @Param from query string false "Start of time range (RFC3339)"
// @Param to query string false "End of time range (RFC3339)"
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} Response{data=[]domain.AuditLogEntry} "Audit entries"
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	filter, ok := parseAuditFilter(c)
	if !ok {
		return
	}

	entries, total, err := h.auditService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListByDocument handles GET /api/v1/documents/:id/audit
// @Summary Document audit trail
// @Description List audit entries for one document, newest-first
// @Tags audit
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} Response{data=[]domain.AuditLogEntry} "Audit entries"
// @Security BearerAuth
// @Router /documents/{id}/audit [get]
func (h *AuditHandler) ListByDocument(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	offset, limit := parsePagination(c)

	entries, total, err := h.auditService.ListByEntity(c.Request.Context(), domain.EntityDocument, docID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListSignatures handles GET /api/v1/documents/:id/signatures
// @Summary Document signatures
// @Description List the electronic signatures recorded for a document, newest-first
// @Tags audit
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=[]domain.ElectronicSignature} "Signatures"
// @Security BearerAuth
// @Router /documents/{id}/signatures [get]
func (h *AuditHandler) ListSignatures(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	sigs, err := h.auditService.ListSignaturesByDocument(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sigs)
}

// GetSignature handles GET /api/v1/signatures/:id
// @Summary Get a signature by ID
// @Tags audit
// @Produce json
// @Param id path string true "Signature ID (UUID)"
// @Success 200 {object} Response{data=domain.ElectronicSignature} "Signature"
// @Failure 404 {object} ErrorResponseBody "Signature not found"
// @Security BearerAuth
// @Router /signatures/{id} [get]
func (h *AuditHandler) GetSignature(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid signature ID")
		return
	}

	sig, err := h.auditService.GetSignature(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sig)
}
