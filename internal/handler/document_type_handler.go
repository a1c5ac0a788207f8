package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/service"
)

// DocumentTypeHandler handles document type taxonomy endpoints.
type DocumentTypeHandler struct {
	typeService service.DocumentTypeService
}

// NewDocumentTypeHandler creates a new DocumentTypeHandler.
func NewDocumentTypeHandler(typeService service.DocumentTypeService) *DocumentTypeHandler {
	return &DocumentTypeHandler{typeService: typeService}
}

// Create handles POST /api/v1/document-types
// @Summary Create a document type
// @Tags document-types
// @Accept json
// @Produce json
// @Param request body CreateDocumentTypeRequest true "Type definition"
// @Success 201 {object} Response{data=domain.DocumentType} "Type created"
// @Failure 400 {object} ErrorResponseBody "Invalid label"
// @Failure 409 {object} ErrorResponseBody "Label already exists"
// @Security BearerAuth
// @Router /document-types [post]
func (h *DocumentTypeHandler) Create(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		Label       domain.DocumentTypeLabel `json:"label" binding:"required"`
		Description string                   `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "label is required")
		return
	}

	dt, err := h.typeService.Create(c.Request.Context(), &service.CreateDocumentTypeInput{
		Label:       req.Label,
		Description: req.Description,
		CreatedBy:   userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, dt)
}

// GetByID handles GET /api/v1/document-types/:id
// @Summary Get document type by ID
// @Tags document-types
// @Produce json
// @Param id path string true "Type ID (UUID)"
// @Success 200 {object} Response{data=domain.DocumentType} "Type"
// @Failure 404 {object} ErrorResponseBody "Type not found"
// @Security BearerAuth
// @Router /document-types/{id} [get]
func (h *DocumentTypeHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document type ID")
		return
	}

	dt, err := h.typeService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, dt)
}

// List handles GET /api/v1/document-types
// @Summary List document types
// @Tags document-types
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} Response{data=[]domain.DocumentType} "Types"
// @Security BearerAuth
// @Router /document-types [get]
func (h *DocumentTypeHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	types, total, err := h.typeService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, types, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PATCH /api/v1/document-types/:id
// @Summary Update a document type
// @Description Update description or obsolete flag; the label is fixed
// @Tags document-types
// @Accept json
// @Produce json
// @Param id path string true "Type ID (UUID)"
// @Param request body UpdateDocumentTypeRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.DocumentType} "Updated type"
// @Failure 404 {object} ErrorResponseBody "Type not found"
// @Security BearerAuth
// @Router /document-types/{id} [patch]
func (h *DocumentTypeHandler) Update(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document type ID")
		return
	}

	var req struct {
		Description *string `json:"description"`
		IsObsolete  *bool   `json:"is_obsolete"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.typeService.Update(c.Request.Context(), &service.UpdateDocumentTypeInput{
		TypeID:      id,
		ActorID:     userID,
		Description: req.Description,
		IsObsolete:  req.IsObsolete,
	}); err != nil {
		HandleError(c, err)
		return
	}

	dt, err := h.typeService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, dt)
}
