package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/internal/service"
)

// WorkflowHandler handles workflow template endpoints.
type WorkflowHandler struct {
	workflowService service.WorkflowService
}

// NewWorkflowHandler creates a new WorkflowHandler.
func NewWorkflowHandler(workflowService service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

// Create handles POST /api/v1/workflows
// @Summary Create a workflow template
// @Description Define a named approval pipeline; the step list is immutable after creation
// @Tags workflows
// @Accept json
// @Produce json
// @Param request body CreateWorkflowRequest true "Template definition"
// @Success 201 {object} Response{data=domain.WorkflowTemplate} "Template created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Security BearerAuth
// @Router /workflows [post]
func (h *WorkflowHandler) Create(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Steps       []struct {
			Label             string          `json:"label" binding:"required"`
			Description       string          `json:"description"`
			RequiredRole      domain.UserRole `json:"required_role" binding:"required"`
			SLAHours          int             `json:"sla_hours"`
			RequiresSignature bool            `json:"requires_signature"`
			SignatureMeaning  string          `json:"signature_meaning"`
		} `json:"steps" binding:"required,min=1"`
		ComplianceRefs []string `json:"compliance_refs"`
		IsDefault      bool     `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name and at least one step are required")
		return
	}

	steps := make([]service.StepDefinitionInput, len(req.Steps))
	for i, s := range req.Steps {
		steps[i] = service.StepDefinitionInput{
			Label:             s.Label,
			Description:       s.Description,
			RequiredRole:      s.RequiredRole,
			SLAHours:          s.SLAHours,
			RequiresSignature: s.RequiresSignature,
			SignatureMeaning:  s.SignatureMeaning,
		}
	}

	tpl, err := h.workflowService.Create(c.Request.Context(), &service.CreateWorkflowInput{
		Name:           req.Name,
		Description:    req.Description,
		Steps:          steps,
		ComplianceRefs: req.ComplianceRefs,
		IsDefault:      req.IsDefault,
		CreatedBy:      userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, tpl)
}

// GetByID handles GET /api/v1/workflows/:id
// @Summary Get workflow template by ID
// @Tags workflows
// @Produce json
// @Param id path string true "Template ID (UUID)"
// @Success 200 {object} Response{data=domain.WorkflowTemplate} "Template"
// @Failure 404 {object} ErrorResponseBody "Template not found"
// @Security BearerAuth
// @Router /workflows/{id} [get]
func (h *WorkflowHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid workflow template ID")
		return
	}

	tpl, err := h.workflowService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tpl)
}

// List handles GET /api/v1/workflows
// @Summary List workflow templates
// @Tags workflows
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} Response{data=[]domain.WorkflowTemplate} "Templates"
// @Security BearerAuth
// @Router /workflows [get]
func (h *WorkflowHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	tpls, total, err := h.workflowService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, tpls, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PATCH /api/v1/workflows/:id
// @Summary Update a workflow template
// @Description Update name, description, compliance refs, or the default flag; steps are immutable
// @Tags workflows
// @Accept json
// @Produce json
// @Param id path string true "Template ID (UUID)"
// @Param request body UpdateWorkflowRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.WorkflowTemplate} "Updated template"
// @Failure 404 {object} ErrorResponseBody "Template not found"
// @Security BearerAuth
// @Router /workflows/{id} [patch]
func (h *WorkflowHandler) Update(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid workflow template ID")
		return
	}

	var req struct {
		Name           *string  `json:"name"`
		Description    *string  `json:"description"`
		ComplianceRefs []string `json:"compliance_refs"`
		IsDefault      *bool    `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.workflowService.Update(c.Request.Context(), &service.UpdateWorkflowInput{
		TemplateID:     id,
		ActorID:        userID,
		Name:           req.Name,
		Description:    req.Description,
		ComplianceRefs: req.ComplianceRefs,
		IsDefault:      req.IsDefault,
	}); err != nil {
		HandleError(c, err)
		return
	}

	tpl, err := h.workflowService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tpl)
}
