package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"veridoc/internal/domain"
	"veridoc/internal/export"
	"veridoc/internal/port"
	"veridoc/internal/service"
)

// ReportHandler handles reporting and export endpoints.
type ReportHandler struct {
	reportService   service.ReportService
	documentService service.DocumentService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, documentService service.DocumentService) *ReportHandler {
	return &ReportHandler{reportService: reportService, documentService: documentService}
}

// StatusCounts handles GET /api/v1/reports/status-counts
// @Summary Workflow status summary
// @Description Count documents grouped by workflow status
// @Tags reports
// @Produce json
// @Success 200 {object} Response{data=[]domain.StatusCountRow} "Status counts"
// @Security BearerAuth
// @Router /reports/status-counts [get]
func (h *ReportHandler) StatusCounts(c *gin.Context) {
	rows, err := h.reportService.WorkflowStatusCounts(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rows)
}

// exportPageSize bounds how many documents one register export fetch pulls.
const exportPageSize = 500

// ExportRegister handles GET /api/v1/reports/register.csv
// @Summary Export the document register
// @Description Stream the document register as CSV, one row per document
// @Tags reports
// @Produce text/csv
// @Param status query string false "Filter by workflow status"
// @Success 200 {file} binary "CSV content"
// @Security BearerAuth
// @Router /reports/register.csv [get]
func (h *ReportHandler) ExportRegister(c *gin.Context) {
	var filter port.DocumentFilter
	if v := c.Query("status"); v != "" {
		status := domain.WorkflowStatus(v)
		filter.Status = &status
	}

	filename := export.BuildFilename("document_register", "csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if _, err := c.Writer.Write(export.BOM); err != nil {
		return
	}

	w := export.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}

	offset := 0
	for {
		docs, total, err := h.documentService.List(c.Request.Context(), filter, offset, exportPageSize)
		if err != nil {
			// Headers already sent; abort mid-stream.
			c.Status(http.StatusInternalServerError)
			return
		}
		if err := w.WriteDocuments(docs); err != nil {
			return
		}

		offset += len(docs)
		if offset >= total || len(docs) == 0 {
			break
		}
	}

	w.Flush()
}

// ExportAuditXLSX handles GET /api/v1/reports/audit.xlsx
// @Summary Export the audit trail
// @Description Render the matching audit entries as an Excel workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param entity_type query string false "Filter by entity type"
// @Param entity_id query string false "Filter by entity ID"
// @Param action query string false "Filter by action code"
// @Param actor_id query string false "Filter by actor"
// @Param from query string false "Start of time range (RFC3339)"
// @Param to query string false "End of time range (RFC3339)"
// @Success 200 {file} binary "Workbook content"
// @Security BearerAuth
// @Router /reports/audit.xlsx [get]
func (h *ReportHandler) ExportAuditXLSX(c *gin.Context) {
	filter, ok := parseAuditFilter(c)
	if !ok {
		return
	}

	data, err := h.reportService.AuditTrailXLSX(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("audit_trail", "xlsx")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
