package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

// ReportService provides aggregate reporting over documents and the audit
// ledger.
type ReportService interface {
	WorkflowStatusCounts(ctx context.Context) ([]domain.StatusCountRow, error)
	AuditTrailXLSX(ctx context.Context, filter port.AuditFilter) ([]byte, error)
}

type reportService struct {
	reportRepo port.ReportRepository
	auditRepo  port.AuditRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(reportRepo port.ReportRepository, auditRepo port.AuditRepository) ReportService {
	return &reportService{reportRepo: reportRepo, auditRepo: auditRepo}
}

func (s *reportService) WorkflowStatusCounts(ctx context.Context) ([]domain.StatusCountRow, error) {
	return s.reportRepo.WorkflowStatusCounts(ctx)
}

// auditExportPageSize bounds how many ledger rows one export fetch pulls.
const auditExportPageSize = 500

// AuditTrailXLSX renders the matching audit ledger entries as an Excel
// workbook, newest first, one row per entry.
func (s *reportService) AuditTrailXLSX(ctx context.Context, filter port.AuditFilter) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Audit Trail"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Timestamp (UTC)", "Actor", "Action", "Entity Type", "Entity ID", "Summary", "Compliance Refs", "Metadata"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	rowIdx := 2
	offset := 0
	for {
		entries, total, err := s.auditRepo.List(ctx, filter, offset, auditExportPageSize)
		if err != nil {
			return nil, fmt.Errorf("listing audit entries: %w", err)
		}

		for i := range entries {
			e := &entries[i]
			values := []interface{}{
				e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
				e.ActorID.String(),
				string(e.Action),
				string(e.EntityType),
				e.EntityID.String(),
				e.Summary,
				joinRefs(e.ComplianceRefs),
				string(e.Metadata),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
			rowIdx++
		}

		offset += len(entries)
		if offset >= total || len(entries) == 0 {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func joinRefs(refs domain.StringList) string {
	out := ""
	for i, r := range refs {
		if i > 0 {
			out += ", "
		}
		out += r
	}
	return out
}
