package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) WorkflowStatusCounts(ctx context.Context) ([]domain.StatusCountRow, error) {
	var rows []domain.StatusCountRow
	err := q(ctx, r.db).SelectContext(ctx, &rows,
		`SELECT workflow->>'status' AS status, COUNT(*) AS count
		 FROM documents
		 GROUP BY workflow->>'status'
		 ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.WorkflowStatusCounts: %w", err)
	}
	return rows, nil
}
