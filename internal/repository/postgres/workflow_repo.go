package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

type workflowRepo struct {
	db *sqlx.DB
}

// NewWorkflowRepo creates a new PostgreSQL-backed WorkflowRepository.
func NewWorkflowRepo(db *sqlx.DB) port.WorkflowRepository {
	return &workflowRepo{db: db}
}

func (r *workflowRepo) Create(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO workflow_templates
			(id, name, description, steps, compliance_refs, is_default, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tpl.ID, tpl.Name, tpl.Description, tpl.Steps, tpl.ComplianceRefs,
		tpl.IsDefault, tpl.CreatedBy, tpl.CreatedAt)
	if err != nil {
		return fmt.Errorf("workflowRepo.Create: %w", err)
	}
	return nil
}

func (r *workflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowTemplate, error) {
	var tpl domain.WorkflowTemplate
	err := q(ctx, r.db).GetContext(ctx, &tpl,
		`SELECT * FROM workflow_templates WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("workflowRepo.GetByID: %w", err)
	}
	return &tpl, nil
}

func (r *workflowRepo) GetDefault(ctx context.Context) (*domain.WorkflowTemplate, error) {
	var tpl domain.WorkflowTemplate
	err := q(ctx, r.db).GetContext(ctx, &tpl,
		`SELECT * FROM workflow_templates WHERE is_default = true LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("workflowRepo.GetDefault: %w", err)
	}
	return &tpl, nil
}

func (r *workflowRepo) List(ctx context.Context, offset, limit int) ([]domain.WorkflowTemplate, int, error) {
	var total int
	err := q(ctx, r.db).GetContext(ctx, &total, `SELECT COUNT(*) FROM workflow_templates`)
	if err != nil {
		return nil, 0, fmt.Errorf("workflowRepo.List count: %w", err)
	}

	var tpls []domain.WorkflowTemplate
	err = q(ctx, r.db).SelectContext(ctx, &tpls,
		`SELECT * FROM workflow_templates ORDER BY created_at ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("workflowRepo.List: %w", err)
	}
	return tpls, total, nil
}

func (r *workflowRepo) Update(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE workflow_templates SET
			name = $2, description = $3, compliance_refs = $4, is_default = $5
		 WHERE id = $1`,
		tpl.ID, tpl.Name, tpl.Description, tpl.ComplianceRefs, tpl.IsDefault)
	if err != nil {
		return fmt.Errorf("workflowRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrWorkflowNotFound
	}
	return nil
}

func (r *workflowRepo) ClearDefault(ctx context.Context) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE workflow_templates SET is_default = false WHERE is_default = true`)
	if err != nil {
		return fmt.Errorf("workflowRepo.ClearDefault: %w", err)
	}
	return nil
}
