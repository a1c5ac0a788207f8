package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO documents (
			id, title, document_number, current_version, document_type_id,
			category, security_class, issued_by, issuer_role,
			effective_date, issue_date, next_issue_date, change_control_id,
			workflow, version_history, tags, attachments, risk_class,
			created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21)`,
		doc.ID, doc.Title, doc.DocumentNumber, doc.CurrentVersion, doc.DocumentTypeID,
		doc.Category, doc.SecurityClass, doc.IssuedBy, doc.IssuerRole,
		doc.EffectiveDate, doc.IssueDate, doc.NextIssueDate, doc.ChangeControlID,
		doc.Workflow, doc.VersionHistory, doc.Tags, doc.Attachments, doc.RiskClass,
		doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	err := q(ctx, r.db).GetContext(ctx, &doc,
		`SELECT * FROM documents WHERE id = $1`, docID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, filter port.DocumentFilter, offset, limit int) ([]domain.DocumentRecord, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	i := 1
	if filter.DocumentTypeID != nil {
		where = append(where, fmt.Sprintf("document_type_id = $%d", i))
		args = append(args, *filter.DocumentTypeID)
		i++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("workflow->>'status' = $%d", i))
		args = append(args, string(*filter.Status))
		i++
	}
	if filter.Tag != "" {
		where = append(where, fmt.Sprintf("tags @> to_jsonb(ARRAY[$%d::text])", i))
		args = append(args, filter.Tag)
		i++
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := q(ctx, r.db).GetContext(ctx, &total,
		`SELECT COUNT(*) FROM documents WHERE `+cond, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	var docs []domain.DocumentRecord
	query := fmt.Sprintf(`SELECT * FROM documents WHERE %s
		 ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`, cond, i, i+1)
	args = append(args, limit, offset)
	err = q(ctx, r.db).SelectContext(ctx, &docs, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) Update(ctx context.Context, doc *domain.DocumentRecord) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE documents SET
			title = $2, document_number = $3, current_version = $4,
			document_type_id = $5, category = $6, security_class = $7,
			issued_by = $8, issuer_role = $9, effective_date = $10,
			issue_date = $11, next_issue_date = $12, change_control_id = $13,
			workflow = $14, version_history = $15, tags = $16,
			attachments = $17, risk_class = $18, updated_at = $19
		 WHERE id = $1`,
		doc.ID, doc.Title, doc.DocumentNumber, doc.CurrentVersion,
		doc.DocumentTypeID, doc.Category, doc.SecurityClass,
		doc.IssuedBy, doc.IssuerRole, doc.EffectiveDate,
		doc.IssueDate, doc.NextIssueDate, doc.ChangeControlID,
		doc.Workflow, doc.VersionHistory, doc.Tags,
		doc.Attachments, doc.RiskClass, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
