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

type documentTypeRepo struct {
	db *sqlx.DB
}

// NewDocumentTypeRepo creates a new PostgreSQL-backed DocumentTypeRepository.
func NewDocumentTypeRepo(db *sqlx.DB) port.DocumentTypeRepository {
	return &documentTypeRepo{db: db}
}

func (r *documentTypeRepo) Create(ctx context.Context, dt *domain.DocumentType) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO document_types
			(id, label, description, is_obsolete, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		dt.ID, dt.Label, dt.Description, dt.IsObsolete, dt.CreatedBy, dt.CreatedAt, dt.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateTypeLabel
		}
		return fmt.Errorf("documentTypeRepo.Create: %w", err)
	}
	return nil
}

func (r *documentTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error) {
	var dt domain.DocumentType
	err := q(ctx, r.db).GetContext(ctx, &dt,
		`SELECT * FROM document_types WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("documentTypeRepo.GetByID: %w", err)
	}
	return &dt, nil
}

func (r *documentTypeRepo) GetByLabel(ctx context.Context, label domain.DocumentTypeLabel) (*domain.DocumentType, error) {
	var dt domain.DocumentType
	err := q(ctx, r.db).GetContext(ctx, &dt,
		`SELECT * FROM document_types WHERE label = $1`, label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("documentTypeRepo.GetByLabel: %w", err)
	}
	return &dt, nil
}

func (r *documentTypeRepo) List(ctx context.Context, offset, limit int) ([]domain.DocumentType, int, error) {
	var total int
	err := q(ctx, r.db).GetContext(ctx, &total, `SELECT COUNT(*) FROM document_types`)
	if err != nil {
		return nil, 0, fmt.Errorf("documentTypeRepo.List count: %w", err)
	}

	var types []domain.DocumentType
	err = q(ctx, r.db).SelectContext(ctx, &types,
		`SELECT * FROM document_types ORDER BY label ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentTypeRepo.List: %w", err)
	}
	return types, total, nil
}

func (r *documentTypeRepo) Update(ctx context.Context, dt *domain.DocumentType) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE document_types SET description = $2, is_obsolete = $3, updated_at = $4
		 WHERE id = $1`,
		dt.ID, dt.Description, dt.IsObsolete, dt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentTypeRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDocumentTypeNotFound
	}
	return nil
}
