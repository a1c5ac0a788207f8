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

type signatureRepo struct {
	db *sqlx.DB
}

// NewSignatureRepo creates a new PostgreSQL-backed SignatureRepository.
// The table has no UPDATE or DELETE path; signatures are append-only.
func NewSignatureRepo(db *sqlx.DB) port.SignatureRepository {
	return &signatureRepo{db: db}
}

func (r *signatureRepo) Create(ctx context.Context, sig *domain.ElectronicSignature) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO electronic_signatures
			(id, user_id, document_id, step_id, signed_at, meaning, reason, evidence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sig.ID, sig.UserID, sig.DocumentID, sig.StepID, sig.SignedAt,
		sig.Meaning, sig.Reason, sig.Evidence)
	if err != nil {
		return fmt.Errorf("signatureRepo.Create: %w", err)
	}
	return nil
}

func (r *signatureRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ElectronicSignature, error) {
	var sig domain.ElectronicSignature
	err := q(ctx, r.db).GetContext(ctx, &sig,
		`SELECT * FROM electronic_signatures WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("signatureRepo.GetByID: %w", err)
	}
	return &sig, nil
}

func (r *signatureRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.ElectronicSignature, error) {
	var sigs []domain.ElectronicSignature
	err := q(ctx, r.db).SelectContext(ctx, &sigs,
		`SELECT * FROM electronic_signatures WHERE document_id = $1 ORDER BY signed_at DESC`,
		documentID)
	if err != nil {
		return nil, fmt.Errorf("signatureRepo.ListByDocument: %w", err)
	}
	return sigs, nil
}
