package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

type auditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo creates a new PostgreSQL-backed AuditRepository. The ledger is
// append-only: no UPDATE or DELETE statement exists against this table.
func NewAuditRepo(db *sqlx.DB) port.AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO audit_log
			(id, actor_id, action, entity_type, entity_id, summary, metadata, compliance_refs, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID,
		entry.Summary, entry.Metadata, entry.ComplianceRefs, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("auditRepo.Create: %w", err)
	}
	return nil
}

func (r *auditRepo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	et := entityType
	return r.List(ctx, port.AuditFilter{EntityType: &et, EntityID: &entityID}, offset, limit)
}

func (r *auditRepo) List(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	i := 1
	add := func(cond string, val interface{}) {
		where = append(where, fmt.Sprintf(cond, i))
		args = append(args, val)
		i++
	}
	if filter.EntityType != nil {
		add("entity_type = $%d", *filter.EntityType)
	}
	if filter.EntityID != nil {
		add("entity_id = $%d", *filter.EntityID)
	}
	if filter.Action != nil {
		add("action = $%d", *filter.Action)
	}
	if filter.ActorID != nil {
		add("actor_id = $%d", *filter.ActorID)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= $%d", *filter.To)
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := q(ctx, r.db).GetContext(ctx, &total,
		`SELECT COUNT(*) FROM audit_log WHERE `+cond, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("auditRepo.List count: %w", err)
	}

	var entries []domain.AuditLogEntry
	query := fmt.Sprintf(`SELECT * FROM audit_log WHERE %s
		 ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, cond, i, i+1)
	args = append(args, limit, offset)
	err = q(ctx, r.db).SelectContext(ctx, &entries, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("auditRepo.List: %w", err)
	}
	return entries, total, nil
}
