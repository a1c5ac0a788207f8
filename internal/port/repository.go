package port

import (
	"context"

	"github.com/google/uuid"

	"veridoc/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// ReportRepository provides aggregate queries for reporting.
type ReportRepository interface {
	WorkflowStatusCounts(ctx context.Context) ([]domain.StatusCountRow, error)
}

// Transactor runs a function inside a single storage transaction. Every
// repository call made with the context passed to fn joins that transaction;
// if fn returns an error nothing is committed.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
