package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

// MockAuditRepo is a mock implementation of port.AuditRepository.
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	args := m.Called(ctx, entityType, entityID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Int(1), args.Error(2)
}

func (m *MockAuditRepo) List(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Int(1), args.Error(2)
}

// MockSignatureRepo is a mock implementation of port.SignatureRepository.
type MockSignatureRepo struct {
	mock.Mock
}

func (m *MockSignatureRepo) Create(ctx context.Context, sig *domain.ElectronicSignature) error {
	args := m.Called(ctx, sig)
	return args.Error(0)
}

func (m *MockSignatureRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ElectronicSignature, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ElectronicSignature), args.Error(1)
}

func (m *MockSignatureRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.ElectronicSignature, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ElectronicSignature), args.Error(1)
}
