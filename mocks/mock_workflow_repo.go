package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"veridoc/internal/domain"
)

// MockWorkflowRepo is a mock implementation of port.WorkflowRepository.
type MockWorkflowRepo struct {
	mock.Mock
}

func (m *MockWorkflowRepo) Create(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockWorkflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowTemplate), args.Error(1)
}

func (m *MockWorkflowRepo) GetDefault(ctx context.Context) (*domain.WorkflowTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowTemplate), args.Error(1)
}

func (m *MockWorkflowRepo) List(ctx context.Context, offset, limit int) ([]domain.WorkflowTemplate, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.WorkflowTemplate), args.Int(1), args.Error(2)
}

func (m *MockWorkflowRepo) Update(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockWorkflowRepo) ClearDefault(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDocumentTypeRepo is a mock implementation of port.DocumentTypeRepository.
type MockDocumentTypeRepo struct {
	mock.Mock
}

func (m *MockDocumentTypeRepo) Create(ctx context.Context, dt *domain.DocumentType) error {
	args := m.Called(ctx, dt)
	return args.Error(0)
}

func (m *MockDocumentTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepo) GetByLabel(ctx context.Context, label domain.DocumentTypeLabel) (*domain.DocumentType, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepo) List(ctx context.Context, offset, limit int) ([]domain.DocumentType, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DocumentType), args.Int(1), args.Error(2)
}

func (m *MockDocumentTypeRepo) Update(ctx context.Context, dt *domain.DocumentType) error {
	args := m.Called(ctx, dt)
	return args.Error(0)
}
