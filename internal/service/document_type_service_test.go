package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/domain"
	"veridoc/internal/repository/memory"
	"veridoc/internal/service"
)

func TestDocumentTypeService_Create(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewDocumentTypeService(store.DocumentTypes(), store.Audit(), store)
	ctx := context.Background()

	dt, err := svc.Create(ctx, &service.CreateDocumentTypeInput{
		Label:       domain.TypePolicy,
		Description: "Corporate policies",
		CreatedBy:   uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TypePolicy, dt.Label)
	assert.False(t, dt.IsObsolete)

	entries, total, err := store.Audit().ListByEntity(ctx, domain.EntityDocumentType, dt.ID, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, domain.AuditDocumentTypeCreated, entries[0].Action)
}

func TestDocumentTypeService_Create_UnknownLabel(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewDocumentTypeService(store.DocumentTypes(), store.Audit(), store)

	_, err := svc.Create(context.Background(), &service.CreateDocumentTypeInput{
		Label:     domain.DocumentTypeLabel("memo"),
		CreatedBy: uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestDocumentTypeService_Create_DuplicateLabel(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewDocumentTypeService(store.DocumentTypes(), store.Audit(), store)
	ctx := context.Background()

	_, err := svc.Create(ctx, &service.CreateDocumentTypeInput{Label: domain.TypeForm, CreatedBy: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &service.CreateDocumentTypeInput{Label: domain.TypeForm, CreatedBy: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrDuplicateTypeLabel)
}

func TestDocumentTypeService_Update_MarkObsolete(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewDocumentTypeService(store.DocumentTypes(), store.Audit(), store)
	ctx := context.Background()

	dt, err := svc.Create(ctx, &service.CreateDocumentTypeInput{
		Label:       domain.TypeProtocol,
		Description: "Validation protocols",
		CreatedBy:   uuid.New(),
	})
	require.NoError(t, err)

	obsolete := true
	desc := "Superseded by the new protocol template"
	require.NoError(t, svc.Update(ctx, &service.UpdateDocumentTypeInput{
		TypeID:      dt.ID,
		ActorID:     uuid.New(),
		Description: &desc,
		IsObsolete:  &obsolete,
	}))

	got, err := svc.GetByID(ctx, dt.ID)
	require.NoError(t, err)
	assert.True(t, got.IsObsolete)
	assert.Equal(t, desc, got.Description)
	assert.Equal(t, domain.TypeProtocol, got.Label, "label is immutable")
}
