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

func newWorkflowService(store *memory.Store) service.WorkflowService {
	return service.NewWorkflowService(store.Workflows(), store.Audit(), store)
}

func reviewSteps() []service.StepDefinitionInput {
	return []service.StepDefinitionInput{
		{Label: "Technical Review", RequiredRole: domain.RoleReviewer, SLAHours: 48, RequiresSignature: true},
		{Label: "Final Approval", RequiredRole: domain.RoleApprover, SLAHours: 72, RequiresSignature: true},
	}
}

func TestWorkflowService_Create_FillsSignatureMeaning(t *testing.T) {
	store := memory.NewStore()
	svc := newWorkflowService(store)

	steps := reviewSteps()
	steps[1].SignatureMeaning = "Approved for release"

	tpl, err := svc.Create(context.Background(), &service.CreateWorkflowInput{
		Name:           "Standard Review and Approval",
		Steps:          steps,
		ComplianceRefs: []string{"21 CFR Part 11"},
		CreatedBy:      uuid.New(),
	})
	require.NoError(t, err)
	require.Len(t, tpl.Steps, 2)
	assert.Equal(t, "Technical Review electronically approved", tpl.Steps[0].SignatureMeaning)
	assert.Equal(t, "Approved for release", tpl.Steps[1].SignatureMeaning)
	assert.NotEqual(t, uuid.Nil, tpl.Steps[0].ID)
	assert.Equal(t, domain.StringList{"21 CFR Part 11"}, tpl.ComplianceRefs)
}

func TestWorkflowService_Create_Validation(t *testing.T) {
	store := memory.NewStore()
	svc := newWorkflowService(store)
	ctx := context.Background()

	t.Run("no steps", func(t *testing.T) {
		_, err := svc.Create(ctx, &service.CreateWorkflowInput{Name: "Empty", CreatedBy: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("blank step label", func(t *testing.T) {
		steps := reviewSteps()
		steps[0].Label = ""
		_, err := svc.Create(ctx, &service.CreateWorkflowInput{Name: "Bad", Steps: steps, CreatedBy: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("unknown role", func(t *testing.T) {
		steps := reviewSteps()
		steps[0].RequiredRole = domain.UserRole("janitor")
		_, err := svc.Create(ctx, &service.CreateWorkflowInput{Name: "Bad", Steps: steps, CreatedBy: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})
}

func TestWorkflowService_Create_AtMostOneDefault(t *testing.T) {
	store := memory.NewStore()
	svc := newWorkflowService(store)
	ctx := context.Background()

	first, err := svc.Create(ctx, &service.CreateWorkflowInput{
		Name:      "First Default",
		Steps:     reviewSteps(),
		IsDefault: true,
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, &service.CreateWorkflowInput{
		Name:      "Second Default",
		Steps:     reviewSteps(),
		IsDefault: true,
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)

	def, err := store.Workflows().GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	demoted, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsDefault)
}

func TestWorkflowService_Update_PromoteToDefault(t *testing.T) {
	store := memory.NewStore()
	svc := newWorkflowService(store)
	ctx := context.Background()

	def, err := svc.Create(ctx, &service.CreateWorkflowInput{
		Name:      "Old Default",
		Steps:     reviewSteps(),
		IsDefault: true,
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)

	other, err := svc.Create(ctx, &service.CreateWorkflowInput{
		Name:      "Challenger",
		Steps:     reviewSteps(),
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)

	makeDefault := true
	name := "Challenger v2"
	require.NoError(t, svc.Update(ctx, &service.UpdateWorkflowInput{
		TemplateID: other.ID,
		ActorID:    uuid.New(),
		Name:       &name,
		IsDefault:  &makeDefault,
	}))

	got, err := store.Workflows().GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)
	assert.Equal(t, "Challenger v2", got.Name)

	old, err := svc.GetByID(ctx, def.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)
}

func TestWorkflowService_Update_NotFound(t *testing.T) {
	store := memory.NewStore()
	svc := newWorkflowService(store)

	name := "ghost"
	err := svc.Update(context.Background(), &service.UpdateWorkflowInput{
		TemplateID: uuid.New(),
		ActorID:    uuid.New(),
		Name:       &name,
	})
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
}
