package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"veridoc/internal/domain"
	"veridoc/internal/port"
	"veridoc/internal/repository/memory"
	"veridoc/internal/service"
	"veridoc/mocks"
)

type engineFixture struct {
	store  *memory.Store
	docs   service.DocumentService
	engine service.WorkflowEngine
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	store := memory.NewStore()
	locks := service.NewDocumentLocks()
	docs := service.NewDocumentService(
		store.Documents(), store.DocumentTypes(), store.Workflows(),
		store.Audit(), nil, "", store, locks,
	)
	engine := service.NewWorkflowEngine(
		store.Documents(), store.Workflows(), store.Signatures(),
		store.Audit(), store.Users(), store, locks, nil,
	)
	return &engineFixture{store: store, docs: docs, engine: engine}
}

func seedTemplate(t *testing.T, store *memory.Store, isDefault bool) *domain.WorkflowTemplate {
	t.Helper()
	tpl := &domain.WorkflowTemplate{
		ID:   uuid.New(),
		Name: "Review and Approval",
		Steps: domain.StepDefinitions{
			{
				ID:                uuid.New(),
				Label:             "Technical Review",
				RequiredRole:      domain.RoleReviewer,
				SLAHours:          48,
				RequiresSignature: true,
				SignatureMeaning:  "Technical Review electronically approved",
			},
			{
				ID:                uuid.New(),
				Label:             "Final Approval",
				RequiredRole:      domain.RoleApprover,
				SLAHours:          72,
				RequiresSignature: true,
				SignatureMeaning:  "Final Approval electronically approved",
			},
		},
		IsDefault: isDefault,
		CreatedBy: uuid.New(),
	}
	require.NoError(t, store.Workflows().Create(context.Background(), tpl))
	return tpl
}

func seedDocumentType(t *testing.T, store *memory.Store) *domain.DocumentType {
	t.Helper()
	if existing, err := store.DocumentTypes().GetByLabel(context.Background(), domain.TypeSOP); err == nil {
		return existing
	}
	dt := &domain.DocumentType{
		ID:        uuid.New(),
		Label:     domain.TypeSOP,
		CreatedBy: uuid.New(),
	}
	require.NoError(t, store.DocumentTypes().Create(context.Background(), dt))
	return dt
}

func seedDocument(t *testing.T, f *engineFixture, tplID uuid.UUID) *domain.DocumentRecord {
	t.Helper()
	dt := seedDocumentType(t, f.store)
	doc, err := f.docs.Create(context.Background(), &service.CreateDocumentInput{
		Title:          "Equipment Cleaning Procedure",
		DocumentNumber: "SOP-001",
		DocumentTypeID: dt.ID,
		WorkflowTemplateID: func() *uuid.UUID {
			id := tplID
			return &id
		}(),
		RiskClass: domain.RiskMedium,
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)
	return doc
}

func TestWorkflowEngine_Advance_ToCompletion(t *testing.T) {
	f := newEngineFixture(t)
	tpl := seedTemplate(t, f.store, false)
	doc := seedDocument(t, f, tpl.ID)
	ctx := context.Background()

	reviewer := uuid.New()
	updated, err := f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    reviewer,
		ActorRole:  domain.RoleReviewer,
		Reason:     "content verified",
		Notes:      "no findings",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Workflow.CurrentStepIndex)
	assert.Equal(t, domain.StatusInReview, updated.Workflow.Status)
	assert.Equal(t, domain.StepCompleted, updated.Workflow.Steps[0].Status)
	assert.Equal(t, "no findings", updated.Workflow.Steps[0].Notes)
	require.NotNil(t, updated.Workflow.Steps[0].SignatureID)
	assert.Equal(t, domain.StepInProgress, updated.Workflow.Steps[1].Status)
	require.NotNil(t, updated.Workflow.Steps[1].StartedAt)

	approver := uuid.New()
	updated, err = f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    approver,
		ActorRole:  domain.RoleApprover,
		Reason:     "release approved",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Workflow.Status)
	assert.Equal(t, len(updated.Workflow.Steps), updated.Workflow.CurrentStepIndex)
	assert.Nil(t, updated.Workflow.CurrentStep())

	sigs, err := f.store.Signatures().ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, sigs, 2)

	entries, total, err := f.store.Audit().ListByEntity(ctx, domain.EntityDocument, doc.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	actions := make([]domain.AuditAction, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, domain.AuditDocumentCreated)
	assert.Contains(t, actions, domain.AuditWorkflowAdvanced)
}

func TestWorkflowEngine_Advance_SignatureMeaning(t *testing.T) {
	f := newEngineFixture(t)
	tpl := seedTemplate(t, f.store, false)
	ctx := context.Background()

	t.Run("defaults to step meaning", func(t *testing.T) {
		doc := seedDocument(t, f, tpl.ID)
		updated, err := f.engine.Advance(ctx, &service.AdvanceInput{
			DocumentID: doc.ID,
			ActorID:    uuid.New(),
			ActorRole:  domain.RoleReviewer,
			Reason:     "reviewed",
		})
		require.NoError(t, err)
		sig, err := f.store.Signatures().GetByID(ctx, *updated.Workflow.Steps[0].SignatureID)
		require.NoError(t, err)
		assert.Equal(t, "Technical Review electronically approved", sig.Meaning)
		assert.Equal(t, tpl.Steps[0].ID, sig.StepID)
	})

	t.Run("explicit meaning wins", func(t *testing.T) {
		doc := seedDocument(t, f, tpl.ID)
		updated, err := f.engine.Advance(ctx, &service.AdvanceInput{
			DocumentID:       doc.ID,
			ActorID:          uuid.New(),
			ActorRole:        domain.RoleReviewer,
			Reason:           "reviewed",
			SignatureMeaning: "Reviewed and found compliant",
		})
		require.NoError(t, err)
		sig, err := f.store.Signatures().GetByID(ctx, *updated.Workflow.Steps[0].SignatureID)
		require.NoError(t, err)
		assert.Equal(t, "Reviewed and found compliant", sig.Meaning)
	})
}

func TestWorkflowEngine_Advance_RoleMismatch(t *testing.T) {
	f := newEngineFixture(t)
	tpl := seedTemplate(t, f.store, false)
	doc := seedDocument(t, f, tpl.ID)

	_, err := f.engine.Advance(context.Background(), &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleApprover,
		Reason:     "jumping the queue",
	})
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)

	// Nothing was recorded for the failed attempt.
	sigs, err := f.store.Signatures().ListByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Empty(t, sigs)
}

func TestWorkflowEngine_Advance_AfterComplete(t *testing.T) {
	f := newEngineFixture(t)
	tpl := seedTemplate(t, f.store, false)
	doc := seedDocument(t, f, tpl.ID)
	ctx := context.Background()

	for _, role := range []domain.UserRole{domain.RoleReviewer, domain.RoleApprover} {
		_, err := f.engine.Advance(ctx, &service.AdvanceInput{
			DocumentID: doc.ID,
			ActorID:    uuid.New(),
			ActorRole:  role,
			Reason:     "sign-off",
		})
		require.NoError(t, err)
	}

	_, err := f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleApprover,
		Reason:     "one more",
	})
	assert.ErrorIs(t, err, domain.ErrWorkflowComplete)
}

func TestWorkflowEngine_Advance_DocumentNotFound(t *testing.T) {
	f := newEngineFixture(t)
	seedTemplate(t, f.store, false)

	_, err := f.engine.Advance(context.Background(), &service.AdvanceInput{
		DocumentID: uuid.New(),
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "ghost",
	})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestWorkflowEngine_Advance_TemplateMissing(t *testing.T) {
	f := newEngineFixture(t)
	tpl := seedTemplate(t, f.store, false)
	doc := seedDocument(t, f, tpl.ID)
	ctx := context.Background()

	// Point the document at a template id that does not exist.
	stored, err := f.store.Documents().GetByID(ctx, doc.ID)
	require.NoError(t, err)
	stored.Workflow.TemplateID = uuid.New()
	require.NoError(t, f.store.Documents().Update(ctx, stored))

	_, err = f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "reviewed",
	})
	assert.ErrorIs(t, err, domain.ErrTemplateMissing)
}

func TestWorkflowEngine_Reject_ResetsToFirstStep(t *testing.T) {
	f := newEngineFixture(t)
	tpl := seedTemplate(t, f.store, false)
	doc := seedDocument(t, f, tpl.ID)
	ctx := context.Background()

	_, err := f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "reviewed",
	})
	require.NoError(t, err)

	rejected, err := f.engine.Reject(ctx, &service.RejectInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleApprover,
		Reason:     "references an obsolete form",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDraft, rejected.Workflow.Status)
	assert.Equal(t, 0, rejected.Workflow.CurrentStepIndex)
	assert.Equal(t, domain.StepInProgress, rejected.Workflow.Steps[0].Status)
	require.NotNil(t, rejected.Workflow.Steps[0].StartedAt)
	assert.Nil(t, rejected.Workflow.Steps[0].SignatureID)
	assert.Nil(t, rejected.Workflow.Steps[0].ActorUserID)
	assert.Equal(t, domain.StepPending, rejected.Workflow.Steps[1].Status)
	assert.Nil(t, rejected.Workflow.Steps[1].CompletedAt)
	assert.Equal(t, "references an obsolete form", rejected.Workflow.Steps[1].Notes)

	// Signatures minted before the rejection stay on record.
	sigs, err := f.store.Signatures().ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, sigs, 1)

	entries, _, err := f.store.Audit().ListByEntity(ctx, domain.EntityDocument, doc.ID, 0, 10)
	require.NoError(t, err)
	var sawRejected bool
	for _, e := range entries {
		if e.Action == domain.AuditWorkflowRejected {
			sawRejected = true
		}
	}
	assert.True(t, sawRejected)
}

func TestWorkflowEngine_Reject_ThenReadvance(t *testing.T) {
	f := newEngineFixture(t)
	tpl := seedTemplate(t, f.store, false)
	doc := seedDocument(t, f, tpl.ID)
	ctx := context.Background()

	first, err := f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "first pass",
	})
	require.NoError(t, err)
	firstSigID := *first.Workflow.Steps[0].SignatureID

	_, err = f.engine.Reject(ctx, &service.RejectInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleApprover,
		Reason:     "rework needed",
	})
	require.NoError(t, err)

	second, err := f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "second pass",
	})
	require.NoError(t, err)
	require.NotNil(t, second.Workflow.Steps[0].SignatureID)
	assert.NotEqual(t, firstSigID, *second.Workflow.Steps[0].SignatureID)

	sigs, err := f.store.Signatures().ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, sigs, 2)
}

func TestWorkflowEngine_SingleStepInProgress(t *testing.T) {
	f := newEngineFixture(t)
	tpl := seedTemplate(t, f.store, false)
	doc := seedDocument(t, f, tpl.ID)
	ctx := context.Background()

	assertOneInProgress := func(d *domain.DocumentRecord) {
		t.Helper()
		var count int
		for _, s := range d.Workflow.Steps {
			if s.Status == domain.StepInProgress {
				count++
			}
		}
		assert.LessOrEqual(t, count, 1)
	}

	assertOneInProgress(doc)
	after, err := f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "reviewed",
	})
	require.NoError(t, err)
	assertOneInProgress(after)

	after, err = f.engine.Reject(ctx, &service.RejectInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleApprover,
		Reason:     "back to draft",
	})
	require.NoError(t, err)
	assertOneInProgress(after)
}

func TestWorkflowEngine_Advance_SignatureWriteFailure(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	wfRepo := new(mocks.MockWorkflowRepo)
	sigRepo := new(mocks.MockSignatureRepo)
	auditRepo := new(mocks.MockAuditRepo)
	userRepo := new(mocks.MockUserRepo)
	engine := service.NewWorkflowEngine(
		docRepo, wfRepo, sigRepo, auditRepo, userRepo,
		new(mocks.MockTransactor), service.NewDocumentLocks(), nil,
	)

	tplID := uuid.New()
	stepID := uuid.New()
	tpl := &domain.WorkflowTemplate{
		ID: tplID,
		Steps: domain.StepDefinitions{
			{ID: stepID, Label: "Technical Review", RequiredRole: domain.RoleReviewer, RequiresSignature: true},
		},
	}
	doc := &domain.DocumentRecord{
		ID: uuid.New(),
		Workflow: domain.WorkflowInstance{
			TemplateID:       tplID,
			Status:           domain.StatusDraft,
			CurrentStepIndex: 0,
			Steps: []domain.WorkflowInstanceStep{
				{StepID: stepID, Status: domain.StepInProgress},
			},
		},
	}

	docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	wfRepo.On("GetByID", mock.Anything, tplID).Return(tpl, nil)
	sigRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := engine.Advance(context.Background(), &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "reviewed",
	})
	require.Error(t, err)
	docRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWorkflowEngine_Advance_StepWithoutSignature(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	tpl := &domain.WorkflowTemplate{
		ID:   uuid.New(),
		Name: "Edit then Approve",
		Steps: domain.StepDefinitions{
			{
				ID:           uuid.New(),
				Label:        "Editorial Check",
				RequiredRole: domain.RoleReviewer,
				SLAHours:     24,
			},
			{
				ID:                uuid.New(),
				Label:             "Final Approval",
				RequiredRole:      domain.RoleApprover,
				SLAHours:          72,
				RequiresSignature: true,
				SignatureMeaning:  "Final Approval electronically approved",
			},
		},
		CreatedBy: uuid.New(),
	}
	require.NoError(t, f.store.Workflows().Create(ctx, tpl))
	doc := seedDocument(t, f, tpl.ID)

	updated, err := f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "typos fixed",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StepCompleted, updated.Workflow.Steps[0].Status)
	assert.Nil(t, updated.Workflow.Steps[0].SignatureID, "unsigned step must not reference a signature")
	assert.Equal(t, 1, updated.Workflow.CurrentStepIndex)

	sigs, err := f.store.Signatures().ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, sigs)

	updated, err = f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleApprover,
		Reason:     "approved",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Workflow.Steps[1].SignatureID)

	sigs, err = f.store.Signatures().ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, sigs, 1)
}

func TestWorkflowEngine_ArchivedDocumentRefusesTransitions(t *testing.T) {
	f := newEngineFixture(t)
	tpl := seedTemplate(t, f.store, false)
	doc := seedDocument(t, f, tpl.ID)
	ctx := context.Background()

	require.NoError(t, f.docs.Archive(ctx, doc.ID, uuid.New()))

	_, err := f.engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "too late",
	})
	assert.ErrorIs(t, err, domain.ErrDocumentArchived)

	_, err = f.engine.Reject(ctx, &service.RejectInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "too late",
	})
	assert.ErrorIs(t, err, domain.ErrDocumentArchived)

	sigs, err := f.store.Signatures().ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, sigs)
}

var _ port.Notifier = (*mockStepNotifier)(nil)

type mockStepNotifier struct {
	done  chan struct{}
	calls []port.StepNotification
}

func (m *mockStepNotifier) NotifyStepReady(_ context.Context, _, _ string, n port.StepNotification) error {
	m.calls = append(m.calls, n)
	if m.done != nil {
		close(m.done)
	}
	return nil
}

func TestWorkflowEngine_Advance_NotifiesNextRole(t *testing.T) {
	store := memory.NewStore()
	locks := service.NewDocumentLocks()
	notifier := &mockStepNotifier{done: make(chan struct{})}
	docs := service.NewDocumentService(
		store.Documents(), store.DocumentTypes(), store.Workflows(),
		store.Audit(), nil, "", store, locks,
	)
	engine := service.NewWorkflowEngine(
		store.Documents(), store.Workflows(), store.Signatures(),
		store.Audit(), store.Users(), store, locks, notifier,
	)
	f := &engineFixture{store: store, docs: docs, engine: engine}
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &domain.User{
		ID:       uuid.New(),
		Email:    "approver@example.com",
		FullName: "Ann Approver",
		Role:     domain.RoleApprover,
		IsActive: true,
	}))

	tpl := seedTemplate(t, store, false)
	doc := seedDocument(t, f, tpl.ID)

	_, err := engine.Advance(ctx, &service.AdvanceInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		ActorRole:  domain.RoleReviewer,
		Reason:     "reviewed",
	})
	require.NoError(t, err)

	<-notifier.done
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "Final Approval", notifier.calls[0].StepLabel)
	assert.Equal(t, doc.DocumentNumber, notifier.calls[0].DocumentNumber)
	assert.Equal(t, 72, notifier.calls[0].SLAHours)
}
