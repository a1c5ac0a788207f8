package service_test

import (
	"context"
	"strings"
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

func newDocumentService(store *memory.Store, storage port.ObjectStorage, bucket string) service.DocumentService {
	return service.NewDocumentService(
		store.Documents(), store.DocumentTypes(), store.Workflows(),
		store.Audit(), storage, bucket, store, service.NewDocumentLocks(),
	)
}

func TestDocumentService_Create_ExplicitTemplate(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")
	ctx := context.Background()

	seedTemplate(t, store, true) // default, should be ignored
	explicit := seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)

	doc, err := svc.Create(ctx, &service.CreateDocumentInput{
		Title:              "Batch Record Review",
		DocumentNumber:     "SOP-010",
		DocumentTypeID:     dt.ID,
		WorkflowTemplateID: &explicit.ID,
		CreatedBy:          uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, explicit.ID, doc.Workflow.TemplateID)
	assert.Equal(t, domain.StatusDraft, doc.Workflow.Status)
	assert.Equal(t, domain.StepInProgress, doc.Workflow.Steps[0].Status)
	assert.Equal(t, domain.StepPending, doc.Workflow.Steps[1].Status)
	assert.Equal(t, "1.0", doc.CurrentVersion)
}

func TestDocumentService_Create_FallsBackToDefault(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")

	seedTemplate(t, store, false)
	def := seedTemplate(t, store, true)
	dt := seedDocumentType(t, store)

	doc, err := svc.Create(context.Background(), &service.CreateDocumentInput{
		Title:          "Deviation Handling",
		DocumentNumber: "SOP-011",
		DocumentTypeID: dt.ID,
		CreatedBy:      uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, def.ID, doc.Workflow.TemplateID)
}

func TestDocumentService_Create_FallsBackToFirstTemplate(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")

	first := seedTemplate(t, store, false)
	seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)

	doc, err := svc.Create(context.Background(), &service.CreateDocumentInput{
		Title:          "Change Control",
		DocumentNumber: "SOP-012",
		DocumentTypeID: dt.ID,
		CreatedBy:      uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, doc.Workflow.TemplateID)
}

func TestDocumentService_Create_NoTemplateAvailable(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")
	dt := seedDocumentType(t, store)

	_, err := svc.Create(context.Background(), &service.CreateDocumentInput{
		Title:          "Orphaned",
		DocumentNumber: "SOP-013",
		DocumentTypeID: dt.ID,
		CreatedBy:      uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrNoWorkflowAvailable)
}

func TestDocumentService_Create_UnknownDocumentType(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")
	seedTemplate(t, store, true)

	_, err := svc.Create(context.Background(), &service.CreateDocumentInput{
		Title:          "Untyped",
		DocumentNumber: "SOP-014",
		DocumentTypeID: uuid.New(),
		CreatedBy:      uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrDocumentTypeNotFound)
}

func TestDocumentService_Create_TemplateWithoutSteps(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")
	ctx := context.Background()
	dt := seedDocumentType(t, store)

	// Inserted directly, bypassing the template service's validation.
	empty := &domain.WorkflowTemplate{
		ID:        uuid.New(),
		Name:      "Empty",
		CreatedBy: uuid.New(),
	}
	require.NoError(t, store.Workflows().Create(ctx, empty))

	_, err := svc.Create(ctx, &service.CreateDocumentInput{
		Title:              "Unroutable",
		DocumentNumber:     "SOP-015",
		DocumentTypeID:     dt.ID,
		WorkflowTemplateID: &empty.ID,
		CreatedBy:          uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestDocumentService_Update_PartialMerge(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")
	ctx := context.Background()

	tpl := seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)
	doc, err := svc.Create(ctx, &service.CreateDocumentInput{
		Title:              "Original Title",
		DocumentNumber:     "SOP-020",
		DocumentTypeID:     dt.ID,
		WorkflowTemplateID: &tpl.ID,
		Category:           "Quality",
		CreatedBy:          uuid.New(),
	})
	require.NoError(t, err)

	title := "Amended Title"
	require.NoError(t, svc.Update(ctx, &service.UpdateDocumentInput{
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
		Title:      &title,
		Tags:       []string{"gmp", "cleaning"},
	}))

	got, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amended Title", got.Title)
	assert.Equal(t, "Quality", got.Category, "untouched fields keep their value")
	assert.Equal(t, domain.StringList{"gmp", "cleaning"}, got.Tags)
}

func TestDocumentService_AddVersion_SupersedesPrevious(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")
	ctx := context.Background()

	tpl := seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)
	doc, err := svc.Create(ctx, &service.CreateDocumentInput{
		Title:              "Sampling Plan",
		DocumentNumber:     "SOP-030",
		DocumentTypeID:     dt.ID,
		WorkflowTemplateID: &tpl.ID,
		CreatedBy:          uuid.New(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.AddVersion(ctx, &service.AddVersionInput{
		DocumentID:    doc.ID,
		Label:         "2.0",
		ChangeSummary: "annual review revision",
		ActorID:       uuid.New(),
	}))

	got, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.VersionHistory, 2)
	assert.Equal(t, "2.0", got.CurrentVersion)
	assert.Equal(t, got.CurrentVersion, got.VersionHistory[0].Label)
	assert.Nil(t, got.VersionHistory[0].SupersededAt)
	assert.Equal(t, "1.0", got.VersionHistory[1].Label)
	require.NotNil(t, got.VersionHistory[1].SupersededAt)
}

func TestDocumentService_MarkEffective(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")
	ctx := context.Background()

	tpl := seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)
	doc, err := svc.Create(ctx, &service.CreateDocumentInput{
		Title:              "Calibration Procedure",
		DocumentNumber:     "SOP-040",
		DocumentTypeID:     dt.ID,
		WorkflowTemplateID: &tpl.ID,
		CreatedBy:          uuid.New(),
	})
	require.NoError(t, err)

	issuer := uuid.New()
	require.NoError(t, svc.MarkEffective(ctx, doc.ID, issuer))

	got, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEffective, got.Workflow.Status)
	require.NotNil(t, got.EffectiveDate)
	require.NotNil(t, got.IssueDate)
	require.NotNil(t, got.IssuedBy)
	assert.Equal(t, issuer, *got.IssuedBy)

	require.NoError(t, svc.Archive(ctx, doc.ID, uuid.New()))
	got, err = svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, got.Workflow.Status)
}

func TestDocumentService_MarkEffective_AfterArchive(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")
	ctx := context.Background()

	tpl := seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)
	doc, err := svc.Create(ctx, &service.CreateDocumentInput{
		Title:              "Retired Procedure",
		DocumentNumber:     "SOP-041",
		DocumentTypeID:     dt.ID,
		WorkflowTemplateID: &tpl.ID,
		CreatedBy:          uuid.New(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, doc.ID, uuid.New()))

	err = svc.MarkEffective(ctx, doc.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrDocumentArchived)
}

func TestDocumentService_UploadAttachment(t *testing.T) {
	store := memory.NewStore()
	storage := new(mocks.MockObjectStorage)
	svc := newDocumentService(store, storage, "veridoc-test")
	ctx := context.Background()

	tpl := seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)
	doc, err := svc.Create(ctx, &service.CreateDocumentInput{
		Title:              "Validation Protocol",
		DocumentNumber:     "SOP-050",
		DocumentTypeID:     dt.ID,
		WorkflowTemplateID: &tpl.ID,
		CreatedBy:          uuid.New(),
	})
	require.NoError(t, err)

	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "veridoc-test" && strings.HasPrefix(in.Key, "documents/"+doc.ID.String()+"/")
	})).Return(&port.UploadOutput{Location: "s3://veridoc-test/key"}, nil)

	att, err := svc.UploadAttachment(ctx, &service.UploadAttachmentInput{
		DocumentID:  doc.ID,
		FileName:    "protocol.pdf",
		ContentType: "application/pdf",
		Size:        1024,
		Body:        strings.NewReader("%PDF-1.4"),
		ActorID:     uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "protocol.pdf", att.FileName)
	assert.Equal(t, "veridoc-test", att.S3Bucket)

	got, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, att.ID, got.Attachments[0].ID)
	storage.AssertExpectations(t)
}

func TestDocumentService_DownloadAttachment_NotFound(t *testing.T) {
	store := memory.NewStore()
	storage := new(mocks.MockObjectStorage)
	svc := newDocumentService(store, storage, "veridoc-test")
	ctx := context.Background()

	tpl := seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)
	doc, err := svc.Create(ctx, &service.CreateDocumentInput{
		Title:              "Training Record",
		DocumentNumber:     "SOP-051",
		DocumentTypeID:     dt.ID,
		WorkflowTemplateID: &tpl.ID,
		CreatedBy:          uuid.New(),
	})
	require.NoError(t, err)

	_, _, err = svc.DownloadAttachment(ctx, doc.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrAttachmentNotFound)
}

func TestDocumentService_List_Filters(t *testing.T) {
	store := memory.NewStore()
	svc := newDocumentService(store, nil, "")
	ctx := context.Background()

	tpl := seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)
	for i, tags := range [][]string{{"gmp"}, {"safety"}, {"gmp", "safety"}} {
		_, err := svc.Create(ctx, &service.CreateDocumentInput{
			Title:              "Doc",
			DocumentNumber:     "SOP-06" + string(rune('0'+i)),
			DocumentTypeID:     dt.ID,
			WorkflowTemplateID: &tpl.ID,
			Tags:               tags,
			CreatedBy:          uuid.New(),
		})
		require.NoError(t, err)
	}

	docs, total, err := svc.List(ctx, port.DocumentFilter{Tag: "gmp"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, docs, 2)

	status := domain.StatusDraft
	_, total, err = svc.List(ctx, port.DocumentFilter{Status: &status}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
