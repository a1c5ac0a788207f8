package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"veridoc/internal/domain"
	"veridoc/internal/port"
	"veridoc/internal/repository/memory"
	"veridoc/internal/service"
)

func TestReportService_WorkflowStatusCounts(t *testing.T) {
	store := memory.NewStore()
	docs := newDocumentService(store, nil, "")
	svc := service.NewReportService(store, store.Audit())
	ctx := context.Background()

	tpl := seedTemplate(t, store, false)
	dt := seedDocumentType(t, store)
	for i := 0; i < 3; i++ {
		_, err := docs.Create(ctx, &service.CreateDocumentInput{
			Title:              "Doc",
			DocumentNumber:     "SOP-10" + string(rune('0'+i)),
			DocumentTypeID:     dt.ID,
			WorkflowTemplateID: &tpl.ID,
			CreatedBy:          uuid.New(),
		})
		require.NoError(t, err)
	}

	rows, err := svc.WorkflowStatusCounts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.StatusDraft, rows[0].Status)
	assert.Equal(t, 3, rows[0].Count)
}

func TestReportService_AuditTrailXLSX(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewReportService(store, store.Audit())
	ctx := context.Background()

	docID := uuid.New()
	require.NoError(t, store.Audit().Create(ctx, &domain.AuditLogEntry{
		ID:             uuid.New(),
		ActorID:        uuid.New(),
		Action:         domain.AuditDocumentCreated,
		EntityType:     domain.EntityDocument,
		EntityID:       docID,
		Summary:        "document SOP-001 created",
		Metadata:       []byte(`{"version":"1.0"}`),
		ComplianceRefs: domain.StringList{"21 CFR Part 11", "ISO 13485"},
		CreatedAt:      time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}))

	out, err := svc.AuditTrailXLSX(ctx, port.AuditFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, out)

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows("Audit Trail")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Timestamp (UTC)", rows[0][0])
	assert.Equal(t, "2025-05-01 10:00:00", rows[1][0])
	assert.Equal(t, "DOCUMENT_CREATED", rows[1][2])
	assert.Equal(t, "document SOP-001 created", rows[1][5])
	assert.Equal(t, "21 CFR Part 11, ISO 13485", rows[1][6])
}
