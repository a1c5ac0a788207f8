package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/domain"
)

func sampleDocument() domain.DocumentRecord {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	effective := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return domain.DocumentRecord{
		ID:              uuid.New(),
		Title:           "Equipment Cleaning Procedure",
		DocumentNumber:  "SOP-001",
		CurrentVersion:  "2.0",
		Category:        "Quality",
		SecurityClass:   "internal",
		EffectiveDate:   &effective,
		ChangeControlID: "CC-2025-014",
		Workflow: domain.WorkflowInstance{
			Status:           domain.StatusEffective,
			CurrentStepIndex: 2,
			Steps:            make([]domain.WorkflowInstanceStep, 2),
		},
		Tags:        domain.StringList{"gmp", "cleaning"},
		Attachments: domain.AttachmentList{{ID: uuid.New(), FileName: "a.pdf"}},
		RiskClass:   domain.RiskMedium,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestWriter_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocuments([]domain.DocumentRecord{sampleDocument()}))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header := records[0]
	assert.Equal(t, "Document Number", header[0])
	assert.Equal(t, "Updated At", header[len(header)-1])

	row := records[1]
	require.Len(t, row, len(header))
	assert.Equal(t, "SOP-001", row[0])
	assert.Equal(t, "Equipment Cleaning Procedure", row[1])
	assert.Equal(t, "2.0", row[2])
	assert.Equal(t, "medium", row[5])
	assert.Equal(t, "effective", row[6])
	assert.Equal(t, "", row[7], "completed workflow has no in-flight step")
	assert.Equal(t, "2", row[8])
	assert.Equal(t, "gmp; cleaning", row[9])
	assert.Equal(t, "CC-2025-014", row[10])
	assert.Equal(t, "2025-04-01T00:00:00Z", row[11])
	assert.Equal(t, "", row[12], "unset next issue date renders empty")
	assert.Equal(t, "1", row[13])
}

func TestWriter_InFlightStepIsOneBased(t *testing.T) {
	doc := sampleDocument()
	doc.Workflow.CurrentStepIndex = 0
	doc.Workflow.Status = domain.StatusDraft

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteDocuments([]domain.DocumentRecord{doc}))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "1", records[0][7])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"spaces become underscores", "My Document Register", "My_Document_Register"},
		{"special chars collapse", "report: Q1/Q2 (final)!", "report_Q1_Q2_final"},
		{"leading and trailing stripped", "__register__", "register"},
		{"hyphens preserved", "audit-trail-2025", "audit-trail-2025"},
		{"long names truncated", string(bytes.Repeat([]byte{'a'}, 150)), string(bytes.Repeat([]byte{'a'}, 100))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFilename(tc.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	got := BuildFilename("document register", "csv")
	date := time.Now().Format("2006-01-02")
	assert.Equal(t, "document_register_"+date+".csv", got)
}
